package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fintrack/internal/domain/model"
	"github.com/polkiloo/fintrack/internal/server/http/dto"
	"github.com/polkiloo/fintrack/internal/usecase"
)

// ResourceHandler serves CRUD endpoints for one user-scoped entity. Req is the
// request body and Resp the rendered item.
type ResourceHandler[T any, Req interface{ ToModel() T }, Resp any] struct {
	resource usecase.Resource[T]
	render   func(T) Resp
	logger   *slog.Logger
}

// NewResourceHandler constructs ResourceHandler.
func NewResourceHandler[T any, Req interface{ ToModel() T }, Resp any](resource usecase.Resource[T], render func(T) Resp, logger *slog.Logger) *ResourceHandler[T, Req, Resp] {
	return &ResourceHandler[T, Req, Resp]{resource: resource, render: render, logger: logger}
}

func NewExpenseHandler(facade ResourceFacade, logger *slog.Logger) *ResourceHandler[model.Expense, dto.ExpenseRequest, dto.ExpenseResponse] {
	return NewResourceHandler[model.Expense, dto.ExpenseRequest](facade.Expenses(), dto.NewExpenseResponse, logger)
}

func NewBudgetHandler(facade ResourceFacade, logger *slog.Logger) *ResourceHandler[model.Budget, dto.BudgetRequest, dto.BudgetResponse] {
	return NewResourceHandler[model.Budget, dto.BudgetRequest](facade.Budgets(), dto.NewBudgetResponse, logger)
}

func NewCategoryHandler(facade ResourceFacade, logger *slog.Logger) *ResourceHandler[model.Category, dto.CategoryRequest, dto.CategoryResponse] {
	return NewResourceHandler[model.Category, dto.CategoryRequest](facade.Categories(), dto.NewCategoryResponse, logger)
}

func NewSavingsGoalHandler(facade ResourceFacade, logger *slog.Logger) *ResourceHandler[model.SavingsGoal, dto.SavingsGoalRequest, dto.SavingsGoalResponse] {
	return NewResourceHandler[model.SavingsGoal, dto.SavingsGoalRequest](facade.SavingsGoals(), dto.NewSavingsGoalResponse, logger)
}

// Create handles POST on the collection.
func (h *ResourceHandler[T, Req, Resp]) Create(c *gin.Context) {
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	item, err := h.resource.Create(c.Request.Context(), CurrentUserID(c), req.ToModel())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, h.render(*item))
}

// List handles GET on the collection. An empty collection renders as [].
func (h *ResourceHandler[T, Req, Resp]) List(c *gin.Context) {
	items, err := h.resource.List(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]Resp, 0, len(items))
	for _, item := range items {
		response = append(response, h.render(item))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET on a single item.
func (h *ResourceHandler[T, Req, Resp]) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}

	item, err := h.resource.Get(c.Request.Context(), CurrentUserID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.render(*item))
}

// Update handles PUT on a single item.
func (h *ResourceHandler[T, Req, Resp]) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}
	var req Req
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	item, err := h.resource.Update(c.Request.Context(), CurrentUserID(c), id, req.ToModel())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.render(*item))
}

// Delete handles DELETE on a single item.
func (h *ResourceHandler[T, Req, Resp]) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}

	if err := h.resource.Delete(c.Request.Context(), CurrentUserID(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
