package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/fintrack/internal/domain/errors"
	"github.com/polkiloo/fintrack/internal/domain/model"
	pkgAuth "github.com/polkiloo/fintrack/internal/pkg/auth"
	"github.com/polkiloo/fintrack/internal/server/http/dto"
	"github.com/polkiloo/fintrack/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/fintrack/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func asUser(id int64) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDContextKey, id)
		c.Set(middleware.PrincipalContextKey, &pkgAuth.Principal{UserID: id, TokenID: "jti"})
	}
}

func performRequest(t *testing.T, method, pattern, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, pattern, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}
	if CurrentPrincipal(c) != nil {
		t.Fatal("expected nil principal when not set")
	}

	asUser(42)(c)
	if got := CurrentUserID(c); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if p := CurrentPrincipal(c); p == nil || p.UserID != 42 {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", domainErrors.NewValidationError("amount", "must be greater than 0"), http.StatusBadRequest, `"amount":"must be greater than 0"`},
		{"credentials", domainErrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"token", pkgAuth.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
		{"not found", domainErrors.ErrNotFound, http.StatusNotFound, "not found"},
		{"conflict", domainErrors.ErrAlreadyExists, http.StatusConflict, "already exists"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, "/", "/", func(c *gin.Context) {
				respondError(c, discardLogger(), tt.err)
			}, nil, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			if !strings.Contains(resp.Body.String(), tt.body) {
				t.Fatalf("expected body to contain %q, got %s", tt.body, resp.Body.String())
			}
			if strings.Contains(resp.Body.String(), "boom") {
				t.Fatal("internal error details leaked to client")
			}
		})
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	username := testhelpers.RandomString(5, 12)
	email := testhelpers.RandomEmail()
	password := testhelpers.RandomString(16, 32)
	facade := testhelpers.AuthFacadeStub{RegisterFn: func(_ context.Context, u, e, p string) (*model.User, error) {
		if u != username || e != email || p != password {
			t.Fatalf("unexpected input passed to facade: %q %q %q", u, e, p)
		}
		return &model.User{ID: 7, Username: u, Email: e, PasswordHash: "hash"}, nil
	}}
	body, _ := json.Marshal(dto.RegisterRequest{Username: username, Email: email, Password: password})

	handler := NewAuthHandler(facade, CookieOptions{}, discardLogger())
	resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	var decoded map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 3 || decoded["id"] != float64(7) || decoded["email"] != email {
		t.Fatalf("unexpected register response: %v", decoded)
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "validation", body: []byte(`{"username":"","email":"x","password":""}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string) (*model.User, error) {
			return nil, domainErrors.NewValidationError("email", "must be a valid email address")
		}}, status: http.StatusBadRequest},
		{name: "already exists", body: []byte(`{"username":"a","email":"a@b.co","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string) (*model.User, error) {
			return nil, domainErrors.ErrAlreadyExists
		}}, status: http.StatusConflict},
		{name: "internal", body: []byte(`{"username":"a","email":"a@b.co","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string) (*model.User, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(tt.facade, CookieOptions{}, discardLogger())
			resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerLoginSetsTokenEverywhere(t *testing.T) {
	facade := testhelpers.AuthFacadeStub{LoginFn: func(context.Context, string, string) (*model.User, string, error) {
		return &model.User{ID: 1}, "session-token", nil
	}}
	handler := NewAuthHandler(facade, CookieOptions{MaxAge: 3600, Secure: true}, discardLogger())
	resp := performRequest(t, http.MethodPost, "/login", "/login", handler.Login, nil, []byte(`{"email":"a@b.co","password":"pw"}`), jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var decoded dto.TokenResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil || decoded.Token != "session-token" {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	if got := resp.Header().Get("Authorization"); got != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", got)
	}

	result := resp.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	var found *http.Cookie
	for _, cookie := range result.Cookies() {
		if cookie.Name == "fintrack_token" {
			found = cookie
		}
	}
	if found == nil {
		t.Fatal("expected auth cookie named fintrack_token")
	}
	if found.Value != "session-token" || !found.HttpOnly || !found.Secure || found.MaxAge != 3600 {
		t.Fatalf("unexpected cookie %+v", found)
	}
}

func TestAuthHandlerLoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid", body: []byte(`{"email":"a@b.co","password":"b"}`), facade: testhelpers.AuthFacadeStub{LoginFn: func(context.Context, string, string) (*model.User, string, error) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusUnauthorized},
		{name: "internal", body: []byte(`{"email":"a@b.co","password":"b"}`), facade: testhelpers.AuthFacadeStub{LoginFn: func(context.Context, string, string) (*model.User, string, error) {
			return nil, "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(tt.facade, CookieOptions{}, discardLogger())
			resp := performRequest(t, http.MethodPost, "/login", "/login", handler.Login, nil, tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			if resp.Header().Get("Authorization") != "" {
				t.Fatal("failed login must not set a token")
			}
		})
	}
}

func TestAuthHandlerLogout(t *testing.T) {
	var revoked *pkgAuth.Principal
	facade := testhelpers.AuthFacadeStub{LogoutFn: func(_ context.Context, p *pkgAuth.Principal) error {
		revoked = p
		return nil
	}}
	handler := NewAuthHandler(facade, CookieOptions{}, discardLogger())
	resp := performRequest(t, http.MethodPost, "/logout", "/logout", handler.Logout, asUser(5), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
	if revoked == nil || revoked.UserID != 5 {
		t.Fatalf("expected principal of user 5 to be revoked, got %+v", revoked)
	}
	if !strings.Contains(resp.Header().Get("Set-Cookie"), "fintrack_token=;") {
		t.Fatalf("expected cookie to be cleared, got %q", resp.Header().Get("Set-Cookie"))
	}
}

func TestAuthHandlerMe(t *testing.T) {
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{}, CookieOptions{}, discardLogger())
	resp := performRequest(t, http.MethodGet, "/me", "/me", handler.Me, asUser(9), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.UserResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ID != 9 {
		t.Fatalf("expected profile of user 9, got %+v", decoded)
	}

	missing := NewAuthHandler(testhelpers.AuthFacadeStub{ProfileFn: func(context.Context, int64) (*model.User, error) {
		return nil, domainErrors.ErrNotFound
	}}, CookieOptions{}, discardLogger())
	resp = performRequest(t, http.MethodGet, "/me", "/me", missing.Me, asUser(9), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestResourceHandlerCRUD(t *testing.T) {
	facade := testhelpers.NewFinanceFacadeStub()
	handler := NewExpenseHandler(facade, discardLogger())

	body := []byte(`{"user_id": 99, "amount": 12.5, "description": "lunch", "date": "2024-05-01"}`)
	resp := performRequest(t, http.MethodPost, "/expenses", "/expenses", handler.Create, asUser(1), body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created dto.ExpenseResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	stored, err := facade.ExpenseStore.Get(context.Background(), 1, created.ID)
	if err != nil {
		t.Fatalf("expense not stored for caller: %v", err)
	}
	if stored.UserID != 1 {
		t.Fatalf("expected owner 1, got %d", stored.UserID)
	}

	resp = performRequest(t, http.MethodGet, "/expenses", "/expenses", handler.List, asUser(1), nil, nil)
	var listed []dto.ExpenseResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &listed)
	if resp.Code != http.StatusOK || len(listed) != 1 {
		t.Fatalf("unexpected list response %d %s", resp.Code, resp.Body.String())
	}

	resp = performRequest(t, http.MethodGet, "/expenses", "/expenses", handler.List, asUser(2), nil, nil)
	if resp.Code != http.StatusOK || strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("expected empty list for another user, got %s", resp.Body.String())
	}

	resp = performRequest(t, http.MethodGet, "/expenses/:id", "/expenses/1", handler.Get, asUser(2), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected foreign expense to be not found, got %d", resp.Code)
	}

	update := []byte(`{"amount": 20, "description": "dinner", "date": "2024-05-02"}`)
	resp = performRequest(t, http.MethodPut, "/expenses/:id", "/expenses/1", handler.Update, asUser(1), update, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var updated dto.ExpenseResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &updated)
	if updated.Amount != 20 || updated.Date.Format(dto.DateLayout) != "2024-05-02" {
		t.Fatalf("unexpected update %+v", updated)
	}

	resp = performRequest(t, http.MethodDelete, "/expenses/:id", "/expenses/1", handler.Delete, asUser(2), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected foreign delete to be not found, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodDelete, "/expenses/:id", "/expenses/1", handler.Delete, asUser(1), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestResourceHandlerRejectsBadInput(t *testing.T) {
	handler := NewCategoryHandler(testhelpers.NewFinanceFacadeStub(), discardLogger())

	tests := []struct {
		name    string
		method  string
		path    string
		handler gin.HandlerFunc
		body    []byte
		status  int
	}{
		{"bad json", http.MethodPost, "/categories", handler.Create, []byte("{"), http.StatusBadRequest},
		{"non numeric id", http.MethodGet, "/categories/abc", handler.Get, nil, http.StatusNotFound},
		{"negative id", http.MethodDelete, "/categories/-1", handler.Delete, nil, http.StatusNotFound},
		{"update bad id", http.MethodPut, "/categories/x", handler.Update, []byte(`{}`), http.StatusNotFound},
		{"update bad json", http.MethodPut, "/categories/1", handler.Update, []byte(`[`), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern := "/categories"
			if tt.method != http.MethodPost {
				pattern = "/categories/:id"
			}
			resp := performRequest(t, tt.method, pattern, tt.path, tt.handler, asUser(1), tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestResourceHandlerStoreFailure(t *testing.T) {
	facade := testhelpers.NewFinanceFacadeStub()
	facade.BudgetStore.Err = errors.New("db down")
	handler := NewBudgetHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodGet, "/budgets", "/budgets", handler.List, asUser(1), nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
}

func TestSavingsGoalHandlerRendersProgress(t *testing.T) {
	facade := testhelpers.NewFinanceFacadeStub()
	handler := NewSavingsGoalHandler(facade, discardLogger())

	body := []byte(`{"name":"Bike","target_amount":200,"current_amount":50}`)
	resp := performRequest(t, http.MethodPost, "/savings-goals", "/savings-goals", handler.Create, asUser(1), body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var decoded dto.SavingsGoalResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &decoded)
	if decoded.Progress != 25 || decoded.Completed {
		t.Fatalf("unexpected goal %+v", decoded)
	}
}

func TestAnalyticsHandlerSummary(t *testing.T) {
	facade := testhelpers.NewFinanceFacadeStub()
	var gotFrom, gotTo time.Time
	var gotUser int64
	facade.SummaryFn = func(_ context.Context, userID int64, from, to time.Time) (*model.SpendingSummary, error) {
		gotUser, gotFrom, gotTo = userID, from, to
		return &model.SpendingSummary{From: from, To: to, TotalSpent: 99}, nil
	}
	handler := NewAnalyticsHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodGet, "/summary", "/summary?from=2024-01-01&to=2024-03-31", handler.Summary, asUser(3), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotUser != 3 || gotFrom.Format(dto.DateLayout) != "2024-01-01" || gotTo.Format(dto.DateLayout) != "2024-03-31" {
		t.Fatalf("unexpected summary scope: %d %s %s", gotUser, gotFrom, gotTo)
	}
	var decoded dto.SummaryResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &decoded)
	if decoded.TotalSpent != 99 {
		t.Fatalf("unexpected summary %+v", decoded)
	}

	resp = performRequest(t, http.MethodGet, "/summary", "/summary", handler.Summary, asUser(3), nil, nil)
	if resp.Code != http.StatusOK || !gotFrom.IsZero() || !gotTo.IsZero() {
		t.Fatalf("expected zero bounds when omitted, got %d %s %s", resp.Code, gotFrom, gotTo)
	}
}

func TestAnalyticsHandlerSummaryFailures(t *testing.T) {
	facade := testhelpers.NewFinanceFacadeStub()
	handler := NewAnalyticsHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodGet, "/summary", "/summary?from=yesterday", handler.Summary, asUser(1), nil, nil)
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), `"from"`) {
		t.Fatalf("expected 400 on from, got %d %s", resp.Code, resp.Body.String())
	}
	resp = performRequest(t, http.MethodGet, "/summary", "/summary?to=31-12-2024", handler.Summary, asUser(1), nil, nil)
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), `"to"`) {
		t.Fatalf("expected 400 on to, got %d %s", resp.Code, resp.Body.String())
	}

	facade.SummaryFn = func(context.Context, int64, time.Time, time.Time) (*model.SpendingSummary, error) {
		return nil, domainErrors.NewValidationError("from", "must not be after to")
	}
	resp = performRequest(t, http.MethodGet, "/summary", "/summary?from=2024-05-01&to=2024-01-01", handler.Summary, asUser(1), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	facade := testhelpers.NewFinanceFacadeStub()
	handler := NewHealthHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodGet, "/health", "/health", handler.Check, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	facade.HealthFn = func(context.Context) error { return errors.New("db down") }
	resp = performRequest(t, http.MethodGet, "/health", "/health", handler.Check, nil, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}
