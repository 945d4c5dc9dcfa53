package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/polkiloo/fintrack/internal/config"
	domainErrors "github.com/polkiloo/fintrack/internal/domain/errors"
	"github.com/polkiloo/fintrack/internal/domain/model"
	"github.com/polkiloo/fintrack/internal/domain/repository"
	pkgAuth "github.com/polkiloo/fintrack/internal/pkg/auth"
)

// RegisterInput carries sign-up fields.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=100"`
}

// LoginInput carries sign-in fields.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=100"`
}

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users       repository.UserRepository
	hasher      pkgAuth.PasswordHasher
	tokens      pkgAuth.Strategy
	denylist    pkgAuth.Denylist
	validator   *Validator
	checkActive bool
	now         func() time.Time
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	users repository.UserRepository,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
	denylist pkgAuth.Denylist,
	validator *Validator,
	cfg *config.Config,
) *AuthUseCase {
	checkActive := true
	if cfg != nil {
		checkActive = cfg.CheckUserActive
	}
	return &AuthUseCase{
		users:       users,
		hasher:      hasher,
		tokens:      strategy,
		denylist:    denylist,
		validator:   validator,
		checkActive: checkActive,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user. The returned user never carries the password.
func (u *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	if err := u.validator.Struct(in); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrPasswordTooLong) {
			return nil, domainErrors.NewValidationError("password", "must be at most 72 bytes")
		}
		return nil, err
	}

	usr, err := u.users.Create(ctx, model.User{Username: in.Username, Email: in.Email, PasswordHash: hash})
	if err != nil {
		return nil, err
	}
	return usr, nil
}

// Authenticate validates credentials and issues a token. Unknown email,
// inactive account and wrong password are indistinguishable to the caller.
func (u *AuthUseCase) Authenticate(ctx context.Context, in LoginInput) (*model.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := u.validator.Struct(in); err != nil {
		return nil, "", err
	}

	usr, err := u.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, in.Password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if !usr.IsActive {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	now := u.now()
	if err := u.users.TouchLastLogin(ctx, usr.ID, now); err != nil {
		return nil, "", fmt.Errorf("record login: %w", err)
	}
	usr.LastLoginAt = &now

	token, err := u.tokens.IssueToken(pkgAuth.Identity{UserID: usr.ID, Email: usr.Email, Username: usr.Username})
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authorize resolves a bearer token into the calling principal.
// Token problems yield pkgAuth.ErrInvalidToken, a disabled account yields
// domainErrors.ErrInactiveUser; anything else is an infrastructure failure.
func (u *AuthUseCase) Authorize(ctx context.Context, token string) (*pkgAuth.Principal, error) {
	if token == "" {
		return nil, pkgAuth.ErrInvalidToken
	}
	principal, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil, pkgAuth.ErrInvalidToken
	}

	revoked, err := u.denylist.IsRevoked(ctx, principal.TokenID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, pkgAuth.ErrInvalidToken
	}

	if u.checkActive {
		usr, err := u.users.GetByID(ctx, principal.UserID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return nil, pkgAuth.ErrInvalidToken
			}
			return nil, err
		}
		if !usr.IsActive {
			return nil, domainErrors.ErrInactiveUser
		}
	}

	return principal, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (u *AuthUseCase) Logout(ctx context.Context, principal *pkgAuth.Principal) error {
	if principal == nil {
		return pkgAuth.ErrInvalidToken
	}
	return u.denylist.Revoke(ctx, principal.TokenID, principal.ExpiresAt)
}

// Profile returns the user behind an authorized request.
func (u *AuthUseCase) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return u.users.GetByID(ctx, userID)
}
