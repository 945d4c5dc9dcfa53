package test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/polkiloo/fintrack/internal/domain/model"
	pkgAuth "github.com/polkiloo/fintrack/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(pkgAuth.Identity) (string, error)
	ParseFn func(string) (*pkgAuth.Principal, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(id pkgAuth.Identity) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(id)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (*pkgAuth.Principal, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return &pkgAuth.Principal{UserID: 1, TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// AuthorizerStub implements the middleware authorization contract.
type AuthorizerStub struct {
	Principal   *pkgAuth.Principal
	Err         error
	AuthorizeFn func(context.Context, string) (*pkgAuth.Principal, error)
}

// Authorize either delegates to override or returns predefined result.
func (s AuthorizerStub) Authorize(ctx context.Context, token string) (*pkgAuth.Principal, error) {
	if s.AuthorizeFn != nil {
		return s.AuthorizeFn(ctx, token)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Principal != nil {
		return s.Principal, nil
	}
	return &pkgAuth.Principal{UserID: 1}, nil
}

// DenylistStub keeps revoked token ids in memory.
type DenylistStub struct {
	Err error

	mu      sync.Mutex
	revoked map[string]time.Time
}

func (d *DenylistStub) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if d.Err != nil {
		return d.Err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.revoked == nil {
		d.revoked = make(map[string]time.Time)
	}
	d.revoked[tokenID] = until
	return nil
}

func (d *DenylistStub) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if d.Err != nil {
		return false, d.Err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[tokenID]
	return ok, nil
}

// AuthFacadeStub simulates account facade interactions.
type AuthFacadeStub struct {
	RegisterFn func(ctx context.Context, username, email, password string) (*model.User, error)
	LoginFn    func(ctx context.Context, email, password string) (*model.User, string, error)
	LogoutFn   func(context.Context, *pkgAuth.Principal) error
	ProfileFn  func(context.Context, int64) (*model.User, error)
}

// Register returns a fresh user for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, username, email, password)
	}
	return &model.User{ID: 1, Username: username, Email: email, IsActive: true}, nil
}

// Login returns token for successful authentication scenarios.
func (s AuthFacadeStub) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, email, password)
	}
	return &model.User{ID: 1, Email: email, IsActive: true}, "token", nil
}

func (s AuthFacadeStub) Logout(ctx context.Context, principal *pkgAuth.Principal) error {
	if s.LogoutFn != nil {
		return s.LogoutFn(ctx, principal)
	}
	return nil
}

func (s AuthFacadeStub) Profile(ctx context.Context, userID int64) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.User{ID: userID, Username: "user", Email: "user@example.com", IsActive: true}, nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
var _ pkgAuth.Denylist = (*DenylistStub)(nil)
