package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidToken  = errors.New("invalid auth token")
	ErrMissingSecret = errors.New("token signing secret is empty")
)

// Claims carried by fintrack access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// JWTStrategy issues and verifies HS256 signed JWTs.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTStrategy builds JWTStrategy. An empty secret is rejected.
func NewJWTStrategy(secret string, opts Options) (*JWTStrategy, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &JWTStrategy{secret: []byte(secret), ttl: ttl, now: now}, nil
}

// IssueToken signs a token for the given identity.
func (s *JWTStrategy) IssueToken(id Identity) (string, error) {
	if id.UserID <= 0 {
		return "", ErrInvalidToken
	}
	issuedAt := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
		Email: id.Email,
		Name:  id.Username,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies signature and expiry and returns the caller.
func (s *JWTStrategy) ParseToken(token string) (*Principal, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}

	return &Principal{
		UserID:    userID,
		Email:     claims.Email,
		Username:  claims.Name,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
