package auth

import "time"

// Identity is the subset of a user that is embedded into issued tokens.
type Identity struct {
	UserID   int64
	Email    string
	Username string
}

// Principal is the verified caller recovered from a token.
type Principal struct {
	UserID    int64
	Email     string
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

type Strategy interface {
	IssueToken(id Identity) (string, error)
	ParseToken(token string) (*Principal, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}
