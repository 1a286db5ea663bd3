// Package auth implements the minimal credential boundary the spec's bearer
// token contract assumes: password hashing, token issuance, token
// verification into a user.Principal. The facade itself only ever consumes
// the already-validated Principal (spec §6), so this package is the thing
// that produces one at the edge.
package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
)

// TokenPair is what signup/login hand back to the caller.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Claims is the payload embedded in both access and refresh tokens.
type Claims struct {
	UserID   uuid.UUID
	IsActive bool
	Type     TokenType
}

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Lifetimes is the configured access/refresh token duration pair.
type Lifetimes struct {
	Access  time.Duration
	Refresh time.Duration
}

// CredentialService hashes passwords and issues/verifies bearer tokens.
type CredentialService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hashed string) bool
	IssueTokens(u user.User) (TokenPair, error)
	Verify(token string) (Claims, error)
}

var errInvalidToken = domainerr.Forbidden("invalid or expired token")
