package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/user"
)

// JWTCredentialService is the production CredentialService: bcrypt for
// passwords, golang-jwt for bearer tokens.
type JWTCredentialService struct {
	signingKey []byte
	lifetimes  Lifetimes
}

func NewJWTCredentialService(signingKey []byte, lifetimes Lifetimes) *JWTCredentialService {
	return &JWTCredentialService{signingKey: signingKey, lifetimes: lifetimes}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	IsActive bool      `json:"is_active"`
	Type     TokenType `json:"type"`
}

func (s *JWTCredentialService) sign(u user.User, tokenType TokenType, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		IsActive: u.IsActive,
		Type:     tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingKey)
}

func (s *JWTCredentialService) IssueTokens(u user.User) (TokenPair, error) {
	access, err := s.sign(u, TokenAccess, s.lifetimes.Access)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(u, TokenRefresh, s.lifetimes.Refresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *JWTCredentialService) Verify(tokenStr string) (Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, errInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Claims{}, errInvalidToken
	}
	return Claims{UserID: id, IsActive: claims.IsActive, Type: claims.Type}, nil
}

var _ CredentialService = (*JWTCredentialService)(nil)
