package auth

import (
	"context"
	"strings"

	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/store"
)

// Service is the signup/login surface the HTTP auth handlers call. It is
// separate from CredentialService so signup and login go through one place
// that owns both the user repository and the credential checks.
type Service struct {
	users      store.UserRepository
	credential CredentialService
}

func NewService(users store.UserRepository, credential CredentialService) *Service {
	return &Service{users: users, credential: credential}
}

// SignupPayload is the POST /auth/signup body.
type SignupPayload struct {
	Email    string
	Username string
	Password string
	FullName string
}

func (s *Service) Signup(ctx context.Context, p SignupPayload) (user.User, TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	username := strings.TrimSpace(p.Username)
	if email == "" || username == "" {
		return user.User{}, TokenPair{}, domainerr.InvalidInput("email and username are required")
	}
	if len(p.Password) < 8 {
		return user.User{}, TokenPair{}, domainerr.InvalidInput("password must be at least 8 characters")
	}

	hashed, err := s.credential.HashPassword(p.Password)
	if err != nil {
		return user.User{}, TokenPair{}, domainerr.Internal("failed to hash password", err)
	}

	u, err := s.users.Create(ctx, user.User{
		Email:          email,
		Username:       username,
		HashedPassword: hashed,
		FullName:       strings.TrimSpace(p.FullName),
		IsActive:       true,
	})
	if err != nil {
		return user.User{}, TokenPair{}, err
	}

	tokens, err := s.credential.IssueTokens(u)
	if err != nil {
		return user.User{}, TokenPair{}, domainerr.Internal("failed to issue tokens", err)
	}
	return u, tokens, nil
}

// LoginPayload is the POST /auth/login body.
type LoginPayload struct {
	Email    string
	Password string
}

func (s *Service) Login(ctx context.Context, p LoginPayload) (user.User, TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return user.User{}, TokenPair{}, domainerr.Forbidden("invalid email or password")
	}
	if !s.credential.VerifyPassword(p.Password, u.HashedPassword) {
		return user.User{}, TokenPair{}, domainerr.Forbidden("invalid email or password")
	}
	if !u.IsActive {
		return user.User{}, TokenPair{}, domainerr.Forbidden("account is not active")
	}

	tokens, err := s.credential.IssueTokens(u)
	if err != nil {
		return user.User{}, TokenPair{}, domainerr.Internal("failed to issue tokens", err)
	}
	return u, tokens, nil
}

// Authenticate resolves a bearer token into a Principal for the HTTP
// middleware. Rejects inactive principals before any handler runs.
func (s *Service) Authenticate(_ context.Context, bearerToken string) (user.Principal, error) {
	claims, err := s.credential.Verify(bearerToken)
	if err != nil {
		return user.Principal{}, err
	}
	if claims.Type != TokenAccess {
		return user.Principal{}, domainerr.Forbidden("refresh tokens may not be used for authentication")
	}
	if !claims.IsActive {
		return user.Principal{}, domainerr.Forbidden("principal is not active")
	}
	return user.Principal{ID: claims.UserID, IsActive: claims.IsActive}, nil
}
