package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/service/auth"
)

// SignupRequest is the POST /auth/signup body.
type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

func (r SignupRequest) ToPayload() auth.SignupPayload {
	return auth.SignupPayload{
		Email:    r.Email,
		Username: r.Username,
		Password: r.Password,
		FullName: r.FullName,
	}
}

// LoginRequest is the POST /auth/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) ToPayload() auth.LoginPayload {
	return auth.LoginPayload{Email: r.Email, Password: r.Password}
}

// TokenResponse is returned from signup and login.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// UserResponse is the public projection of user.User; HashedPassword never
// leaves this package.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func UserFromDomain(u user.User) UserResponse {
	return UserResponse{
		ID: u.ID, Email: u.Email, Username: u.Username,
		FullName: u.FullName, IsActive: u.IsActive, CreatedAt: u.CreatedAt,
	}
}

func TokenResponseFrom(u user.User, tokens auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         UserFromDomain(u),
	}
}
