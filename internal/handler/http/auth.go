package http

import (
	"encoding/json"
	"net/http"

	"github.com/webitel/timecapsule/internal/handler/http/dto"
	"github.com/webitel/timecapsule/internal/handler/http/httperr"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	"github.com/webitel/timecapsule/internal/service/auth"
	"github.com/webitel/timecapsule/internal/store"
)

// AuthHandler exposes signup, login, and the current-principal lookup.
type AuthHandler struct {
	service *auth.Service
	users   store.UserRepository
}

func NewAuthHandler(service *auth.Service, users store.UserRepository) *AuthHandler {
	return &AuthHandler{service: service, users: users}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed request body"))
		return
	}
	u, tokens, err := h.service.Signup(r.Context(), req.ToPayload())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.TokenResponseFrom(u, tokens))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed request body"))
		return
	}
	u, tokens, err := h.service.Login(r.Context(), req.ToPayload())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TokenResponseFrom(u, tokens))
}

// Me returns the authenticated principal's user record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	u, err := h.users.Get(r.Context(), principal.ID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserFromDomain(u))
}
