package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/handler/http/dto"
	"github.com/webitel/timecapsule/internal/handler/http/httperr"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	svcpersonal "github.com/webitel/timecapsule/internal/service/personal"
)

// PersonalHandler exposes draft autosave and the saved-recipients address
// book over HTTP — the two extras a sender uses before a capsule exists.
type PersonalHandler struct {
	svc *svcpersonal.Service
}

func NewPersonalHandler(svc *svcpersonal.Service) *PersonalHandler {
	return &PersonalHandler{svc: svc}
}

func (h *PersonalHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req dto.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed request body"))
		return
	}

	var id *uuid.UUID
	if raw := chi.URLParam(r, "id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httperr.Write(w, domainerr.InvalidInput("malformed draft id"))
			return
		}
		id = &parsed
	}

	d, err := h.svc.SaveDraft(r.Context(), principal, id, req.ToPayload())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DraftFromDomain(d))
}

func (h *PersonalHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed draft id"))
		return
	}
	d, err := h.svc.GetDraft(r.Context(), principal, id)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DraftFromDomain(d))
}

func (h *PersonalHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	ds, err := h.svc.ListDrafts(r.Context(), principal)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DraftsFromDomain(ds))
}

func (h *PersonalHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed draft id"))
		return
	}
	if err := h.svc.DeleteDraft(r.Context(), principal, id); err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *PersonalHandler) AddRecipient(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req dto.AddRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed request body"))
		return
	}
	rec, err := h.svc.AddRecipient(r.Context(), principal, req.ToPayload())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.RecipientFromDomain(rec))
}

func (h *PersonalHandler) ListRecipients(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	rs, err := h.svc.ListRecipients(r.Context(), principal)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.RecipientsFromDomain(rs))
}

func (h *PersonalHandler) DeleteRecipient(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed recipient id"))
		return
	}
	if err := h.svc.DeleteRecipient(r.Context(), principal, id); err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
