package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	domaincapsule "github.com/webitel/timecapsule/internal/domain/capsule"
	"github.com/webitel/timecapsule/internal/domain/user"
	"github.com/webitel/timecapsule/internal/handler/http/dto"
	"github.com/webitel/timecapsule/internal/handler/http/httperr"
	"github.com/webitel/timecapsule/internal/handler/http/middleware"
	"github.com/webitel/timecapsule/internal/pkg/domainerr"
	svccapsule "github.com/webitel/timecapsule/internal/service/capsule"
)

// CapsuleHandler exposes the CapsuleFacade over HTTP, through the
// EnrichingFacade decorator so get_capsule/list responses carry resolved
// participant info.
type CapsuleHandler struct {
	facade *svccapsule.EnrichingFacade
}

func NewCapsuleHandler(facade *svccapsule.EnrichingFacade) *CapsuleHandler {
	return &CapsuleHandler{facade: facade}
}

// requirePrincipal reads the authenticated principal middleware.Authn
// injected into the request context, writing a 403 and reporting false if
// it is absent. Shared across every handler behind the authenticated route
// group.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (user.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		httperr.Write(w, domainerr.Forbidden("missing principal"))
		return user.Principal{}, false
	}
	return p, true
}

func (h *CapsuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var req dto.CreateCapsuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed request body"))
		return
	}
	c, err := h.facade.CreateCapsule(r.Context(), principal, req.ToPayload())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CapsuleFromDomain(c))
}

func (h *CapsuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed capsule id"))
		return
	}
	var req dto.UpdateCapsuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed request body"))
		return
	}
	c, err := h.facade.UpdateCapsule(r.Context(), principal, id, req.ToPayload())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CapsuleFromDomain(c))
}

func (h *CapsuleHandler) Seal(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed capsule id"))
		return
	}
	var req dto.SealCapsuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed request body"))
		return
	}
	c, err := h.facade.SealCapsule(r.Context(), principal, id, req.UnlockAt)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CapsuleFromDomain(c))
}

func (h *CapsuleHandler) Open(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed capsule id"))
		return
	}
	c, err := h.facade.OpenCapsule(r.Context(), principal, id)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CapsuleFromDomain(c))
}

func (h *CapsuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed capsule id"))
		return
	}
	v, err := h.facade.GetCapsule(r.Context(), principal, id)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CapsuleViewFromDomain(v))
}

func (h *CapsuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(w, domainerr.InvalidInput("malformed capsule id"))
		return
	}
	if err := h.facade.DeleteCapsule(r.Context(), principal, id); err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *CapsuleHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	box := svccapsule.Box(r.URL.Query().Get("box"))
	if box == "" {
		box = svccapsule.BoxInbox
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	pageSize := svccapsule.DefaultPageSize
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageSize = n
		}
	}

	var stateFilter *domaincapsule.State
	if v := r.URL.Query().Get("state"); v != "" {
		s := domaincapsule.State(v)
		stateFilter = &s
	}

	p, err := h.facade.List(r.Context(), principal, box, stateFilter, page, pageSize)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CapsulePageFromDomain(p, page, pageSize))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
