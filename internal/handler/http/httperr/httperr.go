// Package httperr maps the capsule core's domainerr.Kind taxonomy onto HTTP
// status codes and writes the JSON error envelope every handler and
// middleware in this service agrees on. It is split out from the top-level
// http package so middleware (which runs before routing) can write the same
// envelope without importing the handler package and creating a cycle.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/webitel/timecapsule/internal/pkg/domainerr"
)

// Envelope is the wire shape of every error response this service returns.
type Envelope struct {
	Error EnvelopeBody `json:"error"`
}

type EnvelopeBody struct {
	Kind    domainerr.Kind `json:"kind"`
	Message string         `json:"message"`
}

// StatusFor maps a domainerr.Kind to the HTTP status code the REST surface
// responds with.
func StatusFor(kind domainerr.Kind) int {
	switch kind {
	case domainerr.KindNotFound:
		return http.StatusNotFound
	case domainerr.KindForbidden:
		return http.StatusForbidden
	case domainerr.KindIllegalTransition, domainerr.KindInvalidUnlockTime, domainerr.KindInvalidInput:
		return http.StatusBadRequest
	case domainerr.KindConflict:
		return http.StatusConflict
	case domainerr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Write resolves err to its Kind and status, and writes the JSON envelope.
// A nil err is a programmer mistake; it still writes a 500 rather than panic.
func Write(w http.ResponseWriter, err error) {
	kind := domainerr.KindOf(err)
	status := StatusFor(kind)

	message := "internal error"
	if err != nil {
		message = err.Error()
	}
	var de *domainerr.Error
	if errors.As(err, &de) {
		message = de.Reason
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Error: EnvelopeBody{Kind: kind, Message: message}})
}
