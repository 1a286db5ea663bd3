package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/draft"
	svcpersonal "github.com/webitel/timecapsule/internal/service/personal"
)

// SaveDraftRequest is the POST /drafts and PUT /drafts/{id} body; autosave
// always sends the draft's full current value.
type SaveDraftRequest struct {
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	MediaURLs   []string   `json:"media_urls,omitempty"`
	Theme       string     `json:"theme,omitempty"`
	RecipientID *uuid.UUID `json:"recipient_id,omitempty"`
}

func (r SaveDraftRequest) ToPayload() svcpersonal.DraftPayload {
	return svcpersonal.DraftPayload{
		Title:       r.Title,
		Body:        r.Body,
		MediaURLs:   r.MediaURLs,
		Theme:       r.Theme,
		RecipientID: r.RecipientID,
	}
}

// DraftResponse is a single draft row.
type DraftResponse struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	MediaURLs   []string   `json:"media_urls,omitempty"`
	Theme       string     `json:"theme,omitempty"`
	RecipientID *uuid.UUID `json:"recipient_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func DraftFromDomain(d draft.Draft) DraftResponse {
	return DraftResponse{
		ID: d.ID, OwnerID: d.OwnerID, Title: d.Title, Body: d.Body,
		MediaURLs: d.MediaURLs, Theme: d.Theme, RecipientID: d.RecipientID,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func DraftsFromDomain(ds []draft.Draft) []DraftResponse {
	out := make([]DraftResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, DraftFromDomain(d))
	}
	return out
}
