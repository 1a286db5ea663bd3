package dto

import (
	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/recipient"
	svcpersonal "github.com/webitel/timecapsule/internal/service/personal"
)

// AddRecipientRequest is the POST /recipients body.
type AddRecipientRequest struct {
	Name   string     `json:"name"`
	Email  *string    `json:"email,omitempty"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

func (r AddRecipientRequest) ToPayload() svcpersonal.RecipientPayload {
	return svcpersonal.RecipientPayload{Name: r.Name, Email: r.Email, UserID: r.UserID}
}

// RecipientResponse is a single saved-recipient row.
type RecipientResponse struct {
	ID      uuid.UUID  `json:"id"`
	OwnerID uuid.UUID  `json:"owner_id"`
	Name    string     `json:"name"`
	Email   *string    `json:"email,omitempty"`
	UserID  *uuid.UUID `json:"user_id,omitempty"`
}

func RecipientFromDomain(r recipient.Recipient) RecipientResponse {
	return RecipientResponse{ID: r.ID, OwnerID: r.OwnerID, Name: r.Name, Email: r.Email, UserID: r.UserID}
}

func RecipientsFromDomain(rs []recipient.Recipient) []RecipientResponse {
	out := make([]RecipientResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, RecipientFromDomain(r))
	}
	return out
}
