// Package dto holds the JSON wire shapes for the HTTP surface; handlers
// translate to and from the service-layer payload/view types here so the
// facade and services never know about HTTP.
package dto

import (
	"time"

	"github.com/google/uuid"

	domaincapsule "github.com/webitel/timecapsule/internal/domain/capsule"
	svccapsule "github.com/webitel/timecapsule/internal/service/capsule"
)

// CreateCapsuleRequest is the POST /capsules body.
type CreateCapsuleRequest struct {
	ReceiverID         uuid.UUID `json:"receiver_id"`
	Title              string    `json:"title"`
	Body               string    `json:"body"`
	MediaURLs          []string  `json:"media_urls,omitempty"`
	Theme              string    `json:"theme,omitempty"`
	AllowEarlyView     bool      `json:"allow_early_view"`
	AllowReceiverReply bool      `json:"allow_receiver_reply"`
}

func (r CreateCapsuleRequest) ToPayload() svccapsule.CreatePayload {
	return svccapsule.CreatePayload{
		ReceiverID:         r.ReceiverID,
		Title:              r.Title,
		Body:               r.Body,
		MediaURLs:          r.MediaURLs,
		Theme:              r.Theme,
		AllowEarlyView:     r.AllowEarlyView,
		AllowReceiverReply: r.AllowReceiverReply,
	}
}

// UpdateCapsuleRequest is the PUT /capsules/{id} body. Every field is a
// pointer so the handler can forward exactly the caller's declared patch.
type UpdateCapsuleRequest struct {
	Title              *string   `json:"title,omitempty"`
	Body               *string   `json:"body,omitempty"`
	MediaURLs          *[]string `json:"media_urls,omitempty"`
	Theme              *string   `json:"theme,omitempty"`
	AllowEarlyView     *bool     `json:"allow_early_view,omitempty"`
	AllowReceiverReply *bool     `json:"allow_receiver_reply,omitempty"`
}

func (r UpdateCapsuleRequest) ToPayload() svccapsule.UpdatePayload {
	return svccapsule.UpdatePayload{
		Title:              r.Title,
		Body:               r.Body,
		MediaURLs:          r.MediaURLs,
		Theme:              r.Theme,
		AllowEarlyView:     r.AllowEarlyView,
		AllowReceiverReply: r.AllowReceiverReply,
	}
}

// SealCapsuleRequest is the POST /capsules/{id}/seal body.
type SealCapsuleRequest struct {
	UnlockAt time.Time `json:"unlock_at"`
}

// CapsuleResponse is returned from create/update/seal/open: the full row,
// no view gating (the caller is the sender for create/update/seal and the
// receiver of a just-opened capsule for open).
type CapsuleResponse struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`

	Title     string   `json:"title"`
	Body      string   `json:"body"`
	MediaURLs []string `json:"media_urls,omitempty"`
	Theme     string   `json:"theme,omitempty"`

	State string `json:"state"`

	CreatedAt         time.Time  `json:"created_at"`
	SealedAt          *time.Time `json:"sealed_at,omitempty"`
	ScheduledUnlockAt *time.Time `json:"scheduled_unlock_at,omitempty"`
	OpenedAt          *time.Time `json:"opened_at,omitempty"`

	AllowEarlyView     bool `json:"allow_early_view"`
	AllowReceiverReply bool `json:"allow_receiver_reply"`
}

func CapsuleFromDomain(c domaincapsule.Capsule) CapsuleResponse {
	return CapsuleResponse{
		ID: c.ID, SenderID: c.SenderID, ReceiverID: c.ReceiverID,
		Title: c.Title, Body: c.Body, MediaURLs: c.MediaURLs, Theme: c.Theme,
		State:              string(c.State),
		CreatedAt:          c.CreatedAt,
		SealedAt:           c.SealedAt,
		ScheduledUnlockAt:  c.ScheduledUnlockAt,
		OpenedAt:           c.OpenedAt,
		AllowEarlyView:     c.AllowEarlyView,
		AllowReceiverReply: c.AllowReceiverReply,
	}
}

// ParticipantResponse is the lightweight sender/receiver display info
// EnrichingFacade resolves in place of a bare participant UUID.
type ParticipantResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username,omitempty"`
	FullName string    `json:"full_name,omitempty"`
}

func ParticipantFromDomain(p svccapsule.Participant) ParticipantResponse {
	return ParticipantResponse{ID: p.ID, Username: p.Username, FullName: p.FullName}
}

// CapsuleViewResponse is the GET /capsules/{id} shape: Body/MediaURLs are
// present only when the view gate allowed them; Sender/Receiver are
// resolved participant info rather than bare UUIDs.
type CapsuleViewResponse struct {
	ID         uuid.UUID           `json:"id"`
	SenderID   uuid.UUID           `json:"sender_id"`
	ReceiverID uuid.UUID           `json:"receiver_id"`
	Sender     ParticipantResponse `json:"sender"`
	Receiver   ParticipantResponse `json:"receiver"`
	Title      string              `json:"title"`
	State      string              `json:"state"`

	CreatedAt         time.Time  `json:"created_at"`
	SealedAt          *time.Time `json:"sealed_at,omitempty"`
	ScheduledUnlockAt *time.Time `json:"scheduled_unlock_at,omitempty"`
	OpenedAt          *time.Time `json:"opened_at,omitempty"`

	Body      *string  `json:"body,omitempty"`
	MediaURLs []string `json:"media_urls,omitempty"`
}

func CapsuleViewFromDomain(v svccapsule.EnrichedView) CapsuleViewResponse {
	return CapsuleViewResponse{
		ID: v.ID, SenderID: v.SenderID, ReceiverID: v.ReceiverID,
		Sender: ParticipantFromDomain(v.Sender), Receiver: ParticipantFromDomain(v.Receiver),
		Title: v.Title, State: string(v.State),
		CreatedAt: v.CreatedAt, SealedAt: v.SealedAt,
		ScheduledUnlockAt: v.ScheduledUnlockAt, OpenedAt: v.OpenedAt,
		Body: v.Body, MediaURLs: v.MediaURLs,
	}
}

// CapsuleListItemResponse is a single list() row: the base capsule fields
// plus resolved sender/receiver participant info.
type CapsuleListItemResponse struct {
	CapsuleResponse
	Sender   ParticipantResponse `json:"sender"`
	Receiver ParticipantResponse `json:"receiver"`
}

// CapsulePageResponse is the GET /capsules list shape.
type CapsulePageResponse struct {
	Items    []CapsuleListItemResponse `json:"items"`
	Total    int                       `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}

func CapsulePageFromDomain(p svccapsule.EnrichedPage, page, pageSize int) CapsulePageResponse {
	items := make([]CapsuleListItemResponse, 0, len(p.Items))
	for _, c := range p.Items {
		items = append(items, CapsuleListItemResponse{
			CapsuleResponse: CapsuleFromDomain(c.Capsule),
			Sender:          ParticipantFromDomain(c.Sender),
			Receiver:        ParticipantFromDomain(c.Receiver),
		})
	}
	return CapsulePageResponse{Items: items, Total: p.Total, Page: page, PageSize: pageSize}
}
