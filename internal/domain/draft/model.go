// Package draft holds the Draft entity: a freely mutable scratch capsule
// owned by a single user, with no visibility to anyone else.
package draft

import (
	"time"

	"github.com/google/uuid"
)

type Draft struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Body        string
	MediaURLs   []string
	Theme       string
	RecipientID *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
