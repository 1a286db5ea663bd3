// Package recipient holds the Recipient entity: a private contact-book
// entry, never an access-control principal in its own right.
package recipient

import "github.com/google/uuid"

type Recipient struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Name    string
	Email   *string
	UserID  *uuid.UUID
}
