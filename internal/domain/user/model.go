// Package user holds the User entity. Credential issuance lives in
// internal/service/auth; this package is the plain data shape only.
package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	Email          string // always lowercased before persistence
	Username       string
	HashedPassword string
	FullName       string
	IsActive       bool
	CreatedAt      time.Time
}

// Principal is the authenticated identity the HTTP layer hands to the
// facade — the pre-validated object described in spec §6's bearer token
// contract.
type Principal struct {
	ID       uuid.UUID
	IsActive bool
}
