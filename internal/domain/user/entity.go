// Package user holds the account identity: credentials live here, while
// everything job-search related (skills, locations, versions) belongs to the
// profile.
package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy safe to hand to delivery layers.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
