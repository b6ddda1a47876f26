package application

import (
	"time"

	"github.com/google/uuid"
)

type Application struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	JobID     uuid.UUID
	Status    Status
	Note      string
	AppliedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
