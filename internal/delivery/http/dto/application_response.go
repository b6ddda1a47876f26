package dto

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID        uuid.UUID  `json:"id"`
	JobID     uuid.UUID  `json:"job_id"`
	Status    string     `json:"status"`
	Note      string     `json:"note,omitempty"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
