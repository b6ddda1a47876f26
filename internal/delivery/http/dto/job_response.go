package dto

import (
	"time"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID                 uuid.UUID `json:"id"`
	Company            string    `json:"company"`
	Title              string    `json:"title"`
	Location           string    `json:"location"`
	TechStack          []string  `json:"tech_stack"`
	RequiredExperience string    `json:"required_experience"`
	Source             string    `json:"source"`
	URL                string    `json:"url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
