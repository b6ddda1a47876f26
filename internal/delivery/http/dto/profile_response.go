package dto

import "time"

type ProfileResponse struct {
	Skills             []string  `json:"skills"`
	PreferredLocations []string  `json:"preferred_locations"`
	ExperienceLevel    string    `json:"experience_level"`
	Version            int64     `json:"version"`
	UpdatedAt          time.Time `json:"updated_at"`
}
