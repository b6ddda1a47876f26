package job

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobscout/internal/domain/dedup"
)

type Source string

const (
	SourceManual  Source = "manual"
	SourceScraped Source = "scraped"
)

type ExperienceLevel string

const (
	ExperienceUnspecified ExperienceLevel = ""
	ExperienceJunior      ExperienceLevel = "junior"
	ExperienceMid         ExperienceLevel = "mid"
	ExperienceSenior      ExperienceLevel = "senior"
)

func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ExperienceUnspecified, nil
	case "junior":
		return ExperienceJunior, nil
	case "mid":
		return ExperienceMid, nil
	case "senior":
		return ExperienceSenior, nil
	default:
		return ExperienceUnspecified, fmt.Errorf("unknown experience level: %q", s)
	}
}

type Posting struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Company            string
	Title              string
	Location           string
	TechStack          []string
	RequiredExperience ExperienceLevel
	Source             Source
	URL                string
	DedupKey           string
	CreatedAt          time.Time
}

// Key returns the stored dedup key, deriving it when the posting has not
// been through the store yet.
func (p Posting) Key() string {
	if p.DedupKey != "" {
		return p.DedupKey
	}
	return dedup.Key(p.Company, p.Title)
}
