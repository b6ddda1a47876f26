package profile

import (
	"time"

	"github.com/google/uuid"

	"jobscout/internal/domain/job"
)

type Profile struct {
	UserID             uuid.UUID
	Skills             []string
	PreferredLocations []string
	Experience         job.ExperienceLevel
	Version            int64
	JobSetVersion      int64
	UpdatedAt          time.Time
}
