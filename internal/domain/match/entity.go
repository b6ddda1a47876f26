package match

import (
	"time"

	"github.com/google/uuid"
)

type Result struct {
	JobID      uuid.UUID
	Score      int
	ComputedAt time.Time
}
