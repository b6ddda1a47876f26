// Package source fetches job postings from external boards. Each provider
// wraps one board; the Client fans a query out over all of them and merges
// the results into a deduplicated batch of raw candidates.
package source

import (
	"context"
	"strings"

	"jobscout/internal/domain/job"
)

// Query carries one user's search terms.
type Query struct {
	Skills    []string
	Locations []string
	Limit     int
}

func (q Query) Empty() bool {
	for _, s := range q.Skills {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	for _, l := range q.Locations {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// Posting is a raw candidate from one board, before ownership, dedup
// filtering and persistence are applied.
type Posting struct {
	Company    string
	Title      string
	Location   string
	TechStack  []string
	Experience job.ExperienceLevel
	URL        string
}

type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]Posting, error)
}
