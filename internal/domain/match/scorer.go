package match

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"jobscout/internal/domain/job"
	"jobscout/internal/domain/profile"
)

var ErrInvalidWeights = errors.New("invalid weights")

type Weights struct {
	Tech       float64
	Location   float64
	Experience float64
}

func DefaultWeights() Weights {
	return Weights{Tech: 0.5, Location: 0.3, Experience: 0.2}
}

func (w Weights) validate() error {
	if w.Tech < 0 || w.Location < 0 || w.Experience < 0 {
		return fmt.Errorf("%w: negative component", ErrInvalidWeights)
	}
	sum := w.Tech + w.Location + w.Experience
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: components sum to %v, want 1", ErrInvalidWeights, sum)
	}
	return nil
}

type Scorer struct {
	w Weights
}

// NewScorer rejects malformed weights up front so a misconfigured
// deployment fails at startup instead of producing silently wrong scores.
func NewScorer(w Weights) (*Scorer, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	return &Scorer{w: w}, nil
}

// Score computes the fit of a posting for a profile on a 0..100 scale.
func (s *Scorer) Score(p profile.Profile, posting job.Posting) int {
	tech := techComponent(p.Skills, posting.TechStack)
	loc := locationComponent(p.PreferredLocations, posting.Location)
	exp := experienceComponent(p.Experience, posting.RequiredExperience)

	total := 100.0 * (s.w.Tech*tech + s.w.Location*loc + s.w.Experience*exp)
	score := int(math.Round(total))
	return clampInt(score, 0, 100)
}

func (s *Scorer) Evaluate(p profile.Profile, posting job.Posting) Result {
	return Result{
		JobID:      posting.ID,
		Score:      s.Score(p, posting),
		ComputedAt: time.Now().UTC(),
	}
}

// techComponent is the fraction of the posting's distinct stack entries the
// profile covers. A posting without a stated stack contributes nothing.
func techComponent(skills, stack []string) float64 {
	if len(stack) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if k := foldTerm(s); k != "" {
			have[k] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(stack))
	total := 0
	matched := 0
	for _, t := range stack {
		k := foldTerm(t)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		total++
		if _, ok := have[k]; ok {
			matched++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

func locationComponent(preferred []string, location string) float64 {
	loc := foldTerm(location)
	if denotesRemote(loc) {
		return 1
	}
	for _, p := range preferred {
		fp := foldTerm(p)
		if fp == "" {
			continue
		}
		if fp == loc || denotesRemote(fp) {
			return 1
		}
	}
	return 0
}

func experienceComponent(have, required job.ExperienceLevel) float64 {
	if required == job.ExperienceUnspecified {
		return 1
	}
	if required == have {
		return 1
	}
	return 0
}

func denotesRemote(folded string) bool {
	return strings.Contains(folded, "remote")
}

func foldTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
