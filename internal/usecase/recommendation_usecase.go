package usecase

import (
	"context"
	"sort"
	"time"

	"jobscout/internal/cache"
	"jobscout/internal/domain/match"
	"jobscout/internal/domain/profile"
	"jobscout/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultRecommendationLimit = 5
	maxRecommendationLimit     = 50
)

// RecommendationCache is the slice of the cache the ranker needs.
type RecommendationCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type RecommendationParams struct {
	Limit int
}

type Recommendation struct {
	JobID      uuid.UUID `json:"job_id"`
	Company    string    `json:"company"`
	Title      string    `json:"title"`
	Location   string    `json:"location"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	ComputedAt time.Time `json:"computed_at"`
}

type RecommendationUsecase interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID, params RecommendationParams) ([]Recommendation, error)
}

type RecommendationService struct {
	users  repository.UserRepository
	jobs   repository.JobRepository
	apps   repository.ApplicationRepository
	scorer *match.Scorer
	cache  RecommendationCache
	ttl    time.Duration
}

func NewRecommendationUsecase(users repository.UserRepository, jobs repository.JobRepository, apps repository.ApplicationRepository, scorer *match.Scorer, c RecommendationCache, ttl time.Duration) *RecommendationService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RecommendationService{users: users, jobs: jobs, apps: apps, scorer: scorer, cache: c, ttl: ttl}
}

// GetRecommendations returns the user's best matches, excluding everything
// they already applied to. The full ranked list is cached under the two
// profile counters; the limit only trims the returned slice, so one cached
// entry serves every request size.
func (u *RecommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID, params RecommendationParams) ([]Recommendation, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	if limit > maxRecommendationLimit {
		limit = maxRecommendationLimit
	}

	p, err := u.users.GetProfile(ctx, userID)
	if err != nil {
		if err == repository.ErrProfileNotFound {
			return nil, ErrProfileNotFound
		}
		return nil, ErrInternal
	}

	key := cache.RecommendationKey(userID, p.Version, p.JobSetVersion)

	var ranked []Recommendation
	hit := false
	if u.cache != nil {
		hit, _ = u.cache.GetJSON(ctx, key, &ranked)
	}
	if !hit {
		ranked, err = u.compute(ctx, p)
		if err != nil {
			return nil, err
		}
		u.cacheIfCurrent(ctx, key, p, ranked)
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (u *RecommendationService) compute(ctx context.Context, p profile.Profile) ([]Recommendation, error) {
	postings, err := u.jobs.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, ErrInternal
	}

	apps, err := u.apps.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, ErrInternal
	}
	excluded := make(map[uuid.UUID]struct{}, len(apps))
	for _, a := range apps {
		if a.Status.AtLeastApplied() {
			excluded[a.JobID] = struct{}{}
		}
	}

	out := make([]Recommendation, 0, len(postings))
	for _, posting := range postings {
		if _, ok := excluded[posting.ID]; ok {
			continue
		}
		res := u.scorer.Evaluate(p, posting)
		out = append(out, Recommendation{
			JobID:      res.JobID,
			Company:    posting.Company,
			Title:      posting.Title,
			Location:   posting.Location,
			Score:      res.Score,
			CreatedAt:  posting.CreatedAt,
			ComputedAt: res.ComputedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// cacheIfCurrent writes the ranked list only if neither counter moved while
// it was being computed. A concurrent profile edit or ingest would leave the
// entry inconsistent with the versions its key claims.
func (u *RecommendationService) cacheIfCurrent(ctx context.Context, key string, p profile.Profile, ranked []Recommendation) {
	if u.cache == nil {
		return
	}
	pv, jv, err := u.users.Versions(ctx, p.UserID)
	if err != nil || pv != p.Version || jv != p.JobSetVersion {
		return
	}
	_ = u.cache.SetJSON(ctx, key, ranked, u.ttl)
}

var _ RecommendationUsecase = (*RecommendationService)(nil)
