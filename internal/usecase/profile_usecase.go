package usecase

import (
	"context"
	"errors"
	"strings"

	"jobscout/internal/domain/job"
	"jobscout/internal/domain/profile"
	"jobscout/internal/repository"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

const maxProfileTerms = 100

type UpdateProfileInput struct {
	Skills             []string
	PreferredLocations []string
	Experience         string
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (profile.Profile, error)
}

type ProfileService struct {
	users repository.UserRepository
}

func NewProfileUsecase(users repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

func (u *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	if userID == uuid.Nil {
		return profile.Profile{}, ErrUnauthorized
	}
	p, err := u.users.GetProfile(ctx, userID)
	if err != nil {
		if err == repository.ErrProfileNotFound {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, ErrInternal
	}
	return p, nil
}

// UpdateProfile replaces the matching inputs wholesale. The repository bumps
// the profile version in the same statement, which is what retires any
// cached recommendations for the previous profile.
func (u *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (profile.Profile, error) {
	if userID == uuid.Nil {
		return profile.Profile{}, ErrUnauthorized
	}

	level, err := job.ParseExperienceLevel(in.Experience)
	if err != nil {
		return profile.Profile{}, ErrInvalidInput
	}

	skills := cleanTerms(in.Skills)
	locations := cleanTerms(in.PreferredLocations)
	if len(skills) > maxProfileTerms || len(locations) > maxProfileTerms {
		return profile.Profile{}, ErrInvalidInput
	}

	updated, err := u.users.UpdateProfile(ctx, profile.Profile{
		UserID:             userID,
		Skills:             skills,
		PreferredLocations: locations,
		Experience:         level,
	})
	if err != nil {
		if err == repository.ErrProfileNotFound {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, ErrInternal
	}
	return updated, nil
}

// cleanTerms trims entries and drops empties and duplicates, keeping first
// occurrence order.
func cleanTerms(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

var _ ProfileUsecase = (*ProfileService)(nil)
