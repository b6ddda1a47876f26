package usecase

import (
	"context"

	"jobscout/internal/domain/skillgap"
	"jobscout/internal/repository"

	"github.com/google/uuid"
)

type SkillGapUsecase interface {
	AnalyzeSkillGap(ctx context.Context, userID uuid.UUID) (skillgap.Report, error)
}

type SkillGapService struct {
	users repository.UserRepository
	jobs  repository.JobRepository
}

func NewSkillGapUsecase(users repository.UserRepository, jobs repository.JobRepository) *SkillGapService {
	return &SkillGapService{users: users, jobs: jobs}
}

// AnalyzeSkillGap compares the user's skills against every posting they
// track. The report is recomputed on each call.
func (u *SkillGapService) AnalyzeSkillGap(ctx context.Context, userID uuid.UUID) (skillgap.Report, error) {
	if userID == uuid.Nil {
		return skillgap.Report{}, ErrUnauthorized
	}

	p, err := u.users.GetProfile(ctx, userID)
	if err != nil {
		if err == repository.ErrProfileNotFound {
			return skillgap.Report{}, ErrProfileNotFound
		}
		return skillgap.Report{}, ErrInternal
	}

	postings, err := u.jobs.ListByUser(ctx, userID)
	if err != nil {
		return skillgap.Report{}, ErrInternal
	}

	return skillgap.Analyze(p.Skills, postings), nil
}

var _ SkillGapUsecase = (*SkillGapService)(nil)
