package usecase

import (
	"context"
	"errors"
	"strings"

	"jobscout/internal/domain/job"
	"jobscout/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrJobAlreadySaved = errors.New("job already saved")
)

type CreateJobInput struct {
	Company            string
	Title              string
	Location           string
	TechStack          []string
	RequiredExperience string
	URL                string
}

type JobUsecase interface {
	ListJobs(ctx context.Context, userID uuid.UUID) ([]job.Posting, error)
	GetJob(ctx context.Context, userID, jobID uuid.UUID) (job.Posting, error)
	CreateJob(ctx context.Context, userID uuid.UUID, in CreateJobInput) (job.Posting, error)
}

type JobService struct {
	jobs  repository.JobRepository
	users repository.UserRepository
}

func NewJobUsecase(jobs repository.JobRepository, users repository.UserRepository) *JobService {
	return &JobService{jobs: jobs, users: users}
}

func (u *JobService) ListJobs(ctx context.Context, userID uuid.UUID) ([]job.Posting, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	postings, err := u.jobs.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return postings, nil
}

func (u *JobService) GetJob(ctx context.Context, userID, jobID uuid.UUID) (job.Posting, error) {
	if userID == uuid.Nil {
		return job.Posting{}, ErrUnauthorized
	}
	p, err := u.jobs.GetByID(ctx, userID, jobID)
	if err != nil {
		if err == repository.ErrJobNotFound {
			return job.Posting{}, ErrJobNotFound
		}
		return job.Posting{}, ErrInternal
	}
	return p, nil
}

// CreateJob saves a manually added posting. A manual save changes the job
// set the same way an ingested batch does, so the job set version moves
// with it.
func (u *JobService) CreateJob(ctx context.Context, userID uuid.UUID, in CreateJobInput) (job.Posting, error) {
	if userID == uuid.Nil {
		return job.Posting{}, ErrUnauthorized
	}

	company := strings.TrimSpace(in.Company)
	title := strings.TrimSpace(in.Title)
	if company == "" || title == "" {
		return job.Posting{}, ErrInvalidInput
	}

	level, err := job.ParseExperienceLevel(in.RequiredExperience)
	if err != nil {
		return job.Posting{}, ErrInvalidInput
	}

	created, err := u.jobs.Create(ctx, job.Posting{
		UserID:             userID,
		Company:            company,
		Title:              title,
		Location:           strings.TrimSpace(in.Location),
		TechStack:          cleanTerms(in.TechStack),
		RequiredExperience: level,
		Source:             job.SourceManual,
		URL:                strings.TrimSpace(in.URL),
	})
	if err != nil {
		if err == repository.ErrJobAlreadyExists {
			return job.Posting{}, ErrJobAlreadySaved
		}
		return job.Posting{}, ErrInternal
	}

	if err := u.users.BumpJobSetVersion(ctx, userID); err != nil {
		return job.Posting{}, ErrInternal
	}
	return created, nil
}

var _ JobUsecase = (*JobService)(nil)
