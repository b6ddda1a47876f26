package usecase

import (
	"context"
	"errors"
	"strings"

	"jobscout/internal/domain/application"
	"jobscout/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists for this job")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

type CreateApplicationInput struct {
	JobID uuid.UUID
	Note  string
}

type ApplicationUsecase interface {
	ListApplications(ctx context.Context, userID uuid.UUID) ([]application.Application, error)
	CreateApplication(ctx context.Context, userID uuid.UUID, in CreateApplicationInput) (application.Application, error)
	UpdateApplicationStatus(ctx context.Context, userID, appID uuid.UUID, status string) (application.Application, error)
}

type ApplicationService struct {
	apps repository.ApplicationRepository
	jobs repository.JobRepository
}

func NewApplicationUsecase(apps repository.ApplicationRepository, jobs repository.JobRepository) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs}
}

func (u *ApplicationService) ListApplications(ctx context.Context, userID uuid.UUID) ([]application.Application, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	apps, err := u.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return apps, nil
}

// CreateApplication starts tracking a job the user owns. New applications
// always begin as interested; applying is a transition, not a creation
// state.
func (u *ApplicationService) CreateApplication(ctx context.Context, userID uuid.UUID, in CreateApplicationInput) (application.Application, error) {
	if userID == uuid.Nil {
		return application.Application{}, ErrUnauthorized
	}
	if in.JobID == uuid.Nil {
		return application.Application{}, ErrInvalidInput
	}

	if _, err := u.jobs.GetByID(ctx, userID, in.JobID); err != nil {
		if err == repository.ErrJobNotFound {
			return application.Application{}, ErrJobNotFound
		}
		return application.Application{}, ErrInternal
	}

	created, err := u.apps.Create(ctx, application.Application{
		UserID: userID,
		JobID:  in.JobID,
		Status: application.StatusInterested,
		Note:   strings.TrimSpace(in.Note),
	})
	if err != nil {
		if err == repository.ErrApplicationAlreadyExists {
			return application.Application{}, ErrApplicationExists
		}
		return application.Application{}, ErrInternal
	}
	return created, nil
}

func (u *ApplicationService) UpdateApplicationStatus(ctx context.Context, userID, appID uuid.UUID, status string) (application.Application, error) {
	if userID == uuid.Nil {
		return application.Application{}, ErrUnauthorized
	}

	next, err := application.ParseStatus(status)
	if err != nil {
		return application.Application{}, ErrInvalidInput
	}

	current, err := u.apps.GetByID(ctx, userID, appID)
	if err != nil {
		if err == repository.ErrApplicationNotFound {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, ErrInternal
	}

	if !current.Status.CanTransitionTo(next) {
		return application.Application{}, ErrInvalidTransition
	}

	updated, err := u.apps.UpdateStatus(ctx, userID, appID, next)
	if err != nil {
		if err == repository.ErrApplicationNotFound {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, ErrInternal
	}
	return updated, nil
}

var _ ApplicationUsecase = (*ApplicationService)(nil)
