package digest

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobscout/internal/notify"

	"github.com/google/uuid"
)

type ApplicationStats interface {
	CountAppliedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	CountActive(ctx context.Context, userID uuid.UUID) (int, error)
}

type JobCounter interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type Summary struct {
	users    UserDirectory
	apps     ApplicationStats
	jobs     JobCounter
	notifier notify.Notifier
	logger   *log.Logger
	now      func() time.Time
}

func NewSummary(users UserDirectory, apps ApplicationStats, jobs JobCounter, notifier notify.Notifier, logger *log.Logger) *Summary {
	return &Summary{
		users:    users,
		apps:     apps,
		jobs:     jobs,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Run sends each user their evening activity numbers: applications sent
// since local midnight, applications still in play, and the size of their
// tracked job set. Users with nothing tracked and nothing sent are skipped.
func (s *Summary) Run(ctx context.Context) error {
	ids, err := s.users.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("summary: listing users: %w", err)
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sent := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		u, err := s.users.GetUserByID(ctx, id)
		if err != nil {
			s.logger.Printf("task=summary status=error user_id=%s err=%v", id, err)
			continue
		}

		appliedToday, err := s.apps.CountAppliedSince(ctx, id, midnight)
		if err != nil {
			s.logger.Printf("task=summary status=error user_id=%s err=%v", id, err)
			continue
		}
		active, err := s.apps.CountActive(ctx, id)
		if err != nil {
			s.logger.Printf("task=summary status=error user_id=%s err=%v", id, err)
			continue
		}
		tracked, err := s.jobs.CountByUser(ctx, id)
		if err != nil {
			s.logger.Printf("task=summary status=error user_id=%s err=%v", id, err)
			continue
		}

		if appliedToday == 0 && active == 0 && tracked == 0 {
			continue
		}

		subject := fmt.Sprintf("Evening summary for %s", u.Email)
		body := formatSummary(appliedToday, active, tracked)
		if err := s.notifier.Send(ctx, subject, body); err != nil {
			s.logger.Printf("task=summary status=send_failed user_id=%s err=%v\n%s", id, err, body)
			continue
		}
		sent++
	}

	s.logger.Printf("task=summary status=done users=%d sent=%d", len(ids), sent)
	return nil
}

func formatSummary(appliedToday, active, tracked int) string {
	body := fmt.Sprintf("Applications sent today: %d\nActive applications: %d\nJobs tracked: %d",
		appliedToday, active, tracked)
	if appliedToday == 0 && tracked > 0 {
		body += "\nNo applications went out today."
	}
	return body
}
