// Package digest composes the scheduled messages: the morning briefing with
// each user's top matches and the evening summary of application activity.
package digest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"jobscout/internal/domain/user"
	"jobscout/internal/notify"
	"jobscout/internal/usecase"

	"github.com/google/uuid"
)

// UserDirectory is the slice of the user store the composers need.
type UserDirectory interface {
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

type Recommender interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID, params usecase.RecommendationParams) ([]usecase.Recommendation, error)
}

const briefingLimit = 5

type Briefing struct {
	users    UserDirectory
	recs     Recommender
	notifier notify.Notifier
	logger   *log.Logger
}

func NewBriefing(users UserDirectory, recs Recommender, notifier notify.Notifier, logger *log.Logger) *Briefing {
	return &Briefing{users: users, recs: recs, notifier: notifier, logger: logger}
}

// Run composes and sends one briefing per user. Users without anything to
// recommend are skipped, and a failed send is logged together with the
// digest content so the run continues with the remaining users.
func (b *Briefing) Run(ctx context.Context) error {
	ids, err := b.users.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("briefing: listing users: %w", err)
	}

	sent := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		u, err := b.users.GetUserByID(ctx, id)
		if err != nil {
			b.logger.Printf("task=briefing status=error user_id=%s err=%v", id, err)
			continue
		}

		recs, err := b.recs.GetRecommendations(ctx, id, usecase.RecommendationParams{Limit: briefingLimit})
		if err != nil {
			b.logger.Printf("task=briefing status=error user_id=%s err=%v", id, err)
			continue
		}
		if len(recs) == 0 {
			continue
		}

		subject := fmt.Sprintf("Morning briefing for %s", u.Email)
		body := formatBriefing(recs)
		if err := b.notifier.Send(ctx, subject, body); err != nil {
			b.logger.Printf("task=briefing status=send_failed user_id=%s err=%v\n%s", id, err, body)
			continue
		}
		sent++
	}

	b.logger.Printf("task=briefing status=done users=%d sent=%d", len(ids), sent)
	return nil
}

func formatBriefing(recs []usecase.Recommendation) string {
	var sb strings.Builder
	sb.WriteString("Your top matches today:\n")
	for i, r := range recs {
		fmt.Fprintf(&sb, "%d. %s at %s", i+1, r.Title, r.Company)
		if r.Location != "" {
			fmt.Fprintf(&sb, " (%s)", r.Location)
		}
		fmt.Fprintf(&sb, ", score %d\n", r.Score)
	}
	return strings.TrimRight(sb.String(), "\n")
}
