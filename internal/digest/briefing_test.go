package digest

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"jobscout/internal/domain/user"
	"jobscout/internal/notify"
	"jobscout/internal/usecase"

	"github.com/google/uuid"
)

type fakeDirectory struct {
	users map[uuid.UUID]user.User
	order []uuid.UUID
}

func (f *fakeDirectory) ListUserIDs(context.Context) ([]uuid.UUID, error) {
	return f.order, nil
}

func (f *fakeDirectory) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type fakeRecommender struct {
	byUser map[uuid.UUID][]usecase.Recommendation
	err    error
}

func (f *fakeRecommender) GetRecommendations(ctx context.Context, userID uuid.UUID, params usecase.RecommendationParams) ([]usecase.Recommendation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

type fakeNotifier struct {
	subjects []string
	bodies   []string
	err      error
}

func (f *fakeNotifier) Send(ctx context.Context, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return nil
}

func twoUsers() (*fakeDirectory, uuid.UUID, uuid.UUID) {
	alice := uuid.New()
	bob := uuid.New()
	dir := &fakeDirectory{
		users: map[uuid.UUID]user.User{
			alice: {ID: alice, Email: "alice@example.com"},
			bob:   {ID: bob, Email: "bob@example.com"},
		},
		order: []uuid.UUID{alice, bob},
	}
	return dir, alice, bob
}

func TestBriefingRun_SendsOnlyToUsersWithMatches(t *testing.T) {
	dir, alice, _ := twoUsers()
	recs := &fakeRecommender{byUser: map[uuid.UUID][]usecase.Recommendation{
		alice: {
			{JobID: uuid.New(), Company: "Acme", Title: "Backend Engineer", Location: "Berlin", Score: 85, CreatedAt: time.Now()},
			{JobID: uuid.New(), Company: "Globex", Title: "Platform Engineer", Score: 70, CreatedAt: time.Now()},
		},
	}}
	notifier := &fakeNotifier{}

	b := NewBriefing(dir, recs, notifier, log.New(&bytes.Buffer{}, "", 0))
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(notifier.subjects) != 1 {
		t.Fatalf("expected one briefing, got %d", len(notifier.subjects))
	}
	if !strings.Contains(notifier.subjects[0], "alice@example.com") {
		t.Fatalf("subject must name the user, got %q", notifier.subjects[0])
	}
	body := notifier.bodies[0]
	if !strings.Contains(body, "1. Backend Engineer at Acme (Berlin), score 85") {
		t.Fatalf("unexpected first line in body:\n%s", body)
	}
	if !strings.Contains(body, "2. Platform Engineer at Globex, score 70") {
		t.Fatalf("unexpected second line in body:\n%s", body)
	}
}

func TestBriefingRun_FailedSendLogsDigestAndContinues(t *testing.T) {
	dir, alice, bob := twoUsers()
	recs := &fakeRecommender{byUser: map[uuid.UUID][]usecase.Recommendation{
		alice: {{JobID: uuid.New(), Company: "Acme", Title: "Backend Engineer", Score: 80}},
		bob:   {{JobID: uuid.New(), Company: "Globex", Title: "SRE", Score: 65}},
	}}
	notifier := &fakeNotifier{err: notify.ErrUnavailable}

	var buf bytes.Buffer
	b := NewBriefing(dir, recs, notifier, log.New(&buf, "", 0))
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("a failed send must not abort the run, got %v", err)
	}

	logged := buf.String()
	if strings.Count(logged, "status=send_failed") != 2 {
		t.Fatalf("both failed sends must be logged:\n%s", logged)
	}
	if !strings.Contains(logged, "Backend Engineer at Acme") {
		t.Fatalf("the digest content must be logged when delivery fails:\n%s", logged)
	}
}

func TestBriefingRun_BrokenUserDoesNotBlockOthers(t *testing.T) {
	dir, alice, bob := twoUsers()
	delete(dir.users, alice)
	recs := &fakeRecommender{byUser: map[uuid.UUID][]usecase.Recommendation{
		bob: {{JobID: uuid.New(), Company: "Globex", Title: "SRE", Score: 65}},
	}}
	notifier := &fakeNotifier{}

	b := NewBriefing(dir, recs, notifier, log.New(&bytes.Buffer{}, "", 0))
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(notifier.subjects) != 1 || !strings.Contains(notifier.subjects[0], "bob@example.com") {
		t.Fatalf("bob's briefing must still go out, got %v", notifier.subjects)
	}
}

func TestBriefingRun_RecommenderErrorLogged(t *testing.T) {
	dir, _, _ := twoUsers()
	recs := &fakeRecommender{err: errors.New("cache exploded")}
	notifier := &fakeNotifier{}

	var buf bytes.Buffer
	b := NewBriefing(dir, recs, notifier, log.New(&buf, "", 0))
	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(notifier.subjects) != 0 {
		t.Fatalf("no briefing should go out when ranking fails")
	}
	if strings.Count(buf.String(), "status=error") != 2 {
		t.Fatalf("each failure must be logged:\n%s", buf.String())
	}
}
