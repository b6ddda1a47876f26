package ingest

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"

	"jobscout/internal/config"
	"jobscout/internal/domain/dedup"
	"jobscout/internal/domain/job"
	"jobscout/internal/domain/profile"
	"jobscout/internal/source"

	"github.com/google/uuid"
)

type fakeDirectory struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]profile.Profile
	bumps    map[uuid.UUID]int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		profiles: map[uuid.UUID]profile.Profile{},
		bumps:    map[uuid.UUID]int{},
	}
}

func (d *fakeDirectory) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]uuid.UUID, 0, len(d.profiles))
	for id := range d.profiles {
		out = append(out, id)
	}
	return out, nil
}

func (d *fakeDirectory) GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.profiles[userID]
	if !ok {
		return profile.Profile{}, errors.New("no profile")
	}
	return p, nil
}

func (d *fakeDirectory) BumpJobSetVersion(ctx context.Context, userID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bumps[userID]++
	return nil
}

type fakeJobStore struct {
	mu      sync.Mutex
	keys    map[string]struct{}
	batches [][]job.Posting
}

func newFakeJobStore(existingKeys ...string) *fakeJobStore {
	s := &fakeJobStore{keys: map[string]struct{}{}}
	for _, k := range existingKeys {
		s.keys[k] = struct{}{}
	}
	return s
}

func (s *fakeJobStore) ListDedupKeys(ctx context.Context, userID uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	return out, nil
}

func (s *fakeJobStore) CreateBatch(ctx context.Context, postings []job.Posting) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, postings)
	added := 0
	for _, p := range postings {
		key := p.Key()
		if _, ok := s.keys[key]; ok {
			continue
		}
		s.keys[key] = struct{}{}
		added++
	}
	return added, nil
}

type fakeFetcher struct {
	mu        sync.Mutex
	calls     int
	postings  []source.Posting
	err       error
	failSkill string
}

func (f *fakeFetcher) Fetch(ctx context.Context, q source.Query) ([]source.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.failSkill != "" {
		for _, s := range q.Skills {
			if s == f.failSkill {
				return nil, errors.New("board down")
			}
		}
	}
	return f.postings, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int
}

func (e *fakeEvents) JobsIngested(userID uuid.UUID, count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.counts == nil {
		e.counts = map[uuid.UUID]int{}
	}
	e.counts[userID] += count
}

func testCoordinator(dir *fakeDirectory, store *fakeJobStore, fetcher *fakeFetcher, events EventSink) *Coordinator {
	cfg := config.IngestConfig{Workers: 2}
	return NewCoordinator(cfg, dir, store, fetcher, events, log.New(io.Discard, "", 0))
}

func TestIngestForUser_SamePostingTwiceLandsOnce(t *testing.T) {
	userID := uuid.New()
	dir := newFakeDirectory()
	dir.profiles[userID] = profile.Profile{UserID: userID, Skills: []string{"go"}}

	store := newFakeJobStore()
	fetcher := &fakeFetcher{postings: []source.Posting{
		{Company: "Acme Corp", Title: "Software Engineer"},
		{Company: "  acme corp  ", Title: "SOFTWARE ENGINEER"},
	}}
	events := &fakeEvents{}

	c := testCoordinator(dir, store, fetcher, events)
	added, err := c.IngestForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ingest error: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 posting persisted, got %d", added)
	}
	if len(store.batches) != 1 || len(store.batches[0]) != 1 {
		t.Fatalf("expected one batch with one posting, got %+v", store.batches)
	}
	if got := store.batches[0][0].Source; got != job.SourceScraped {
		t.Fatalf("ingested postings must be marked scraped, got %q", got)
	}
	if dir.bumps[userID] != 1 {
		t.Fatalf("expected one job set version bump, got %d", dir.bumps[userID])
	}
	if events.counts[userID] != 1 {
		t.Fatalf("expected ingest event with count 1, got %d", events.counts[userID])
	}
}

func TestIngestForUser_AlreadyStoredPostingIsSkipped(t *testing.T) {
	userID := uuid.New()
	dir := newFakeDirectory()
	dir.profiles[userID] = profile.Profile{UserID: userID, Skills: []string{"go"}}

	store := newFakeJobStore(dedup.Key("Acme Corp", "Software Engineer"))
	fetcher := &fakeFetcher{postings: []source.Posting{
		{Company: "Acme Corp", Title: "Software Engineer"},
	}}

	c := testCoordinator(dir, store, fetcher, nil)
	added, err := c.IngestForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ingest error: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected nothing new, got %d", added)
	}
	if len(store.batches) != 0 {
		t.Fatalf("expected no persistence call for an all-duplicate batch")
	}
	if dir.bumps[userID] != 0 {
		t.Fatalf("job set version must not move when nothing landed")
	}
}

func TestIngestForUser_EmptyProfileSkipsFetch(t *testing.T) {
	userID := uuid.New()
	dir := newFakeDirectory()
	dir.profiles[userID] = profile.Profile{UserID: userID}

	fetcher := &fakeFetcher{}
	c := testCoordinator(dir, newFakeJobStore(), fetcher, nil)

	added, err := c.IngestForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ingest error: %v", err)
	}
	if added != 0 || fetcher.calls != 0 {
		t.Fatalf("expected no fetch for an empty profile, added=%d calls=%d", added, fetcher.calls)
	}
}

func TestRun_OneUserFailingDoesNotStopOthers(t *testing.T) {
	brokenUser := uuid.New()
	healthyUser := uuid.New()

	dir := newFakeDirectory()
	dir.profiles[brokenUser] = profile.Profile{UserID: brokenUser, Skills: []string{"broken"}}
	dir.profiles[healthyUser] = profile.Profile{UserID: healthyUser, Skills: []string{"go"}}

	store := newFakeJobStore()
	fetcher := &fakeFetcher{
		failSkill: "broken",
		postings:  []source.Posting{{Company: "Acme", Title: "Backend Engineer"}},
	}

	c := testCoordinator(dir, store, fetcher, nil)
	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if summary.Users != 2 {
		t.Fatalf("expected 2 users, got %d", summary.Users)
	}
	if summary.Failed != 1 {
		t.Fatalf("expected 1 failed user, got %d", summary.Failed)
	}
	if summary.Added != 1 {
		t.Fatalf("expected the healthy user's posting to land, got %d", summary.Added)
	}
	if dir.bumps[healthyUser] != 1 || dir.bumps[brokenUser] != 0 {
		t.Fatalf("unexpected bumps %v", dir.bumps)
	}
}
