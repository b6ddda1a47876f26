// Package ingest runs the scheduled fetch-dedup-persist pipeline over every
// user. Each user is one unit of work: a failure there is logged and skipped
// so the rest of the run keeps going.
package ingest

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"jobscout/internal/config"
	"jobscout/internal/domain/dedup"
	"jobscout/internal/domain/job"
	"jobscout/internal/domain/profile"
	"jobscout/internal/source"
	"jobscout/internal/worker"

	"github.com/google/uuid"
)

type UserDirectory interface {
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	BumpJobSetVersion(ctx context.Context, userID uuid.UUID) error
}

type JobStore interface {
	ListDedupKeys(ctx context.Context, userID uuid.UUID) ([]string, error)
	CreateBatch(ctx context.Context, postings []job.Posting) (int, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, q source.Query) ([]source.Posting, error)
}

// EventSink receives a signal after postings landed for a user, typically to
// push a live update over websockets. May be nil.
type EventSink interface {
	JobsIngested(userID uuid.UUID, count int)
}

type Summary struct {
	Users  int
	Failed int
	Added  int
}

type Coordinator struct {
	users   UserDirectory
	jobs    JobStore
	fetcher Fetcher
	events  EventSink
	logger  *log.Logger

	workers        int
	userTimeout    time.Duration
	usersPerSecond int
}

func NewCoordinator(cfg config.IngestConfig, users UserDirectory, jobs JobStore, fetcher Fetcher, events EventSink, logger *log.Logger) *Coordinator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Coordinator{
		users:          users,
		jobs:           jobs,
		fetcher:        fetcher,
		events:         events,
		logger:         logger,
		workers:        workers,
		userTimeout:    cfg.UserTimeout,
		usersPerSecond: cfg.UsersPerSecond,
	}
}

// Run ingests for every known user and reports the totals. The returned
// error covers only run-level failures; per-user errors are counted and
// logged, never propagated.
func (c *Coordinator) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	userIDs, err := c.users.ListUserIDs(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list users: %w", err)
	}

	var added atomic.Int64
	pool := worker.NewPool(c.workers, len(userIDs))
	pool.SetRateLimit(c.usersPerSecond)

	for _, id := range userIDs {
		id := id
		pool.Submit(func(ctx context.Context) error {
			n, err := c.IngestForUser(ctx, id)
			if err != nil {
				if c.logger != nil {
					c.logger.Printf("task=ingest status=error user_id=%s err=%v", id, err)
				}
				return err
			}
			added.Add(int64(n))
			return nil
		})
	}
	pool.Close()

	summary := Summary{Users: len(userIDs)}
	for res := range pool.Run(ctx) {
		if res.Err != nil {
			summary.Failed++
		}
	}
	summary.Added = int(added.Load())

	if c.logger != nil {
		c.logger.Printf("task=ingest status=done users=%d added=%d failed=%d duration=%s",
			summary.Users, summary.Added, summary.Failed, time.Since(start).Round(time.Millisecond))
	}
	return summary, nil
}

// IngestForUser fetches postings for one user, filters out everything whose
// duplicate key is already stored or already seen in this run, and persists
// the rest as one batch.
func (c *Coordinator) IngestForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if c.userTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.userTimeout)
		defer cancel()
	}

	p, err := c.users.GetProfile(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load profile: %w", err)
	}

	q := source.Query{Skills: p.Skills, Locations: p.PreferredLocations}
	if q.Empty() {
		return 0, nil
	}

	candidates, err := c.fetcher.Fetch(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("fetch postings: %w", err)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	stored, err := c.jobs.ListDedupKeys(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load dedup keys: %w", err)
	}
	keys := dedup.NewKeySet(stored...)

	batch := make([]job.Posting, 0, len(candidates))
	for _, cand := range candidates {
		if !keys.Add(dedup.Key(cand.Company, cand.Title)) {
			continue
		}
		batch = append(batch, job.Posting{
			UserID:             userID,
			Company:            cand.Company,
			Title:              cand.Title,
			Location:           cand.Location,
			TechStack:          cand.TechStack,
			RequiredExperience: cand.Experience,
			Source:             job.SourceScraped,
			URL:                cand.URL,
		})
	}
	if len(batch) == 0 {
		return 0, nil
	}

	added, err := c.jobs.CreateBatch(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("persist postings: %w", err)
	}

	if added > 0 {
		if err := c.users.BumpJobSetVersion(ctx, userID); err != nil {
			return added, fmt.Errorf("bump job set version: %w", err)
		}
		if c.events != nil {
			c.events.JobsIngested(userID, added)
		}
	}
	return added, nil
}
