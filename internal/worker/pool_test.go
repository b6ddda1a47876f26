package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsAllTasksAndClosesResults(t *testing.T) {
	p := NewPool(3, 10)

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		p.Submit(func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	p.Close()

	results := p.Run(context.Background())
	count := 0
	for res := range results {
		if res.Err != nil {
			t.Fatalf("unexpected task error: %v", res.Err)
		}
		count++
	}

	if count != 10 {
		t.Fatalf("expected 10 results, got %d", count)
	}
	if got := ran.Load(); got != 10 {
		t.Fatalf("expected 10 tasks to run, got %d", got)
	}
}

func TestPool_FailuresDoNotStopOtherTasks(t *testing.T) {
	p := NewPool(2, 4)

	boom := errors.New("boom")
	p.Submit(func(ctx context.Context) error { return boom })
	p.Submit(func(ctx context.Context) error { return nil })
	p.Submit(func(ctx context.Context) error { return boom })
	p.Submit(func(ctx context.Context) error { return nil })
	p.Close()

	failed, succeeded := 0, 0
	for res := range p.Run(context.Background()) {
		if res.Err != nil {
			failed++
		} else {
			succeeded++
		}
	}

	if failed != 2 || succeeded != 2 {
		t.Fatalf("expected 2 failures and 2 successes, got %d and %d", failed, succeeded)
	}
}

func TestPool_ContextCancelStopsWorkers(t *testing.T) {
	p := NewPool(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	p.Submit(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	results := p.Run(ctx)
	<-started
	cancel()

	select {
	case <-results:
	case <-time.After(2 * time.Second):
		t.Fatalf("results channel did not settle after cancel")
	}
}

func TestPool_RateLimitSpacesTaskStarts(t *testing.T) {
	p := NewPool(4, 8)
	p.SetRateLimit(20)

	for i := 0; i < 5; i++ {
		p.Submit(func(ctx context.Context) error { return nil })
	}
	p.Close()

	start := time.Now()
	for range p.Run(context.Background()) {
	}
	elapsed := time.Since(start)

	// 5 starts at 20/s need at least 4 ticker intervals.
	if elapsed < 150*time.Millisecond {
		t.Fatalf("expected rate limiting to spread starts, finished in %v", elapsed)
	}
}

func TestPool_NilSafety(t *testing.T) {
	var p *Pool
	p.Submit(func(ctx context.Context) error { return nil })
	p.SetRateLimit(5)
	p.Close()

	results := p.Run(context.Background())
	if _, open := <-results; open {
		t.Fatalf("nil pool must return a closed channel")
	}
}
