// Package scheduler hosts the recurring pipeline tasks. Task definitions
// are plain values; the Dispatcher places them on a cron runner and keeps
// each task from overlapping itself.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"jobscout/internal/cache"
)

const defaultTaskTimeout = 10 * time.Minute

var (
	ErrTaskInvalid    = errors.New("task is missing a name, spec or handler")
	ErrTaskRegistered = errors.New("task already registered")
)

// Locker hands out short-lived task locks so two deployments sharing one
// redis do not run the same task twice. A bypassed cache reports every lock
// as acquired, leaving the in-process overlap guard in charge.
type Locker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type Task struct {
	Name    string
	Spec    string
	Enabled bool
	Timeout time.Duration
	Handler func(ctx context.Context) error
}

type State string

const (
	StateDisabled State = "disabled"
	StateIdle     State = "idle"
	StateRunning  State = "running"
)

type Dispatcher struct {
	cron   *cron.Cron
	locker Locker
	logger *log.Logger

	mu      sync.Mutex
	order   []string
	tasks   map[string]Task
	running map[string]bool
	baseCtx context.Context
	cancel  context.CancelFunc
	started bool
}

func NewDispatcher(locker Locker, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		locker:  locker,
		logger:  logger,
		tasks:   map[string]Task{},
		running: map[string]bool{},
	}
}

func (d *Dispatcher) Register(t Task) error {
	if t.Name == "" || t.Spec == "" || t.Handler == nil {
		return ErrTaskInvalid
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.tasks[t.Name]; ok {
		return fmt.Errorf("%w: %s", ErrTaskRegistered, t.Name)
	}
	d.order = append(d.order, t.Name)
	d.tasks[t.Name] = t
	return nil
}

// Start places every enabled task on the cron runner. Disabled tasks are
// logged once and never registered.
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return nil
	}

	d.baseCtx, d.cancel = context.WithCancel(context.Background())

	for _, name := range d.order {
		t := d.tasks[name]
		if !t.Enabled {
			d.logger.Printf("task=%s status=disabled", t.Name)
			continue
		}
		task := t
		if _, err := d.cron.AddFunc(task.Spec, func() { d.runTask(task) }); err != nil {
			d.cancel()
			return fmt.Errorf("scheduler: registering %s: %w", task.Name, err)
		}
		d.logger.Printf("task=%s status=scheduled spec=%q", task.Name, task.Spec)
	}

	d.cron.Start()
	d.started = true
	return nil
}

// Stop halts the schedule and cancels the context in-flight handlers run
// under, then waits for them up to the caller's deadline.
func (d *Dispatcher) Stop(ctx context.Context) {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.started = false
	cancel := d.cancel
	d.mu.Unlock()

	finished := d.cron.Stop()
	cancel()

	select {
	case <-finished.Done():
	case <-ctx.Done():
	}
	d.logger.Printf("scheduler stopped")
}

// States reports every registered task as disabled, idle or running, in
// registration order of the keys.
func (d *Dispatcher) States() map[string]State {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]State, len(d.tasks))
	for _, name := range d.order {
		switch {
		case !d.tasks[name].Enabled:
			out[name] = StateDisabled
		case d.running[name]:
			out[name] = StateRunning
		default:
			out[name] = StateIdle
		}
	}
	return out
}

func (d *Dispatcher) runTask(t Task) {
	if !d.tryBegin(t.Name) {
		d.logger.Printf("task=%s status=skipped reason=overlap", t.Name)
		return
	}
	defer d.end(t.Name)

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}
	ctx, cancel := context.WithTimeout(d.base(), timeout)
	defer cancel()

	if d.locker != nil {
		lockKey := cache.TaskLockKey(t.Name)
		acquired, err := d.locker.SetIfNotExists(ctx, lockKey, "1", timeout)
		if err != nil {
			// The lock is advisory; a broken locker must not halt the schedule.
			d.logger.Printf("task=%s status=lock_error err=%v", t.Name, err)
		} else if !acquired {
			d.logger.Printf("task=%s status=skipped reason=locked", t.Name)
			return
		} else {
			defer func() { _ = d.locker.Delete(context.Background(), lockKey) }()
		}
	}

	start := time.Now()
	d.logger.Printf("task=%s status=start", t.Name)
	if err := t.Handler(ctx); err != nil {
		d.logger.Printf("task=%s status=error duration=%s err=%v", t.Name, time.Since(start).Round(time.Millisecond), err)
		return
	}
	d.logger.Printf("task=%s status=ok duration=%s", t.Name, time.Since(start).Round(time.Millisecond))
}

func (d *Dispatcher) tryBegin(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running[name] {
		return false
	}
	d.running[name] = true
	return true
}

func (d *Dispatcher) end(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running[name] = false
}

func (d *Dispatcher) base() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.baseCtx != nil {
		return d.baseCtx
	}
	return context.Background()
}
