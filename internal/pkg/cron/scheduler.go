package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type job struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
}

// Scheduler runs registered jobs on fixed intervals. Jobs that should
// only act at certain wall-clock times carry that gate themselves, so
// each name is registered exactly once and is the single trigger for
// its work.
type Scheduler struct {
	logger *slog.Logger
	jobs   map[string]job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger: logger,
		jobs:   make(map[string]job),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers a job under a unique name. Re-registering a name is
// rejected so a job can never fire twice per tick.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		s.logger.Warn("duplicate cron job registration ignored", "name", name)
		return
	}
	s.jobs[name] = job{name: name, interval: interval, fn: fn}
	s.logger.Info("cron job registered", "name", name, "interval", interval)
}

// Start launches one ticker goroutine per registered job.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.run(j)
	}
	s.logger.Info("cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels all jobs and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info("cron scheduler stopped")
}

func (s *Scheduler) run(j job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute(s.ctx, j)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, j job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("cron job panicked", "name", j.name, "panic", r)
		}
	}()

	start := time.Now()
	if err := j.fn(ctx); err != nil {
		s.logger.Error("cron job failed", "name", j.name, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debug("cron job completed", "name", j.name, "duration", time.Since(start))
}

// RunOnce executes every registered job immediately, for tests and
// one-off maintenance runs.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		s.execute(ctx, j)
	}
}
