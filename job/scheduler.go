package job

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a periodic background task.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Fn       func(ctx context.Context) error
}

// JobScheduler runs registered jobs until its context is cancelled.
type JobScheduler struct {
	jobs []Job
	wg   sync.WaitGroup
}

func NewJobScheduler() *JobScheduler {
	return &JobScheduler{}
}

// Add registers a job. Jobs with a non-positive interval are ignored.
func (s *JobScheduler) Add(j Job) {
	if j.Interval <= 0 {
		slog.Info("job disabled", "job", j.Name)
		return
	}
	s.jobs = append(s.jobs, j)
}

// Len returns the number of registered jobs.
func (s *JobScheduler) Len() int {
	return len(s.jobs)
}

// Start launches every job in its own goroutine. Each job runs once
// immediately and then on its interval.
func (s *JobScheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.runJob(ctx, j)
	}
}

func (s *JobScheduler) runJob(ctx context.Context, j Job) {
	defer s.wg.Done()

	s.executeJob(ctx, j)

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "job stopping", "job", j.Name)
			return
		case <-ticker.C:
			s.executeJob(ctx, j)
		}
	}
}

func (s *JobScheduler) executeJob(ctx context.Context, j Job) {
	if ctx.Err() != nil {
		return
	}

	jobCtx := ctx
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := j.Fn(jobCtx); err != nil {
		slog.ErrorContext(ctx, "job failed", "job", j.Name, "error", err, "duration", time.Since(start))
		return
	}
	slog.DebugContext(ctx, "job completed", "job", j.Name, "duration", time.Since(start))
}

// Shutdown blocks until all running jobs return.
func (s *JobScheduler) Shutdown() {
	s.wg.Wait()
}
