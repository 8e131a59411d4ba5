package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	JobSessionSweep   = "session_sweep"
	JobToastPrune     = "toast_prune"
	JobAuditRetention = "audit_retention"
)

type RunFunc func(context.Context) (any, error)

// Run is the outcome of one job execution, kept for the metrics endpoint.
type Run struct {
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Details    any       `json:"details,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
}

type job struct {
	Type string
	Run  RunFunc
}

// Service runs background maintenance on cron schedules through a single
// worker so runs of the same job never overlap.
type Service struct {
	cron  *cron.Cron
	queue chan job

	mu   sync.Mutex
	last map[string]Run
}

func New() *Service {
	return &Service{
		cron:  cron.New(),
		queue: make(chan job, 32),
		last:  map[string]Run{},
	}
}

// Schedule registers run under a cron spec such as "@every 15m" or
// "*/5 * * * *". Invalid specs are returned to the caller.
func (s *Service) Schedule(spec, jobType string, run RunFunc) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.Enqueue(jobType, run)
	})
	return err
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	s.cron.Start()
	go func() {
		<-ctx.Done()
		stopped := s.cron.Stop()
		<-stopped.Done()
	}()
}

func (s *Service) Enqueue(jobType string, run RunFunc) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// LastRuns returns the latest run per job type.
func (s *Service) LastRuns() map[string]Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Run, len(s.last))
	for k, v := range s.last {
		out[k] = v
	}
	return out
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	start := time.Now()
	details, err := j.Run(ctx)
	run := Run{
		Type:       j.Type,
		Status:     "completed",
		Details:    details,
		StartedAt:  start.UTC(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
	}
	s.mu.Lock()
	s.last[j.Type] = run
	s.mu.Unlock()
	slog.Debug("job run finished", "jobType", j.Type, "status", run.Status, "durationMs", run.DurationMs)
	return details, err
}
