// Package jobs runs periodic housekeeping off the request path.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	JobSessionSweep = "session_sweep"
	JobBoardPrune   = "board_prune"
)

// RunFunc does one job run and returns a count of affected items.
type RunFunc func(context.Context) (int64, error)

type job struct {
	Type string
	Run  RunFunc
}

// Run records the outcome of a finished job.
type Run struct {
	Type     string
	Affected int64
	Err      error
	Duration time.Duration
}

type schedule struct {
	jobType  string
	interval time.Duration
	run      RunFunc
}

type Service struct {
	log       zerolog.Logger
	queue     chan job
	schedules []schedule

	mu   sync.Mutex
	last map[string]Run
	wg   sync.WaitGroup
}

func New(log zerolog.Logger) *Service {
	return &Service{
		log:   log.With().Str("component", "jobs").Logger(),
		queue: make(chan job, 32),
		last:  map[string]Run{},
	}
}

// Every registers run to be enqueued each interval once Start is called.
// Non-positive intervals are ignored.
func (s *Service) Every(jobType string, interval time.Duration, run RunFunc) {
	if interval <= 0 || run == nil {
		return
	}
	s.schedules = append(s.schedules, schedule{jobType: jobType, interval: interval, run: run})
}

func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
	for _, sch := range s.schedules {
		s.wg.Add(1)
		go func(sch schedule) {
			defer s.wg.Done()
			s.tick(ctx, sch)
		}(sch)
	}
}

// Wait blocks until every goroutine started by Start has returned.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Enqueue(jobType string, run RunFunc) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		s.log.Warn().Str("jobType", jobType).Msg("job queue full")
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) Run {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// Last returns the most recent outcome of jobType.
func (s *Service) Last(jobType string) (Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.last[jobType]
	return r, ok
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			s.runJob(ctx, j)
		}
	}
}

func (s *Service) tick(ctx context.Context, sch schedule) {
	ticker := time.NewTicker(sch.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sch.jobType, sch.run)
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) Run {
	start := time.Now()
	affected, err := j.Run(ctx)
	run := Run{Type: j.Type, Affected: affected, Err: err, Duration: time.Since(start)}

	s.mu.Lock()
	s.last[j.Type] = run
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Str("jobType", j.Type).Msg("job run failed")
		return run
	}
	s.log.Debug().
		Str("jobType", j.Type).
		Int64("affected", affected).
		Dur("duration", run.Duration).
		Msg("job run completed")
	return run
}
