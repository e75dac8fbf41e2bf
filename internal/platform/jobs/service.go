package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"paydesk/internal/platform/querier"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	queueSize = 128
)

// Observer is told how each run ended.
type Observer interface {
	JobFinished(jobType, status string)
}

// Service runs jobs and records each run in job_runs. Queued jobs run on a
// single worker; RunNow runs on the caller's goroutine.
type Service struct {
	DB       querier.Querier
	Observer Observer

	queue chan job
	wg    sync.WaitGroup
}

type job struct {
	Type      string
	CompanyID string
	Run       func(context.Context) (any, error)
}

func New(db querier.Querier, observer Observer) *Service {
	return &Service{
		DB:       db,
		Observer: observer,
		queue:    make(chan job, queueSize),
	}
}

// Start launches the worker. It stops when ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
}

// Wait blocks until the worker has stopped.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Enqueue hands the job to the worker, dropping it when the queue is full.
func (s *Service) Enqueue(jobType, companyID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, CompanyID: companyID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "companyId", companyID)
		s.observe(jobType, "dropped")
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, companyID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, CompanyID: companyID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "companyId", j.CompanyID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := s.startRun(ctx, j)

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
	}
	s.finishRun(ctx, runID, status, details, err)
	s.observe(j.Type, status)
	return details, err
}

func (s *Service) startRun(ctx context.Context, j job) string {
	if s.DB == nil {
		return ""
	}
	var companyID *string
	if j.CompanyID != "" {
		companyID = &j.CompanyID
	}
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (company_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, companyID, j.Type, StatusRunning).Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
	}
	return runID
}

func (s *Service) finishRun(ctx context.Context, runID, status string, details any, runErr error) {
	if s.DB == nil || runID == "" {
		return
	}
	payload := map[string]any{"result": details}
	if runErr != nil {
		payload["error"] = runErr.Error()
	}
	detailsJSON, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("job details marshal failed", "err", err)
		detailsJSON = []byte("{}")
	}
	// A cancelled request still gets its run closed out.
	ctx = context.WithoutCancel(ctx)
	if _, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, status, detailsJSON, runID); err != nil {
		slog.Warn("job run update failed", "runId", runID, "err", err)
	}
}

func (s *Service) observe(jobType, status string) {
	if s.Observer != nil {
		s.Observer.JobFinished(jobType, status)
	}
}
