package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type observed struct {
	mu   sync.Mutex
	seen []string
}

func (o *observed) JobFinished(jobType, status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, jobType+":"+status)
}

func (o *observed) snapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.seen...)
}

func TestRunNowReturnsResult(t *testing.T) {
	obs := &observed{}
	svc := New(nil, obs)

	out, err := svc.RunNow(context.Background(), "payroll_run", "co-1", func(ctx context.Context) (any, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("run now: %v", err)
	}
	if out.(int) != 42 {
		t.Fatalf("expected 42, got %v", out)
	}

	boom := errors.New("boom")
	if _, err := svc.RunNow(context.Background(), "payroll_run", "co-1", func(ctx context.Context) (any, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got := obs.snapshot()
	if len(got) != 2 || got[0] != "payroll_run:completed" || got[1] != "payroll_run:failed" {
		t.Fatalf("unexpected observations %v", got)
	}
}

func TestEnqueueRunsOnWorker(t *testing.T) {
	svc := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)

	done := make(chan struct{})
	svc.Enqueue("invitation_email", "co-1", func(ctx context.Context) (any, error) {
		close(done)
		return nil, nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job did not run")
	}
	cancel()
	svc.Wait()
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	obs := &observed{}
	svc := New(nil, obs)
	for i := 0; i < queueSize; i++ {
		svc.Enqueue("invitation_email", "co-1", func(ctx context.Context) (any, error) { return nil, nil })
	}
	svc.Enqueue("invitation_email", "co-1", func(ctx context.Context) (any, error) { return nil, nil })

	got := obs.snapshot()
	if len(got) != 1 || got[0] != "invitation_email:dropped" {
		t.Fatalf("expected one dropped job, got %v", got)
	}
}
