package leave

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	items map[string]Request
}

func (f *fakeStore) Create(ctx context.Context, companyID string, r Request) (Request, error) {
	r.ID = "lv-1"
	f.items[r.ID] = r
	return r, nil
}

func (f *fakeStore) Get(ctx context.Context, companyID, id string) (Request, error) {
	r, ok := f.items[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) List(ctx context.Context, companyID string, filter Filter) ([]Request, error) {
	out := []Request{}
	for _, r := range f.items {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) Decide(ctx context.Context, companyID, id, status, decidedBy string, at time.Time) (Request, error) {
	r, ok := f.items[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	if r.Status != StatusPending {
		return Request{}, ErrNotPending
	}
	r.Status, r.DecidedBy, r.DecidedAt = status, decidedBy, &at
	f.items[id] = r
	return r, nil
}

func (f *fakeStore) Delete(ctx context.Context, companyID, id string) error {
	delete(f.items, id)
	return nil
}

func TestSubmitAndApprove(t *testing.T) {
	svc := NewService(&fakeStore{items: map[string]Request{}})
	ctx := context.Background()

	r, err := svc.Submit(ctx, "co-1", Request{
		EmployeeID: "emp-1",
		StartDate:  time.Date(2026, 4, 6, 15, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC),
		EndHalf:    true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if r.Status != StatusPending || r.Type != TypeAnnual {
		t.Fatalf("unexpected request %+v", r)
	}
	if r.Days.String() != "2.5" {
		t.Fatalf("expected 2.5 days, got %s", r.Days)
	}

	approved, err := svc.Approve(ctx, "co-1", r.ID, "user-1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != StatusApproved || approved.DecidedBy != "user-1" {
		t.Fatalf("unexpected decision %+v", approved)
	}
	if _, err := svc.Reject(ctx, "co-1", r.ID, "user-1"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}

	months, err := svc.MonthlyLeave(ctx, "co-1", 2026)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if months[time.April] != 3 {
		t.Fatalf("expected 3 April days, got %d", months[time.April])
	}
}

func TestSubmitRejectsReversedRange(t *testing.T) {
	svc := NewService(&fakeStore{items: map[string]Request{}})
	_, err := svc.Submit(context.Background(), "co-1", Request{
		StartDate: time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
