package leave

import (
	"context"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// Submit stores a pending request with its day count.
func (s *Service) Submit(ctx context.Context, companyID string, r Request) (Request, error) {
	days, err := CalculateRequestDays(r.StartDate, r.EndDate, r.StartHalf, r.EndHalf)
	if err != nil {
		return Request{}, err
	}
	r.StartDate, r.EndDate = dateOf(r.StartDate), dateOf(r.EndDate)
	r.Days = days
	r.Status = StatusPending
	if r.Type == "" {
		r.Type = TypeAnnual
	}
	return s.store.Create(ctx, companyID, r)
}

func (s *Service) Approve(ctx context.Context, companyID, id, decidedBy string) (Request, error) {
	return s.store.Decide(ctx, companyID, id, StatusApproved, decidedBy, s.now())
}

func (s *Service) Reject(ctx context.Context, companyID, id, decidedBy string) (Request, error) {
	return s.store.Decide(ctx, companyID, id, StatusRejected, decidedBy, s.now())
}

func (s *Service) Get(ctx context.Context, companyID, id string) (Request, error) {
	return s.store.Get(ctx, companyID, id)
}

func (s *Service) List(ctx context.Context, companyID string, filter Filter) ([]Request, error) {
	return s.store.List(ctx, companyID, filter)
}

func (s *Service) Delete(ctx context.Context, companyID, id string) error {
	return s.store.Delete(ctx, companyID, id)
}

// MonthlyLeave counts approved leave days per month of year.
func (s *Service) MonthlyLeave(ctx context.Context, companyID string, year int) (map[time.Month]int, error) {
	approved, err := s.store.List(ctx, companyID, Filter{Status: StatusApproved})
	if err != nil {
		return nil, err
	}
	return MonthlyDays(year, approved), nil
}
