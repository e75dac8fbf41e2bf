package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// WorkdaySource returns a company's workday start as HH:MM.
type WorkdaySource interface {
	WorkdayStart(ctx context.Context, companyID string) (string, error)
}

type Service struct {
	store   StoreAPI
	workday WorkdaySource
	loc     *time.Location
	now     func() time.Time
}

func NewService(store StoreAPI, workday WorkdaySource, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, workday: workday, loc: loc, now: time.Now}
}

// CheckIn opens today's record for the employee, or the record for the day
// of at when given.
func (s *Service) CheckIn(ctx context.Context, companyID, employeeID string, at *time.Time) (Record, error) {
	checkIn := s.now()
	if at != nil {
		checkIn = *at
	}
	checkIn = checkIn.In(s.loc)
	y, m, d := checkIn.Date()
	workDate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	status := StatusRegular
	if s.workday != nil {
		clock, err := s.workday.WorkdayStart(ctx, companyID)
		if err != nil {
			return Record{}, fmt.Errorf("workday start: %w", err)
		}
		start, err := time.ParseInLocation("15:04", clock, s.loc)
		if err != nil {
			return Record{}, ErrInvalidWorkdayTime
		}
		status = Classify(checkIn, time.Date(y, m, d, start.Hour(), start.Minute(), 0, 0, s.loc))
	}

	return s.store.Create(ctx, companyID, Record{
		EmployeeID: employeeID,
		WorkDate:   workDate,
		CheckIn:    checkIn,
		Status:     status,
	})
}

func (s *Service) CheckOut(ctx context.Context, companyID, id string, at *time.Time) (Record, error) {
	record, err := s.store.Get(ctx, companyID, id)
	if err != nil {
		return Record{}, err
	}
	if record.CheckOut != nil {
		return Record{}, ErrAlreadyCheckedOut
	}
	checkOut := s.now()
	if at != nil {
		checkOut = *at
	}
	if !checkOut.After(record.CheckIn) {
		return Record{}, ErrCheckOutBeforeIn
	}
	return s.store.CheckOut(ctx, companyID, id, checkOut)
}

func (s *Service) List(ctx context.Context, companyID string, filter Filter) ([]Record, error) {
	return s.store.List(ctx, companyID, filter)
}

func (s *Service) Delete(ctx context.Context, companyID, id string) error {
	return s.store.Delete(ctx, companyID, id)
}

// WorkedHours satisfies payroll.HoursSource.
func (s *Service) WorkedHours(ctx context.Context, companyID, employeeID string, start, end time.Time) (decimal.Decimal, error) {
	records, err := s.store.List(ctx, companyID, Filter{EmployeeID: employeeID, From: &start, To: &end})
	if err != nil {
		return decimal.Zero, err
	}
	return TotalHours(records), nil
}

// Year returns every record whose work date falls in year.
func (s *Service) Year(ctx context.Context, companyID string, year int) ([]Record, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return s.store.List(ctx, companyID, Filter{From: &from, To: &to})
}
