package dashboard

import (
	"context"
	"fmt"
	"time"

	"paydesk/internal/domain/attendance"
	"paydesk/internal/domain/leave"
	"paydesk/internal/domain/payroll"
)

type Counter interface {
	Count(ctx context.Context, companyID string) (int, error)
}

type PaymentSummary interface {
	LatestPeriod(ctx context.Context, companyID string) (payroll.PeriodSummary, error)
}

type AttendanceSource interface {
	Year(ctx context.Context, companyID string, year int) ([]attendance.Record, error)
}

type LeaveSource interface {
	List(ctx context.Context, companyID string, filter leave.Filter) ([]leave.Request, error)
	MonthlyLeave(ctx context.Context, companyID string, year int) (map[time.Month]int, error)
}

type Summary struct {
	Employees    int                   `json:"employees"`
	Benefits     int                   `json:"benefits"`
	Deductions   int                   `json:"deductions"`
	PendingLeave int                   `json:"pendingLeave"`
	LatestPeriod payroll.PeriodSummary `json:"latestPeriod"`
}

type Service struct {
	Employees  Counter
	Benefits   Counter
	Deductions Counter
	Payments   PaymentSummary
	Records    AttendanceSource
	Leave      LeaveSource
}

func (s *Service) Summary(ctx context.Context, companyID string) (Summary, error) {
	var out Summary
	var err error
	if out.Employees, err = s.Employees.Count(ctx, companyID); err != nil {
		return Summary{}, fmt.Errorf("count employees: %w", err)
	}
	if out.Benefits, err = s.Benefits.Count(ctx, companyID); err != nil {
		return Summary{}, fmt.Errorf("count benefits: %w", err)
	}
	if out.Deductions, err = s.Deductions.Count(ctx, companyID); err != nil {
		return Summary{}, fmt.Errorf("count deductions: %w", err)
	}
	if out.LatestPeriod, err = s.Payments.LatestPeriod(ctx, companyID); err != nil {
		return Summary{}, fmt.Errorf("latest period: %w", err)
	}
	if s.Leave != nil {
		pending, err := s.Leave.List(ctx, companyID, leave.Filter{Status: leave.StatusPending})
		if err != nil {
			return Summary{}, fmt.Errorf("pending leave: %w", err)
		}
		out.PendingLeave = len(pending)
	}
	return out, nil
}

// Attendance returns the twelve monthly bar groups of year.
func (s *Service) Attendance(ctx context.Context, companyID string, year int) ([]attendance.MonthCounts, error) {
	records, err := s.Records.Year(ctx, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("attendance records: %w", err)
	}
	leaveDays := map[time.Month]int{}
	if s.Leave != nil {
		if leaveDays, err = s.Leave.MonthlyLeave(ctx, companyID, year); err != nil {
			return nil, fmt.Errorf("leave days: %w", err)
		}
	}
	return attendance.MonthlySeries(year, records, leaveDays), nil
}
