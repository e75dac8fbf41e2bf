package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"paydesk/internal/domain/benefit"
	"paydesk/internal/domain/deduction"
	"paydesk/internal/domain/employee"
)

// HoursSource reports the hours an employee worked in a date range.
type HoursSource interface {
	WorkedHours(ctx context.Context, companyID, employeeID string, start, end time.Time) (decimal.Decimal, error)
}

// CurrencySource resolves the currency a company pays in.
type CurrencySource interface {
	Currency(ctx context.Context, companyID string) (string, error)
}

type JobRunner interface {
	RunNow(ctx context.Context, jobType, companyID string, run func(context.Context) (any, error)) (any, error)
}

type Recorder interface {
	PaymentsComputed(n int)
}

type Deps struct {
	Payments   StoreAPI
	Employees  employee.StoreAPI
	Benefits   benefit.StoreAPI
	Deductions deduction.StoreAPI
	Hours      HoursSource
	Currency   CurrencySource
	Evaluator  *benefit.Evaluator
	Jobs       JobRunner
	Metrics    Recorder

	DefaultCurrency string
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	if deps.DefaultCurrency == "" {
		deps.DefaultCurrency = "RWF"
	}
	return &Service{deps: deps}
}

// Preview computes a payment without storing it.
func (s *Service) Preview(ctx context.Context, companyID string, req Request) (Payment, error) {
	if err := req.Period.Validate(); err != nil {
		return Payment{}, err
	}
	emp, err := s.deps.Employees.Get(ctx, companyID, req.EmployeeID)
	if err != nil {
		return Payment{}, err
	}
	rules, err := s.loadRules(ctx, companyID)
	if err != nil {
		return Payment{}, err
	}
	currency, err := s.currency(ctx, companyID)
	if err != nil {
		return Payment{}, err
	}
	return s.compute(ctx, companyID, emp, req.Hours, req.Period, currency, rules)
}

// Create computes and stores one payment.
func (s *Service) Create(ctx context.Context, companyID string, req Request) (Payment, error) {
	payment, err := s.Preview(ctx, companyID, req)
	if err != nil {
		return Payment{}, err
	}
	created, err := s.deps.Payments.Create(ctx, companyID, payment)
	if err != nil {
		return Payment{}, err
	}
	s.recordComputed(1)
	return created, nil
}

// Run pays every active employee for the period. One employee failing
// does not stop the others; failures are reported in the result.
func (s *Service) Run(ctx context.Context, companyID string, period Period) (RunResult, error) {
	if err := period.Validate(); err != nil {
		return RunResult{}, err
	}
	run := func(ctx context.Context) (any, error) {
		return s.run(ctx, companyID, period)
	}
	if s.deps.Jobs == nil {
		return s.run(ctx, companyID, period)
	}
	out, err := s.deps.Jobs.RunNow(ctx, JobPayrollRun, companyID, run)
	if err != nil {
		return RunResult{}, err
	}
	result, ok := out.(RunResult)
	if !ok {
		return RunResult{}, fmt.Errorf("payroll run returned %T", out)
	}
	return result, nil
}

func (s *Service) run(ctx context.Context, companyID string, period Period) (RunResult, error) {
	result := RunResult{Period: period, PaymentIDs: []string{}, Failures: []RunFailure{}, TotalNet: "0"}

	employees, err := s.deps.Employees.List(ctx, companyID, employee.Filter{Status: employee.StatusActive})
	if err != nil {
		return result, err
	}
	rules, err := s.loadRules(ctx, companyID)
	if err != nil {
		return result, err
	}
	currency, err := s.currency(ctx, companyID)
	if err != nil {
		return result, err
	}

	total := decimal.Zero
	for _, emp := range employees {
		payment, err := s.compute(ctx, companyID, emp, nil, period, currency, rules)
		if err == nil {
			payment, err = s.deps.Payments.Create(ctx, companyID, payment)
		}
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			slog.Warn("payroll run employee failed", "companyId", companyID, "employeeId", emp.ID, "err", err)
			result.Failures = append(result.Failures, RunFailure{EmployeeID: emp.ID, Name: emp.FullName(), Error: err.Error()})
			continue
		}
		result.Created++
		result.PaymentIDs = append(result.PaymentIDs, payment.ID)
		total = total.Add(payment.NetPay)
	}
	result.TotalNet = total.String()
	s.recordComputed(result.Created)
	return result, nil
}

func (s *Service) List(ctx context.Context, companyID string, filter Filter) ([]Payment, error) {
	return s.deps.Payments.List(ctx, companyID, filter)
}

func (s *Service) Get(ctx context.Context, companyID, paymentID string) (Payment, error) {
	return s.deps.Payments.Get(ctx, companyID, paymentID)
}

func (s *Service) Delete(ctx context.Context, companyID, paymentID string) error {
	return s.deps.Payments.Delete(ctx, companyID, paymentID)
}

type ruleSet struct {
	benefits   []benefit.Rule
	deductions []deduction.Rule
}

func (s *Service) loadRules(ctx context.Context, companyID string) (ruleSet, error) {
	benefits, err := s.deps.Benefits.List(ctx, companyID)
	if err != nil {
		return ruleSet{}, fmt.Errorf("list benefits: %w", err)
	}
	deductions, err := s.deps.Deductions.List(ctx, companyID)
	if err != nil {
		return ruleSet{}, fmt.Errorf("list deductions: %w", err)
	}
	return ruleSet{benefits: benefits, deductions: deductions}, nil
}

func (s *Service) compute(ctx context.Context, companyID string, emp employee.Employee, hours *decimal.Decimal, period Period, currency string, rules ruleSet) (Payment, error) {
	benefits := rules.benefits
	if s.deps.Evaluator != nil {
		applicable, err := s.deps.Evaluator.Filter(rules.benefits, emp)
		if err != nil {
			return Payment{}, err
		}
		benefits = applicable
	}

	var payment Payment
	var err error
	if emp.Hourly() {
		worked, herr := s.hours(ctx, companyID, emp, hours, period)
		if herr != nil {
			return Payment{}, herr
		}
		payment, err = ComputeHourly(emp, worked, benefits, rules.deductions)
	} else {
		payment, err = Compute(emp, benefits, rules.deductions)
	}
	if err != nil {
		return Payment{}, err
	}
	payment.Currency = currency
	payment.Period = period
	return payment, nil
}

func (s *Service) hours(ctx context.Context, companyID string, emp employee.Employee, supplied *decimal.Decimal, period Period) (decimal.Decimal, error) {
	if supplied != nil {
		return *supplied, nil
	}
	if s.deps.Hours == nil {
		return decimal.Zero, ErrHoursUnavailable
	}
	worked, err := s.deps.Hours.WorkedHours(ctx, companyID, emp.ID, period.StartDate, period.EndDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("worked hours: %w", err)
	}
	return worked, nil
}

func (s *Service) currency(ctx context.Context, companyID string) (string, error) {
	if s.deps.Currency == nil {
		return s.deps.DefaultCurrency, nil
	}
	currency, err := s.deps.Currency.Currency(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("company currency: %w", err)
	}
	if currency == "" {
		return s.deps.DefaultCurrency, nil
	}
	return currency, nil
}

func (s *Service) recordComputed(n int) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.PaymentsComputed(n)
	}
}

// IsRuleError reports whether err is a calculator rejection rather than a
// store failure.
func IsRuleError(err error) bool {
	return errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrInvalidDeductionType) ||
		errors.Is(err, ErrNegativeHours) ||
		errors.Is(err, ErrHoursUnavailable) ||
		errors.Is(err, benefit.ErrInvalidExpression)
}
