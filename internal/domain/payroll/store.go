package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"paydesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const selectColumns = `
    SELECT id, employee_json, hours::text, base_salary::text, benefits_json, deductions_json,
           total_benefits::text, total_deductions::text, net_pay::text, currency,
           period_title, period_start, period_end, warnings, created_at
    FROM payments`

func (s *Store) Create(ctx context.Context, companyID string, payment Payment) (Payment, error) {
	employeeJSON, err := json.Marshal(payment.Employee)
	if err != nil {
		return Payment{}, err
	}
	benefitsJSON, err := json.Marshal(payment.Benefits)
	if err != nil {
		return Payment{}, err
	}
	deductionsJSON, err := json.Marshal(payment.Deductions)
	if err != nil {
		return Payment{}, err
	}
	var hours *string
	if payment.Hours != nil {
		value := payment.Hours.String()
		hours = &value
	}
	var employeeID *string
	if payment.Employee.ID != "" {
		employeeID = &payment.Employee.ID
	}
	if payment.Warnings == nil {
		payment.Warnings = []string{}
	}

	err = s.DB.QueryRow(ctx, `
    INSERT INTO payments (company_id, employee_id, employee_json, hours, base_salary,
                          benefits_json, deductions_json, total_benefits, total_deductions, net_pay,
                          currency, period_title, period_start, period_end, warnings)
    VALUES ($1,$2,$3,$4::numeric,$5::numeric,$6,$7,$8::numeric,$9::numeric,$10::numeric,$11,$12,$13,$14,$15)
    RETURNING id, created_at
  `, companyID, employeeID, employeeJSON, hours, payment.BaseSalary.String(),
		benefitsJSON, deductionsJSON, payment.TotalBenefits.String(), payment.TotalDeductions.String(), payment.NetPay.String(),
		payment.Currency, payment.Period.Title, payment.Period.StartDate, payment.Period.EndDate, payment.Warnings,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return Payment{}, err
	}
	return payment, nil
}

func (s *Store) List(ctx context.Context, companyID string, filter Filter) ([]Payment, error) {
	rows, err := s.DB.Query(ctx, selectColumns+`
    WHERE company_id = $1
      AND ($2 = '' OR period_title = $2)
      AND ($3 = '' OR employee_id::text = $3)
    ORDER BY period_start DESC, created_at
  `, companyID, filter.PeriodTitle, filter.EmployeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Payment{}
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, payment)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, companyID, paymentID string) (Payment, error) {
	payment, err := scanPayment(s.DB.QueryRow(ctx, selectColumns+`
    WHERE company_id = $1 AND id = $2
  `, companyID, paymentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, ErrNotFound
	}
	return payment, err
}

func (s *Store) Delete(ctx context.Context, companyID, paymentID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM payments WHERE company_id = $1 AND id = $2", companyID, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) LatestPeriod(ctx context.Context, companyID string) (PeriodSummary, error) {
	var summary PeriodSummary
	err := s.DB.QueryRow(ctx, `
    WITH latest AS (
      SELECT period_title FROM payments
      WHERE company_id = $1
      ORDER BY period_start DESC, created_at DESC
      LIMIT 1
    )
    SELECT p.period_title, COUNT(1), COALESCE(SUM(p.net_pay), 0)::text, MIN(p.currency)
    FROM payments p JOIN latest l ON l.period_title = p.period_title
    WHERE p.company_id = $1
    GROUP BY p.period_title
  `, companyID).Scan(&summary.Title, &summary.Payments, &summary.TotalNet, &summary.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return PeriodSummary{TotalNet: "0"}, nil
	}
	if err != nil {
		return PeriodSummary{}, err
	}
	return summary, nil
}

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	var employeeJSON, benefitsJSON, deductionsJSON []byte
	var hours *string
	var base, totalBenefits, totalDeductions, net string
	err := row.Scan(
		&p.ID, &employeeJSON, &hours, &base, &benefitsJSON, &deductionsJSON,
		&totalBenefits, &totalDeductions, &net, &p.Currency,
		&p.Period.Title, &p.Period.StartDate, &p.Period.EndDate, &p.Warnings, &p.CreatedAt,
	)
	if err != nil {
		return Payment{}, err
	}
	if err := json.Unmarshal(employeeJSON, &p.Employee); err != nil {
		return Payment{}, fmt.Errorf("payment %s employee: %w", p.ID, err)
	}
	if err := json.Unmarshal(benefitsJSON, &p.Benefits); err != nil {
		return Payment{}, fmt.Errorf("payment %s benefits: %w", p.ID, err)
	}
	if err := json.Unmarshal(deductionsJSON, &p.Deductions); err != nil {
		return Payment{}, fmt.Errorf("payment %s deductions: %w", p.ID, err)
	}
	if hours != nil {
		h, err := decimal.NewFromString(*hours)
		if err != nil {
			return Payment{}, fmt.Errorf("payment %s hours: %w", p.ID, err)
		}
		p.Hours = &h
	}
	for _, field := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&p.BaseSalary, base},
		{&p.TotalBenefits, totalBenefits},
		{&p.TotalDeductions, totalDeductions},
		{&p.NetPay, net},
	} {
		value, err := decimal.NewFromString(field.src)
		if err != nil {
			return Payment{}, fmt.Errorf("payment %s amount: %w", p.ID, err)
		}
		*field.dst = value
	}
	if p.Warnings == nil {
		p.Warnings = []string{}
	}
	return p, nil
}
