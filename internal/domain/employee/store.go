package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	cryptoutil "paydesk/internal/platform/crypto"
	"paydesk/internal/platform/querier"
)

type Store struct {
	DB  querier.Querier
	Box *cryptoutil.Box
}

func NewStore(db querier.Querier, box *cryptoutil.Box) *Store {
	return &Store{DB: db, Box: box}
}

const selectColumns = `
    SELECT id, first_name, last_name, email, phone, position, department,
           payment_rate, base_salary::text, bank_account, bank_account_enc,
           status, start_date, created_at, updated_at
    FROM employees`

func (s *Store) List(ctx context.Context, companyID string, filter Filter) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, selectColumns+`
    WHERE company_id = $1
      AND ($2 = '' OR department = $2)
      AND ($3 = '' OR status = $3)
    ORDER BY last_name, first_name, created_at
  `, companyID, filter.Department, filter.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		emp, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, companyID, employeeID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, selectColumns+`
    WHERE company_id = $1 AND id = $2
  `, companyID, employeeID)
	emp, err := s.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) Create(ctx context.Context, companyID string, emp Employee) (Employee, error) {
	bankPlain, bankEnc, err := s.Box.SealField(emp.BankAccount)
	if err != nil {
		return Employee{}, fmt.Errorf("seal bank account: %w", err)
	}
	if emp.Status == "" {
		emp.Status = StatusActive
	}
	err = s.DB.QueryRow(ctx, `
    INSERT INTO employees (company_id, first_name, last_name, email, phone, position, department,
                           payment_rate, base_salary, bank_account, bank_account_enc, status, start_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::numeric,$10,$11,$12,$13)
    RETURNING id, created_at, updated_at
  `, companyID, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.Position, emp.Department,
		emp.PaymentRate, emp.BaseSalary.String(), bankPlain, bankEnc, emp.Status, emp.StartDate,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) Update(ctx context.Context, companyID string, emp Employee) (Employee, error) {
	bankPlain, bankEnc, err := s.Box.SealField(emp.BankAccount)
	if err != nil {
		return Employee{}, fmt.Errorf("seal bank account: %w", err)
	}
	err = s.DB.QueryRow(ctx, `
    UPDATE employees
    SET first_name = $3, last_name = $4, email = $5, phone = $6, position = $7, department = $8,
        payment_rate = $9, base_salary = $10::numeric, bank_account = $11, bank_account_enc = $12,
        status = $13, start_date = $14, updated_at = now()
    WHERE company_id = $1 AND id = $2
    RETURNING created_at, updated_at
  `, companyID, emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.Position, emp.Department,
		emp.PaymentRate, emp.BaseSalary.String(), bankPlain, bankEnc, emp.Status, emp.StartDate,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Store) Delete(ctx context.Context, companyID, employeeID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE company_id = $1 AND id = $2", companyID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context, companyID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE company_id = $1", companyID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) scan(row pgx.Row) (Employee, error) {
	var emp Employee
	var salary, bankPlain string
	var bankEnc []byte
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone, &emp.Position, &emp.Department,
		&emp.PaymentRate, &salary, &bankPlain, &bankEnc,
		&emp.Status, &emp.StartDate, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return Employee{}, err
	}
	if emp.BaseSalary, err = decimal.NewFromString(salary); err != nil {
		return Employee{}, fmt.Errorf("employee %s base salary: %w", emp.ID, err)
	}
	if emp.BankAccount, err = s.Box.OpenField(bankPlain, bankEnc); err != nil {
		return Employee{}, fmt.Errorf("employee %s bank account: %w", emp.ID, err)
	}
	return emp, nil
}
