package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const returningColumns = `id, employee_id, leave_type, start_date, end_date, start_half, end_half,
           days::text, reason, status, COALESCE(decided_by::text, ''), decided_at, created_at`

func (s *Store) Create(ctx context.Context, companyID string, r Request) (Request, error) {
	created, err := scanRequest(s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (company_id, employee_id, leave_type, start_date, end_date,
                                start_half, end_half, days, reason, status)
    SELECT $1, e.id, $3, $4, $5, $6, $7, $8::numeric, $9, $10
    FROM employees e
    WHERE e.company_id = $1 AND e.id = $2
    RETURNING `+returningColumns,
		companyID, r.EmployeeID, r.Type, r.StartDate, r.EndDate, r.StartHalf, r.EndHalf, r.Days.String(), r.Reason, r.Status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return created, err
}

func (s *Store) Get(ctx context.Context, companyID, id string) (Request, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+returningColumns+`
    FROM leave_requests
    WHERE company_id = $1 AND id = $2
  `, companyID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return r, err
}

func (s *Store) List(ctx context.Context, companyID string, filter Filter) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+returningColumns+`
    FROM leave_requests
    WHERE company_id = $1
      AND ($2 = '' OR employee_id::text = $2)
      AND ($3 = '' OR status = $3)
    ORDER BY start_date DESC, created_at DESC
  `, companyID, filter.EmployeeID, filter.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Request{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Decide moves a pending request to status. A decided request matches no row.
func (s *Store) Decide(ctx context.Context, companyID, id, status, decidedBy string, at time.Time) (Request, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, `
    UPDATE leave_requests
    SET status = $3, decided_by = $4, decided_at = $5
    WHERE company_id = $1 AND id = $2 AND status = 'pending'
    RETURNING `+returningColumns,
		companyID, id, status, decidedBy, at))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.Get(ctx, companyID, id); getErr != nil {
			return Request{}, getErr
		}
		return Request{}, ErrNotPending
	}
	return r, err
}

func (s *Store) Delete(ctx context.Context, companyID, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leave_requests WHERE company_id = $1 AND id = $2", companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	var days string
	err := row.Scan(&r.ID, &r.EmployeeID, &r.Type, &r.StartDate, &r.EndDate, &r.StartHalf, &r.EndHalf,
		&days, &r.Reason, &r.Status, &r.DecidedBy, &r.DecidedAt, &r.CreatedAt)
	if err != nil {
		return Request{}, err
	}
	if r.Days, err = decimal.NewFromString(days); err != nil {
		return Request{}, fmt.Errorf("leave request %s days: %w", r.ID, err)
	}
	return r, nil
}
