package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"paydesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const selectColumns = `
    SELECT id, employee_id, work_date, check_in, check_out, status, created_at
    FROM attendance`

func (s *Store) Create(ctx context.Context, companyID string, r Record) (Record, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance (company_id, employee_id, work_date, check_in, check_out, status)
    SELECT $1, e.id, $3, $4, $5, $6
    FROM employees e
    WHERE e.company_id = $1 AND e.id = $2
    RETURNING id, created_at
  `, companyID, r.EmployeeID, r.WorkDate, r.CheckIn, r.CheckOut, r.Status).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, ErrAlreadyCheckedIn
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return r, nil
}

func (s *Store) Get(ctx context.Context, companyID, id string) (Record, error) {
	r, err := scanRecord(s.DB.QueryRow(ctx, selectColumns+" WHERE company_id = $1 AND id = $2", companyID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

// CheckOut closes an open record. The caller validates ordering.
func (s *Store) CheckOut(ctx context.Context, companyID, id string, at time.Time) (Record, error) {
	r, err := scanRecord(s.DB.QueryRow(ctx, `
    UPDATE attendance SET check_out = $3
    WHERE company_id = $1 AND id = $2 AND check_out IS NULL
    RETURNING id, employee_id, work_date, check_in, check_out, status, created_at
  `, companyID, id, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrAlreadyCheckedOut
	}
	return r, err
}

func (s *Store) List(ctx context.Context, companyID string, filter Filter) ([]Record, error) {
	rows, err := s.DB.Query(ctx, selectColumns+`
    WHERE company_id = $1
      AND ($2 = '' OR employee_id::text = $2)
      AND ($3::date IS NULL OR work_date >= $3::date)
      AND ($4::date IS NULL OR work_date <= $4::date)
    ORDER BY work_date DESC, check_in DESC
  `, companyID, filter.EmployeeID, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, companyID, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM attendance WHERE company_id = $1 AND id = $2", companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.EmployeeID, &r.WorkDate, &r.CheckIn, &r.CheckOut, &r.Status, &r.CreatedAt)
	return r, err
}
