package deduction

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"paydesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// List returns rules in creation order; that order is the order deductions
// appear on a payment.
func (s *Store) List(ctx context.Context, companyID string) ([]Rule, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, type, value::text, description, created_at
    FROM deductions
    WHERE company_id = $1
    ORDER BY created_at, id
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []Rule{}
	for rows.Next() {
		var rule Rule
		var value string
		if err := rows.Scan(&rule.ID, &rule.Name, &rule.Type, &value, &rule.Description, &rule.CreatedAt); err != nil {
			return nil, err
		}
		if rule.Value, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("deduction %s value: %w", rule.ID, err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (s *Store) Create(ctx context.Context, companyID string, rule Rule) (Rule, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO deductions (company_id, name, type, value, description)
    VALUES ($1,$2,$3,$4::numeric,$5)
    RETURNING id, created_at
  `, companyID, rule.Name, rule.Type, rule.Value.String(), rule.Description).Scan(&rule.ID, &rule.CreatedAt)
	if err != nil {
		return Rule{}, err
	}
	return rule, nil
}

func (s *Store) Delete(ctx context.Context, companyID, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM deductions WHERE company_id = $1 AND id = $2", companyID, id)
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
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM deductions WHERE company_id = $1", companyID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
