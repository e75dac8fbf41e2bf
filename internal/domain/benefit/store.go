package benefit

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

func (s *Store) List(ctx context.Context, companyID string) ([]Rule, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, amount::text, description, employee_ids::text[], eligibility, created_at
    FROM benefits
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
		var amount string
		if err := rows.Scan(&rule.ID, &rule.Name, &amount, &rule.Description, &rule.EmployeeIDs, &rule.Eligibility, &rule.CreatedAt); err != nil {
			return nil, err
		}
		if rule.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("benefit %s amount: %w", rule.ID, err)
		}
		if rule.EmployeeIDs == nil {
			rule.EmployeeIDs = []string{}
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (s *Store) Create(ctx context.Context, companyID string, rule Rule) (Rule, error) {
	if rule.EmployeeIDs == nil {
		rule.EmployeeIDs = []string{}
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO benefits (company_id, name, amount, description, employee_ids, eligibility)
    VALUES ($1,$2,$3::numeric,$4,$5::uuid[],$6)
    RETURNING id, created_at
  `, companyID, rule.Name, rule.Amount.String(), rule.Description, rule.EmployeeIDs, rule.Eligibility).Scan(&rule.ID, &rule.CreatedAt)
	if err != nil {
		return Rule{}, err
	}
	return rule, nil
}

func (s *Store) Delete(ctx context.Context, companyID, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM benefits WHERE company_id = $1 AND id = $2", companyID, id)
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
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM benefits WHERE company_id = $1", companyID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
