package deduction

import "context"

type StoreAPI interface {
	List(ctx context.Context, companyID string) ([]Rule, error)
	Create(ctx context.Context, companyID string, rule Rule) (Rule, error)
	Delete(ctx context.Context, companyID, id string) error
	Count(ctx context.Context, companyID string) (int, error)
}
