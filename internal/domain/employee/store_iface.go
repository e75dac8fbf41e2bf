package employee

import "context"

type StoreAPI interface {
	List(ctx context.Context, companyID string, filter Filter) ([]Employee, error)
	Get(ctx context.Context, companyID, employeeID string) (Employee, error)
	Create(ctx context.Context, companyID string, emp Employee) (Employee, error)
	Update(ctx context.Context, companyID string, emp Employee) (Employee, error)
	Delete(ctx context.Context, companyID, employeeID string) error
	Count(ctx context.Context, companyID string) (int, error)
}
