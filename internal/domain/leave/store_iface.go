package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, companyID string, r Request) (Request, error)
	Get(ctx context.Context, companyID, id string) (Request, error)
	List(ctx context.Context, companyID string, filter Filter) ([]Request, error)
	Decide(ctx context.Context, companyID, id, status, decidedBy string, at time.Time) (Request, error)
	Delete(ctx context.Context, companyID, id string) error
}
