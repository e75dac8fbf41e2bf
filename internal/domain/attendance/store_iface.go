package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, companyID string, r Record) (Record, error)
	Get(ctx context.Context, companyID, id string) (Record, error)
	CheckOut(ctx context.Context, companyID, id string, at time.Time) (Record, error)
	List(ctx context.Context, companyID string, filter Filter) ([]Record, error)
	Delete(ctx context.Context, companyID, id string) error
}
