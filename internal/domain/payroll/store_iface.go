package payroll

import "context"

type StoreAPI interface {
	Create(ctx context.Context, companyID string, payment Payment) (Payment, error)
	List(ctx context.Context, companyID string, filter Filter) ([]Payment, error)
	Get(ctx context.Context, companyID, paymentID string) (Payment, error)
	Delete(ctx context.Context, companyID, paymentID string) error
	LatestPeriod(ctx context.Context, companyID string) (PeriodSummary, error)
}

// PeriodSummary totals the payments of one period.
type PeriodSummary struct {
	Title    string `json:"title"`
	Payments int    `json:"payments"`
	TotalNet string `json:"totalNet"`
	Currency string `json:"currency"`
}
