package company

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, ownerUserID string, c Company) (Company, error)
	Get(ctx context.Context, companyID string) (Company, error)
	Update(ctx context.Context, c Company) (Company, error)
	ListMembers(ctx context.Context, companyID string) ([]Member, error)
	CreateInvitation(ctx context.Context, inv Invitation, tokenHash string) (Invitation, error)
	ListInvitations(ctx context.Context, companyID string) ([]Invitation, error)
	AcceptInvitation(ctx context.Context, tokenHash, userID string, now time.Time) (companyID, role string, err error)
}
