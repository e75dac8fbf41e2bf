package auth

import "context"

type StoreAPI interface {
	CreateUser(ctx context.Context, email, fullName, passwordHash string) (User, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, userID string) (User, error)
	PrimaryMembership(ctx context.Context, userID string) (Membership, error)
	AddMember(ctx context.Context, companyID, userID, role string) error
}
