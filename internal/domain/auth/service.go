package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl}
}

func (s *Service) Signup(ctx context.Context, email, password, fullName string) (User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateUser(ctx, email, fullName, hash)
}

// Login verifies the password and returns a session scoped to the user's
// company when one exists.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.SessionFor(ctx, user)
}

// SessionFor issues a token for the user's current membership state.
func (s *Service) SessionFor(ctx context.Context, user User) (Session, error) {
	membership, err := s.store.PrimaryMembership(ctx, user.ID)
	if err != nil && !errors.Is(err, ErrNoMembership) {
		return Session{}, err
	}
	return s.Issue(user, membership)
}

func (s *Service) Issue(user User, membership Membership) (Session, error) {
	token, err := GenerateToken(s.secret, Claims{
		UserID:    user.ID,
		CompanyID: membership.CompanyID,
		Role:      membership.Role,
	}, s.ttl)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: token, User: user, CompanyID: membership.CompanyID, Role: membership.Role}, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *Service) Secret() string {
	return s.secret
}
