package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"paydesk/internal/platform/querier"
)

const uniqueViolation = "23505"

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateUser(ctx context.Context, email, fullName, passwordHash string) (User, error) {
	user := User{Email: normalizeEmail(email), FullName: strings.TrimSpace(fullName)}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, full_name, password_hash)
    VALUES ($1,$2,$3)
    RETURNING id, created_at
  `, user.Email, user.FullName, passwordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, full_name, password_hash, created_at
    FROM users
    WHERE email = $1
  `, normalizeEmail(email)).Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (s *Store) GetUser(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, full_name, password_hash, created_at
    FROM users
    WHERE id = $1
  `, userID).Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

// PrimaryMembership returns the oldest company membership of the user.
func (s *Store) PrimaryMembership(ctx context.Context, userID string) (Membership, error) {
	var m Membership
	err := s.DB.QueryRow(ctx, `
    SELECT company_id, user_id, role
    FROM company_members
    WHERE user_id = $1
    ORDER BY created_at
    LIMIT 1
  `, userID).Scan(&m.CompanyID, &m.UserID, &m.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return Membership{}, ErrNoMembership
	}
	return m, err
}

func (s *Store) AddMember(ctx context.Context, companyID, userID, role string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO company_members (company_id, user_id, role)
    VALUES ($1,$2,$3)
    ON CONFLICT (company_id, user_id) DO UPDATE SET role = EXCLUDED.role
  `, companyID, userID, role)
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
