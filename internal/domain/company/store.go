package company

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"paydesk/internal/domain/auth"
	"paydesk/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const selectCompany = `
    SELECT id, name, industry, address, phone, email, currency,
           workday_start, workday_end, owner_user_id, created_at
    FROM companies`

// Create inserts the company and its owner membership in one statement.
func (s *Store) Create(ctx context.Context, ownerUserID string, c Company) (Company, error) {
	c.OwnerUserID = ownerUserID
	err := s.DB.QueryRow(ctx, `
    WITH created AS (
      INSERT INTO companies (name, industry, address, phone, email, currency, workday_start, workday_end, owner_user_id)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
      RETURNING id, created_at
    ), owner AS (
      INSERT INTO company_members (company_id, user_id, role)
      SELECT id, $9, $10 FROM created
    )
    SELECT id, created_at FROM created
  `, c.Name, c.Industry, c.Address, c.Phone, c.Email, c.Currency, c.WorkdayStart, c.WorkdayEnd,
		ownerUserID, auth.RoleOwner).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return Company{}, err
	}
	return c, nil
}

func (s *Store) Get(ctx context.Context, companyID string) (Company, error) {
	c, err := scanCompany(s.DB.QueryRow(ctx, selectCompany+" WHERE id = $1", companyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	return c, err
}

func (s *Store) Update(ctx context.Context, c Company) (Company, error) {
	err := s.DB.QueryRow(ctx, `
    UPDATE companies
    SET name = $2, industry = $3, address = $4, phone = $5, email = $6,
        currency = $7, workday_start = $8, workday_end = $9
    WHERE id = $1
    RETURNING owner_user_id, created_at
  `, c.ID, c.Name, c.Industry, c.Address, c.Phone, c.Email, c.Currency, c.WorkdayStart, c.WorkdayEnd,
	).Scan(&c.OwnerUserID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	if err != nil {
		return Company{}, err
	}
	return c, nil
}

// Currency satisfies payroll.CurrencySource.
func (s *Store) Currency(ctx context.Context, companyID string) (string, error) {
	var currency string
	err := s.DB.QueryRow(ctx, "SELECT currency FROM companies WHERE id = $1", companyID).Scan(&currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return currency, err
}

func (s *Store) Workday(ctx context.Context, companyID string) (Workday, error) {
	var w Workday
	err := s.DB.QueryRow(ctx, "SELECT workday_start, workday_end FROM companies WHERE id = $1", companyID).Scan(&w.Start, &w.End)
	if errors.Is(err, pgx.ErrNoRows) {
		return Workday{}, ErrNotFound
	}
	return w, err
}

// WorkdayStart satisfies attendance.WorkdaySource.
func (s *Store) WorkdayStart(ctx context.Context, companyID string) (string, error) {
	w, err := s.Workday(ctx, companyID)
	return w.Start, err
}

func (s *Store) ListMembers(ctx context.Context, companyID string) ([]Member, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.email, u.full_name, m.role, m.created_at
    FROM company_members m
    JOIN users u ON u.id = m.user_id
    WHERE m.company_id = $1
    ORDER BY m.created_at
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Email, &m.FullName, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) CreateInvitation(ctx context.Context, inv Invitation, tokenHash string) (Invitation, error) {
	var invitedBy *string
	if inv.InvitedBy != "" {
		invitedBy = &inv.InvitedBy
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO invitations (company_id, email, role, token_hash, invited_by, expires_at)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, created_at
  `, inv.CompanyID, inv.Email, inv.Role, tokenHash, invitedBy, inv.ExpiresAt).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return Invitation{}, err
	}
	return inv, nil
}

func (s *Store) ListInvitations(ctx context.Context, companyID string) ([]Invitation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, email, role, COALESCE(invited_by::text, ''), expires_at, accepted_at, created_at
    FROM invitations
    WHERE company_id = $1
    ORDER BY created_at DESC
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Invitation{}
	for rows.Next() {
		var inv Invitation
		if err := rows.Scan(&inv.ID, &inv.CompanyID, &inv.Email, &inv.Role, &inv.InvitedBy, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// AcceptInvitation consumes a pending invitation and adds the user to its
// company. A used or expired token matches no row.
func (s *Store) AcceptInvitation(ctx context.Context, tokenHash, userID string, now time.Time) (string, string, error) {
	var companyID, role string
	err := s.DB.QueryRow(ctx, `
    WITH accepted AS (
      UPDATE invitations
      SET accepted_at = $3
      WHERE token_hash = $1 AND accepted_at IS NULL AND expires_at > $3
      RETURNING company_id, role
    )
    INSERT INTO company_members (company_id, user_id, role)
    SELECT company_id, $2, role FROM accepted
    ON CONFLICT (company_id, user_id) DO UPDATE SET role = EXCLUDED.role
    RETURNING company_id, role
  `, tokenHash, userID, now).Scan(&companyID, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrInvitationInvalid
	}
	if err != nil {
		return "", "", err
	}
	return companyID, role, nil
}

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Industry, &c.Address, &c.Phone, &c.Email, &c.Currency,
		&c.WorkdayStart, &c.WorkdayEnd, &c.OwnerUserID, &c.CreatedAt)
	return c, err
}
