package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"paydesk/internal/domain/auth"
	"paydesk/internal/platform/email"
)

const JobInvitationEmail = "invitation_email"

// Enqueuer runs work in the background.
type Enqueuer interface {
	Enqueue(jobType, companyID string, run func(context.Context) (any, error))
}

type Options struct {
	DefaultCurrency string
	InvitationTTL   time.Duration
	EmailFrom       string
}

type Service struct {
	store  StoreAPI
	mailer email.Mailer
	jobs   Enqueuer
	opts   Options
	now    func() time.Time
}

func NewService(store StoreAPI, mailer email.Mailer, jobs Enqueuer, opts Options) *Service {
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "RWF"
	}
	if opts.InvitationTTL <= 0 {
		opts.InvitationTTL = 7 * 24 * time.Hour
	}
	return &Service{store: store, mailer: mailer, jobs: jobs, opts: opts, now: time.Now}
}

// Setup creates a company owned by userID.
func (s *Service) Setup(ctx context.Context, userID string, c Company) (Company, error) {
	c = s.normalize(c)
	if err := validateWorkday(c.WorkdayStart, c.WorkdayEnd); err != nil {
		return Company{}, err
	}
	return s.store.Create(ctx, userID, c)
}

func (s *Service) Get(ctx context.Context, companyID string) (Company, error) {
	return s.store.Get(ctx, companyID)
}

func (s *Service) Update(ctx context.Context, c Company) (Company, error) {
	c = s.normalize(c)
	if err := validateWorkday(c.WorkdayStart, c.WorkdayEnd); err != nil {
		return Company{}, err
	}
	return s.store.Update(ctx, c)
}

func (s *Service) Members(ctx context.Context, companyID string) ([]Member, error) {
	return s.store.ListMembers(ctx, companyID)
}

// Invite stores an invitation and mails its token in the background. The
// raw token is returned once and never stored.
func (s *Service) Invite(ctx context.Context, companyID, invitedBy, address, role string) (Invitation, string, error) {
	if role == "" {
		role = auth.RoleMember
	}
	if role != auth.RoleAdmin && role != auth.RoleMember {
		return Invitation{}, "", ErrInvalidRole
	}
	token, hash, err := auth.NewOpaqueToken()
	if err != nil {
		return Invitation{}, "", fmt.Errorf("invitation token: %w", err)
	}
	inv, err := s.store.CreateInvitation(ctx, Invitation{
		CompanyID: companyID,
		Email:     strings.ToLower(strings.TrimSpace(address)),
		Role:      role,
		InvitedBy: invitedBy,
		ExpiresAt: s.now().Add(s.opts.InvitationTTL),
	}, hash)
	if err != nil {
		return Invitation{}, "", err
	}

	if s.jobs != nil && s.mailer != nil {
		companyName := ""
		if c, err := s.store.Get(ctx, companyID); err == nil {
			companyName = c.Name
		} else {
			slog.Warn("invitation company lookup failed", "companyId", companyID, "err", err)
		}
		subject, body := invitationMessage(companyName, inv, token)
		s.jobs.Enqueue(JobInvitationEmail, companyID, func(ctx context.Context) (any, error) {
			err := s.mailer.Send(ctx, s.opts.EmailFrom, inv.Email, subject, body)
			return map[string]any{"invitationId": inv.ID, "email": inv.Email}, err
		})
	}
	return inv, token, nil
}

func (s *Service) Invitations(ctx context.Context, companyID string) ([]Invitation, error) {
	return s.store.ListInvitations(ctx, companyID)
}

// Accept joins userID to the company that issued token.
func (s *Service) Accept(ctx context.Context, token, userID string) (auth.Membership, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Membership{}, ErrInvitationInvalid
	}
	companyID, role, err := s.store.AcceptInvitation(ctx, auth.HashOpaqueToken(token), userID, s.now())
	if err != nil {
		return auth.Membership{}, err
	}
	return auth.Membership{CompanyID: companyID, UserID: userID, Role: role}, nil
}

func (s *Service) normalize(c Company) Company {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = s.opts.DefaultCurrency
	}
	if c.WorkdayStart == "" {
		c.WorkdayStart = DefaultWorkdayStart
	}
	if c.WorkdayEnd == "" {
		c.WorkdayEnd = DefaultWorkdayEnd
	}
	return c
}

func validateWorkday(start, end string) error {
	from, err := time.Parse(clockLayout, start)
	if err != nil {
		return ErrInvalidWorkday
	}
	to, err := time.Parse(clockLayout, end)
	if err != nil {
		return ErrInvalidWorkday
	}
	if !from.Before(to) {
		return ErrInvalidWorkday
	}
	return nil
}

func invitationMessage(companyName string, inv Invitation, token string) (string, string) {
	if companyName == "" {
		companyName = "your team"
	}
	subject := fmt.Sprintf("You have been invited to join %s on Paydesk", companyName)
	body := fmt.Sprintf(
		"You have been invited to join %s as %s.\n\nSign up with this invitation token:\n\n%s\n\nThe invitation expires on %s.\n",
		companyName, inv.Role, token, inv.ExpiresAt.UTC().Format("January 2, 2006 15:04 MST"),
	)
	return subject, body
}

// IsValidationError reports whether err comes from bad input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidWorkday) || errors.Is(err, ErrInvalidRole)
}
