package company

import "time"

const (
	DefaultWorkdayStart = "09:00"
	DefaultWorkdayEnd   = "17:00"

	clockLayout = "15:04"
)

type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Industry     string    `json:"industry"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Currency     string    `json:"currency"`
	WorkdayStart string    `json:"workdayStart"`
	WorkdayEnd   string    `json:"workdayEnd"`
	OwnerUserID  string    `json:"ownerUserId"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Member struct {
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

type Invitation struct {
	ID         string     `json:"id"`
	CompanyID  string     `json:"companyId"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	InvitedBy  string     `json:"invitedBy,omitempty"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (i Invitation) Pending(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}

// Workday is the company's working hours on a given date.
type Workday struct {
	Start string
	End   string
}

// StartOn returns the workday start on the calendar day of date, in loc.
func (w Workday) StartOn(date time.Time, loc *time.Location) (time.Time, error) {
	return clockOn(w.Start, date, loc)
}

func (w Workday) EndOn(date time.Time, loc *time.Location) (time.Time, error) {
	return clockOn(w.End, date, loc)
}

func clockOn(clock string, date time.Time, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc), nil
}
