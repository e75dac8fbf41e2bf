package auth

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Membership struct {
	CompanyID string `json:"companyId"`
	UserID    string `json:"userId"`
	Role      string `json:"role"`
}

// Session is what login and signup hand back to the client.
type Session struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	CompanyID string `json:"companyId,omitempty"`
	Role      string `json:"role,omitempty"`
}
