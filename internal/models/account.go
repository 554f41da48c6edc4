package models

import "time"

// Account holds login credentials and the role code of a portal user.
type Account struct {
	ID           string `db:"account_id" json:"account_id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	RoleID       int64  `db:"role_id" json:"role_id"`
	Active       bool   `db:"active" json:"active"`
}

// Session is a persisted session token.
type Session struct {
	ID        string    `db:"session_id" json:"session_id"`
	AccountID string    `db:"account_id" json:"account_id"`
	Token     string    `db:"token" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
}

// LoginRequest holds credentials for establishing a session.
type LoginRequest struct {
	Username  string `json:"username" form:"username" validate:"required,max=100"`
	Password  string `json:"password" form:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResult carries the new token and the role name reported to the client.
type LoginResult struct {
	Token string
	Role  Role
}

// LoginResponse is the body returned by the login endpoint.
type LoginResponse struct {
	Status  string `json:"status"`
	Role    string `json:"role,omitempty"`
	Message string `json:"message,omitempty"`
}
