package domain

import "time"

// User represents an account known to the platform. Role lives in a separate
// user_roles row and is resolved per request, not carried here.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
