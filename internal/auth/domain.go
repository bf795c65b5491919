package auth

import "time"

// User represents an authenticated account. Customer accounts carry a
// reference to their customer row; admin accounts do not.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	CustomerID   *int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
