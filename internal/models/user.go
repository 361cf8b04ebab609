package models

import "time"

type User struct {
	ID        int64     `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Credential holds the bcrypt hash for exactly one user. Plaintext is never stored.
type Credential struct {
	UserID         int64     `db:"user_id"`
	HashedPassword string    `db:"hashed_password"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// CurrentUser is the authenticated caller as seen by protected routes.
type CurrentUser struct {
	ID        int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}
