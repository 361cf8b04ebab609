// Package notify delivers password reset tokens through a side channel that
// the HTTP caller never sees.
package notify

import (
	"context"
	"time"
)

type ResetNotice struct {
	ID        string    `json:"id" msgpack:"id"`
	UserID    int64     `json:"user_id" msgpack:"user_id"`
	Email     string    `json:"email" msgpack:"email"`
	Token     string    `json:"token" msgpack:"token"`
	ExpiresAt time.Time `json:"expires_at" msgpack:"expires_at"`
}

type Notifier interface {
	PasswordReset(ctx context.Context, notice ResetNotice) error
}
