package storage

import (
	"context"
	"fmt"
)

// schema is applied idempotently at startup. Schema changes beyond adding
// tables are handled outside the service.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id     BIGSERIAL PRIMARY KEY,
	email       TEXT NOT NULL,
	first_name  TEXT NOT NULL,
	last_name   TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS organizations (
	organization_id     BIGSERIAL PRIMARY KEY,
	name                TEXT NOT NULL,
	description         TEXT,
	created_by_user_id  BIGINT NOT NULL REFERENCES users (user_id),
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS roles (
	user_id           BIGINT NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
	organization_id   BIGINT NOT NULL REFERENCES organizations (organization_id) ON DELETE CASCADE,
	permission_level  TEXT NOT NULL CHECK (permission_level IN ('admin', 'volunteer')),
	PRIMARY KEY (user_id, organization_id)
);

CREATE TABLE IF NOT EXISTS credentials (
	user_id          BIGINT PRIMARY KEY REFERENCES users (user_id) ON DELETE CASCADE,
	hashed_password  TEXT NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
