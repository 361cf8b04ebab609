package storage

import (
	"context"

	"volunteer-backend/internal/models"
)

func (w *writer) InsertCredential(ctx context.Context, userID int64, hashedPassword string) error {
	query := `
		INSERT INTO credentials (user_id, hashed_password)
		VALUES ($1, $2)
	`

	_, err := w.q.ExecContext(ctx, query, userID, hashedPassword)
	return err
}

// FindCredentialByUser returns nil, nil when the user has no credential row.
func (s *Storage) FindCredentialByUser(ctx context.Context, userID int64) (*models.Credential, error) {
	query := `
		SELECT user_id, hashed_password, updated_at
		FROM credentials
		WHERE user_id = $1
	`

	var cred models.Credential
	if err := s.db.GetContext(ctx, &cred, query, userID); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

// UpdateCredentialPassword replaces the stored hash and reports whether a row
// was updated.
func (s *Storage) UpdateCredentialPassword(ctx context.Context, userID int64, hashedPassword string) (bool, error) {
	query := `
		UPDATE credentials
		SET hashed_password = $1, updated_at = NOW()
		WHERE user_id = $2
	`

	res, err := s.db.ExecContext(ctx, query, hashedPassword, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
