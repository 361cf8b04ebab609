package storage

import (
	"context"

	"volunteer-backend/internal/models"
)

// FindUserByEmail returns nil, nil when no user has the email.
func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT user_id, email, first_name, last_name, created_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	if err := s.db.GetContext(ctx, &user, query, email); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUser returns nil, nil when the user does not exist.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT user_id, email, first_name, last_name, created_at
		FROM users
		WHERE user_id = $1
	`

	var user models.User
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (w *writer) InsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, first_name, last_name)
		VALUES ($1, $2, $3)
		RETURNING user_id, created_at
	`

	err := w.q.QueryRowxContext(ctx, query, user.Email, user.FirstName, user.LastName).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}
