package storage

import (
	"context"

	"volunteer-backend/internal/models"
)

func (w *writer) InsertRole(ctx context.Context, role models.Role) error {
	query := `
		INSERT INTO roles (user_id, organization_id, permission_level)
		VALUES ($1, $2, $3)
	`

	if _, err := w.q.ExecContext(ctx, query, role.UserID, role.OrganizationID, role.PermissionLevel); err != nil {
		if isUniqueViolation(err) {
			return ErrRoleExists
		}
		return err
	}
	return nil
}

// HasAdminRole reports whether the user is an admin of any organization.
func (s *Storage) HasAdminRole(ctx context.Context, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM roles WHERE user_id = $1 AND permission_level = $2
		)
	`

	var ok bool
	err := s.db.GetContext(ctx, &ok, query, userID, models.PermissionAdmin)
	return ok, err
}

func (s *Storage) IsOrganizationAdmin(ctx context.Context, userID, orgID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM roles
			WHERE user_id = $1 AND organization_id = $2 AND permission_level = $3
		)
	`

	var ok bool
	err := s.db.GetContext(ctx, &ok, query, userID, orgID, models.PermissionAdmin)
	return ok, err
}
