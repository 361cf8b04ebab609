package storage

import (
	"context"

	"volunteer-backend/internal/models"
)

func (w *writer) InsertOrganization(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (name, description, created_by_user_id)
		VALUES ($1, $2, $3)
		RETURNING organization_id, created_at
	`

	return w.q.QueryRowxContext(ctx, query, org.Name, nullIfEmpty(org.Description), org.CreatedByUserID).
		Scan(&org.ID, &org.CreatedAt)
}

func (s *Storage) GetOrganization(ctx context.Context, id int64) (*models.Organization, error) {
	query := `
		SELECT organization_id, name, description, created_by_user_id, created_at
		FROM organizations
		WHERE organization_id = $1
	`

	var org models.Organization
	if err := s.db.GetContext(ctx, &org, query, id); err != nil {
		if isNoRows(err) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (s *Storage) ListOrganizationMembers(ctx context.Context, orgID int64) ([]models.OrganizationMember, error) {
	query := `
		SELECT r.user_id, r.organization_id, u.email, u.first_name, u.last_name, r.permission_level
		FROM roles r
		JOIN users u ON u.user_id = r.user_id
		WHERE r.organization_id = $1
		ORDER BY r.permission_level, u.last_name, u.first_name
	`

	members := make([]models.OrganizationMember, 0)
	if err := s.db.SelectContext(ctx, &members, query, orgID); err != nil {
		return nil, err
	}
	return members, nil
}
