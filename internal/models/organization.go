package models

import "time"

type Organization struct {
	ID              int64     `db:"organization_id" json:"organization_id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	CreatedByUserID int64     `db:"created_by_user_id" json:"created_by_user_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type PermissionLevel string

const (
	PermissionAdmin     PermissionLevel = "admin"
	PermissionVolunteer PermissionLevel = "volunteer"
)

// Role grants a user a permission level inside one organization.
type Role struct {
	UserID          int64           `db:"user_id" json:"user_id"`
	OrganizationID  int64           `db:"organization_id" json:"organization_id"`
	PermissionLevel PermissionLevel `db:"permission_level" json:"permission_level"`
}

type OrganizationMember struct {
	UserID          int64           `db:"user_id" json:"user_id"`
	OrganizationID  int64           `db:"organization_id" json:"organization_id"`
	Email           string          `db:"email" json:"email"`
	FirstName       string          `db:"first_name" json:"first_name"`
	LastName        string          `db:"last_name" json:"last_name"`
	PermissionLevel PermissionLevel `db:"permission_level" json:"permission_level"`
}
