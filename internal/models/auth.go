package models

// Response labels for the caller's derived role.
const (
	RoleOrgAdmin  = "org_admin"
	RoleVolunteer = "volunteer"
)

type SignupInput struct {
	Email          string  `json:"email" validate:"required,email,max=254"`
	FirstName      string  `json:"first_name" validate:"required,notblank,max=100"`
	LastName       string  `json:"last_name" validate:"required,notblank,max=100"`
	Password       string  `json:"password" validate:"required,min=8,maxbytes=72"`
	OrgName        *string `json:"org_name" validate:"omitnil,notblank,max=255"`
	OrgDescription *string `json:"org_description" validate:"omitnil,max=2000"`
}

type SignupResult struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	OrgID     *int64 `json:"org_id,omitempty"`
}

type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RequestResetInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,maxbytes=72"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
