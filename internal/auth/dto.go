package auth

import (
	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/internal/users"
	"github.com/portside-hq/portside-backend/pkg/enums"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OrganizationSummary describes the organization metadata returned after login.
type OrganizationSummary struct {
	ID   uuid.UUID              `json:"id"`
	Name string                 `json:"name"`
	Type enums.OrganizationType `json:"type"`
	Role enums.MemberRole       `json:"role"`
}

// LoginResponse contains the tokens, user, and organization list produced by a successful login.
type LoginResponse struct {
	AccessToken   string                `json:"access_token"`
	RefreshToken  string                `json:"refresh_token"`
	Organizations []OrganizationSummary `json:"organizations"`
	User          *users.UserDTO        `json:"user"`
}

// RefreshRequest carries the rotation inputs for the refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the freshly rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SwitchOrganizationRequest selects the organization the caller wants to act under.
type SwitchOrganizationRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" validate:"required"`
}

// SwitchOrganizationResponse carries the re-minted token pair scoped to the new organization.
type SwitchOrganizationResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
