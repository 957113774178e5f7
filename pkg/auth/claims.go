package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID               uuid.UUID
	ActiveOrganizationID *uuid.UUID
	Role                 enums.MemberRole
	OrganizationType     *enums.OrganizationType
	IsPlatformAdmin      bool
	JTI                  string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID               uuid.UUID               `json:"user_id"`
	ActiveOrganizationID *uuid.UUID              `json:"active_organization_id,omitempty"`
	Role                 enums.MemberRole        `json:"role"`
	OrganizationType     *enums.OrganizationType `json:"organization_type,omitempty"`
	IsPlatformAdmin      bool                    `json:"is_platform_admin,omitempty"`
	jwt.RegisteredClaims
}
