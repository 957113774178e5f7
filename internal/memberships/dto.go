package memberships

import (
	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/pkg/enums"
)

// MembershipWithOrganization joins membership metadata with the organization row.
type MembershipWithOrganization struct {
	ID               uuid.UUID              `json:"id" gorm:"column:id"`
	UserID           uuid.UUID              `json:"user_id" gorm:"column:user_id"`
	OrganizationID   uuid.UUID              `json:"organization_id" gorm:"column:organization_id"`
	Role             enums.MemberRole       `json:"role" gorm:"column:role"`
	OrganizationName string                 `json:"organization_name" gorm:"column:organization_name"`
	OrganizationType enums.OrganizationType `json:"organization_type" gorm:"column:organization_type"`
}
