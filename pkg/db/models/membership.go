package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/pkg/enums"
)

// Membership links a user to an organization with a role.
type Membership struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_memberships_user_org"`
	OrganizationID uuid.UUID        `gorm:"column:organization_id;type:uuid;not null;uniqueIndex:ux_memberships_user_org"`
	Role           enums.MemberRole `gorm:"column:role;type:text;not null;default:'member'"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
