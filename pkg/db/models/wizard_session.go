package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/pkg/enums"
)

// WizardSession is the draft aggregate behind the multi-step order wizard.
// At most one draft exists per (user, organization); rows past ExpiresAt are
// treated as not found at read time.
type WizardSession struct {
	ID                 uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID                 `gorm:"column:user_id;type:uuid;not null;index:ix_wizard_sessions_user_org"`
	OrganizationID     uuid.UUID                 `gorm:"column:organization_id;type:uuid;not null;index:ix_wizard_sessions_user_org"`
	Name               string                    `gorm:"column:name;not null"`
	CurrentStep        enums.WizardStep          `gorm:"column:current_step;type:text;not null;default:'vessel_port'"`
	Status             enums.WizardSessionStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	VesselID           *uuid.UUID                `gorm:"column:vessel_id;type:uuid"`
	PortID             *uuid.UUID                `gorm:"column:port_id;type:uuid"`
	ExpiresAt          time.Time                 `gorm:"column:expires_at;not null"`
	CompletedAt        *time.Time                `gorm:"column:completed_at"`
	CategorySelections []WizardCategorySelection `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	ServiceSelections  []WizardServiceSelection  `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
