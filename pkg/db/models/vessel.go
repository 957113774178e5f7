package models

import (
	"time"

	"github.com/google/uuid"
)

// Vessel belongs to a vessel-owner organization.
type Vessel struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null;index"`
	Name           string    `gorm:"column:name;not null"`
	IMONumber      string    `gorm:"column:imo_number;not null;uniqueIndex"`
	Flag           *string   `gorm:"column:flag"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
