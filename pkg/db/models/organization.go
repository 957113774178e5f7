package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/pkg/enums"
)

// Organization is a tenant: a vessel owner placing orders or a shipping
// agency fulfilling them.
type Organization struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type         enums.OrganizationType `gorm:"column:type;type:text;not null"`
	Name         string                 `gorm:"column:name;not null"`
	ContactEmail string                 `gorm:"column:contact_email;not null"`
	Phone        *string                `gorm:"column:phone"`
	Country      *string                `gorm:"column:country"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
