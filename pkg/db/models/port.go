package models

import (
	"time"

	"github.com/google/uuid"
)

// Port is shared reference data maintained by platform admins.
type Port struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Unlocode  string    `gorm:"column:unlocode;not null;uniqueIndex"`
	Country   string    `gorm:"column:country;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
