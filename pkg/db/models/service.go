package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/portside-hq/portside-backend/pkg/enums"
)

// Service is a port service offered by a shipping agency. Price is the live
// catalog price; orders snapshot it at completion time and never read it back.
type Service struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID           `gorm:"column:organization_id;type:uuid;not null;index"`
	SubCategoryID  uuid.UUID           `gorm:"column:sub_category_id;type:uuid;not null;index"`
	Name           string              `gorm:"column:name;not null"`
	Description    *string             `gorm:"column:description"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	Status         enums.ServiceStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
