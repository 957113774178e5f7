package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WizardCategorySelection is one chosen sub-category on a session. Step
// resubmission replaces the full set.
type WizardCategorySelection struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID     uuid.UUID `gorm:"column:session_id;type:uuid;not null;index"`
	CategoryID    uuid.UUID `gorm:"column:category_id;type:uuid;not null"`
	SubCategoryID uuid.UUID `gorm:"column:sub_category_id;type:uuid;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// WizardServiceSelection is one chosen service with the price snapshot taken
// at selection time. OrganizationID is the fulfilling agency that owns the
// service; decomposition partitions on it.
type WizardServiceSelection struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID      uuid.UUID       `gorm:"column:session_id;type:uuid;not null;index"`
	ServiceID      uuid.UUID       `gorm:"column:service_id;type:uuid;not null"`
	CategoryID     uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	SubCategoryID  uuid.UUID       `gorm:"column:sub_category_id;type:uuid;not null"`
	OrganizationID uuid.UUID       `gorm:"column:organization_id;type:uuid;not null"`
	ServiceName    string          `gorm:"column:service_name;not null"`
	Quantity       int             `gorm:"column:quantity;not null;default:1"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
