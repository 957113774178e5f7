package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderGroupService is one line item within a group. UnitPrice and TotalPrice
// are snapshots fixed at order creation; they are never re-read from the
// catalog.
type OrderGroupService struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderGroupID uuid.UUID       `gorm:"column:order_group_id;type:uuid;not null;index"`
	ServiceID    uuid.UUID       `gorm:"column:service_id;type:uuid;not null"`
	Name         string          `gorm:"column:name;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
