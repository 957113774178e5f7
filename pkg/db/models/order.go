package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/portside-hq/portside-backend/pkg/enums"
)

// Order is the parent request a vessel owner places against a port. Status
// is derived from the group statuses and written only by the aggregation
// engine; TotalAmount is a static snapshot of the group subtotals at
// creation time.
type Order struct {
	ID                     uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber            string            `gorm:"column:order_number;not null;uniqueIndex:ux_orders_order_number"`
	VesselID               uuid.UUID         `gorm:"column:vessel_id;type:uuid;not null"`
	PortID                 uuid.UUID         `gorm:"column:port_id;type:uuid;not null"`
	PlacedByUserID         uuid.UUID         `gorm:"column:placed_by_user_id;type:uuid;not null"`
	PlacedByOrganizationID uuid.UUID         `gorm:"column:placed_by_organization_id;type:uuid;not null;index"`
	WizardSessionID        *uuid.UUID        `gorm:"column:wizard_session_id;type:uuid"`
	Status                 enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending_agency_confirmation'"`
	Notes                  *string           `gorm:"column:notes"`
	TotalAmount            decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Groups                 []OrderGroup      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt              time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
