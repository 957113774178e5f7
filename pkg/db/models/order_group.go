package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/portside-hq/portside-backend/pkg/enums"
)

// OrderGroup is the slice of an order assigned to one fulfilling agency; the
// unit of accept/reject/fulfillment. Lifetime is bound to the parent order.
type OrderGroup struct {
	ID                       uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID                  uuid.UUID              `gorm:"column:order_id;type:uuid;not null;index"`
	GroupNumber              string                 `gorm:"column:group_number;not null;uniqueIndex:ux_order_groups_group_number"`
	FulfillingOrganizationID uuid.UUID              `gorm:"column:fulfilling_organization_id;type:uuid;not null;index"`
	Status                   enums.OrderGroupStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	SubtotalAmount           decimal.Decimal        `gorm:"column:subtotal_amount;type:numeric(12,2);not null"`
	Notes                    *string                `gorm:"column:notes"`
	ResponseNotes            *string                `gorm:"column:response_notes"`
	RejectionReason          *string                `gorm:"column:rejection_reason"`
	AcceptedAt               *time.Time             `gorm:"column:accepted_at"`
	AcceptedByUserID         *uuid.UUID             `gorm:"column:accepted_by_user_id;type:uuid"`
	RejectedAt               *time.Time             `gorm:"column:rejected_at"`
	StartedAt                *time.Time             `gorm:"column:started_at"`
	CompletedAt              *time.Time             `gorm:"column:completed_at"`
	Services                 []OrderGroupService    `gorm:"foreignKey:OrderGroupID;constraint:OnDelete:CASCADE"`
	CreatedAt                time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
