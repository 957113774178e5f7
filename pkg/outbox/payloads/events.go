package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/portside-hq/portside-backend/pkg/enums"
)

// OrderCreatedEvent signals a new order split across fulfilling agencies.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID   `json:"order_id"`
	OrderNumber   string      `json:"order_number"`
	OrderGroupIDs []uuid.UUID `json:"order_group_ids"`
	VesselID      uuid.UUID   `json:"vessel_id"`
	PortID        uuid.UUID   `json:"port_id"`
	PlacedByOrgID uuid.UUID   `json:"placed_by_organization_id"`
}

// OrderGroupDecidedEvent is emitted when an agency accepts or rejects a group.
type OrderGroupDecidedEvent struct {
	OrderGroupID    uuid.UUID              `json:"order_group_id"`
	OrderID         uuid.UUID              `json:"order_id"`
	FulfillingOrgID uuid.UUID              `json:"fulfilling_organization_id"`
	Status          enums.OrderGroupStatus `json:"status"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
}

// OrderGroupStartedEvent is emitted when fulfillment begins on a group.
type OrderGroupStartedEvent struct {
	OrderGroupID    uuid.UUID `json:"order_group_id"`
	OrderID         uuid.UUID `json:"order_id"`
	FulfillingOrgID uuid.UUID `json:"fulfilling_organization_id"`
	StartedAt       time.Time `json:"started_at"`
}

// OrderGroupCompletedEvent is emitted when a group finishes fulfillment.
type OrderGroupCompletedEvent struct {
	OrderGroupID    uuid.UUID `json:"order_group_id"`
	OrderID         uuid.UUID `json:"order_id"`
	FulfillingOrgID uuid.UUID `json:"fulfilling_organization_id"`
	CompletedAt     time.Time `json:"completed_at"`
}

// OrderStatusChangedEvent surfaces every aggregate status recomputation that
// produced a different order status.
type OrderStatusChangedEvent struct {
	OrderID        uuid.UUID         `json:"order_id"`
	OrderNumber    string            `json:"order_number"`
	PreviousStatus enums.OrderStatus `json:"previous_status"`
	Status         enums.OrderStatus `json:"status"`
	PlacedByOrgID  uuid.UUID         `json:"placed_by_organization_id"`
}

// WizardSessionSweptEvent reports an expired draft removed by the sweep job.
type WizardSessionSweptEvent struct {
	SessionID      uuid.UUID `json:"session_id"`
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	ExpiredAt      time.Time `json:"expired_at"`
}
