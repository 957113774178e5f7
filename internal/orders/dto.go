package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
)

// CompleteSessionRequest carries the optional notes attached when a wizard
// session is submitted.
type CompleteSessionRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// GroupDecisionRequest is the payload for accepting or rejecting a group.
// RejectionReason is required on reject and ignored on accept.
type GroupDecisionRequest struct {
	ResponseNotes   *string `json:"response_notes,omitempty" validate:"omitempty,max=2000"`
	RejectionReason *string `json:"rejection_reason,omitempty" validate:"omitempty,max=2000"`
}

// OrderGroupServiceDTO is one snapshotted line item.
type OrderGroupServiceDTO struct {
	ID         uuid.UUID       `json:"id"`
	ServiceID  uuid.UUID       `json:"service_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderGroupDTO is the per-agency slice of an order.
type OrderGroupDTO struct {
	ID                       uuid.UUID              `json:"id"`
	OrderID                  uuid.UUID              `json:"order_id"`
	GroupNumber              string                 `json:"group_number"`
	FulfillingOrganizationID uuid.UUID              `json:"fulfilling_organization_id"`
	Status                   enums.OrderGroupStatus `json:"status"`
	SubtotalAmount           decimal.Decimal        `json:"subtotal_amount"`
	Notes                    *string                `json:"notes,omitempty"`
	ResponseNotes            *string                `json:"response_notes,omitempty"`
	RejectionReason          *string                `json:"rejection_reason,omitempty"`
	AcceptedAt               *time.Time             `json:"accepted_at,omitempty"`
	AcceptedByUserID         *uuid.UUID             `json:"accepted_by_user_id,omitempty"`
	RejectedAt               *time.Time             `json:"rejected_at,omitempty"`
	StartedAt                *time.Time             `json:"started_at,omitempty"`
	CompletedAt              *time.Time             `json:"completed_at,omitempty"`
	Services                 []OrderGroupServiceDTO `json:"services"`
	CreatedAt                time.Time              `json:"created_at"`
}

// OrderDTO is the transport shape for orders.
type OrderDTO struct {
	ID                     uuid.UUID         `json:"id"`
	OrderNumber            string            `json:"order_number"`
	VesselID               uuid.UUID         `json:"vessel_id"`
	PortID                 uuid.UUID         `json:"port_id"`
	PlacedByUserID         uuid.UUID         `json:"placed_by_user_id"`
	PlacedByOrganizationID uuid.UUID         `json:"placed_by_organization_id"`
	WizardSessionID        *uuid.UUID        `json:"wizard_session_id,omitempty"`
	Status                 enums.OrderStatus `json:"status"`
	Notes                  *string           `json:"notes,omitempty"`
	TotalAmount            decimal.Decimal   `json:"total_amount"`
	Groups                 []OrderGroupDTO   `json:"groups"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

func groupServiceFromModel(s *models.OrderGroupService) OrderGroupServiceDTO {
	return OrderGroupServiceDTO{
		ID:         s.ID,
		ServiceID:  s.ServiceID,
		Name:       s.Name,
		Quantity:   s.Quantity,
		UnitPrice:  s.UnitPrice,
		TotalPrice: s.TotalPrice,
	}
}

func groupFromModel(g *models.OrderGroup) OrderGroupDTO {
	services := make([]OrderGroupServiceDTO, 0, len(g.Services))
	for i := range g.Services {
		services = append(services, groupServiceFromModel(&g.Services[i]))
	}
	return OrderGroupDTO{
		ID:                       g.ID,
		OrderID:                  g.OrderID,
		GroupNumber:              g.GroupNumber,
		FulfillingOrganizationID: g.FulfillingOrganizationID,
		Status:                   g.Status,
		SubtotalAmount:           g.SubtotalAmount,
		Notes:                    g.Notes,
		ResponseNotes:            g.ResponseNotes,
		RejectionReason:          g.RejectionReason,
		AcceptedAt:               g.AcceptedAt,
		AcceptedByUserID:         g.AcceptedByUserID,
		RejectedAt:               g.RejectedAt,
		StartedAt:                g.StartedAt,
		CompletedAt:              g.CompletedAt,
		Services:                 services,
		CreatedAt:                g.CreatedAt,
	}
}

func orderFromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	groups := make([]OrderGroupDTO, 0, len(o.Groups))
	for i := range o.Groups {
		groups = append(groups, groupFromModel(&o.Groups[i]))
	}
	return &OrderDTO{
		ID:                     o.ID,
		OrderNumber:            o.OrderNumber,
		VesselID:               o.VesselID,
		PortID:                 o.PortID,
		PlacedByUserID:         o.PlacedByUserID,
		PlacedByOrganizationID: o.PlacedByOrganizationID,
		WizardSessionID:        o.WizardSessionID,
		Status:                 o.Status,
		Notes:                  o.Notes,
		TotalAmount:            o.TotalAmount,
		Groups:                 groups,
		CreatedAt:              o.CreatedAt,
		UpdatedAt:              o.UpdatedAt,
	}
}
