package wizard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
)

// StartSessionRequest names the new draft.
type StartSessionRequest struct {
	Name string `json:"name" validate:"omitempty,max=200"`
}

// SetVesselPortRequest is the payload for the first wizard step.
type SetVesselPortRequest struct {
	VesselID uuid.UUID `json:"vessel_id" validate:"required"`
	PortID   uuid.UUID `json:"port_id" validate:"required"`
}

// SetCategoriesRequest replaces the chosen sub-categories.
type SetCategoriesRequest struct {
	SubCategoryIDs []uuid.UUID `json:"sub_category_ids" validate:"required,min=1,dive,required"`
}

// ServiceSelectionInput is one service line in the services step.
type ServiceSelectionInput struct {
	ServiceID uuid.UUID `json:"service_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1"`
}

// SetServicesRequest replaces the chosen services.
type SetServicesRequest struct {
	Selections []ServiceSelectionInput `json:"selections" validate:"required,min=1,dive"`
}

// CategorySelectionDTO mirrors a stored category selection.
type CategorySelectionDTO struct {
	CategoryID    uuid.UUID `json:"category_id"`
	SubCategoryID uuid.UUID `json:"sub_category_id"`
}

// ServiceSelectionDTO mirrors a stored service selection with its price snapshot.
type ServiceSelectionDTO struct {
	ServiceID      uuid.UUID       `json:"service_id"`
	CategoryID     uuid.UUID       `json:"category_id"`
	SubCategoryID  uuid.UUID       `json:"sub_category_id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	ServiceName    string          `json:"service_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
}

// SessionDTO is the transport shape for wizard sessions.
type SessionDTO struct {
	ID                 uuid.UUID                 `json:"id"`
	UserID             uuid.UUID                 `json:"user_id"`
	OrganizationID     uuid.UUID                 `json:"organization_id"`
	Name               string                    `json:"name"`
	CurrentStep        enums.WizardStep          `json:"current_step"`
	Status             enums.WizardSessionStatus `json:"status"`
	VesselID           *uuid.UUID                `json:"vessel_id,omitempty"`
	PortID             *uuid.UUID                `json:"port_id,omitempty"`
	CategorySelections []CategorySelectionDTO    `json:"category_selections"`
	ServiceSelections  []ServiceSelectionDTO     `json:"service_selections"`
	ExpiresAt          time.Time                 `json:"expires_at"`
	CompletedAt        *time.Time                `json:"completed_at,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

func sessionFromModel(s *models.WizardSession) *SessionDTO {
	if s == nil {
		return nil
	}

	categories := make([]CategorySelectionDTO, 0, len(s.CategorySelections))
	for _, sel := range s.CategorySelections {
		categories = append(categories, CategorySelectionDTO{
			CategoryID:    sel.CategoryID,
			SubCategoryID: sel.SubCategoryID,
		})
	}

	services := make([]ServiceSelectionDTO, 0, len(s.ServiceSelections))
	for _, sel := range s.ServiceSelections {
		services = append(services, ServiceSelectionDTO{
			ServiceID:      sel.ServiceID,
			CategoryID:     sel.CategoryID,
			SubCategoryID:  sel.SubCategoryID,
			OrganizationID: sel.OrganizationID,
			ServiceName:    sel.ServiceName,
			Quantity:       sel.Quantity,
			UnitPrice:      sel.UnitPrice,
		})
	}

	return &SessionDTO{
		ID:                 s.ID,
		UserID:             s.UserID,
		OrganizationID:     s.OrganizationID,
		Name:               s.Name,
		CurrentStep:        s.CurrentStep,
		Status:             s.Status,
		VesselID:           s.VesselID,
		PortID:             s.PortID,
		CategorySelections: categories,
		ServiceSelections:  services,
		ExpiresAt:          s.ExpiresAt,
		CompletedAt:        s.CompletedAt,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
