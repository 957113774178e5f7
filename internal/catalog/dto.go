package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
)

// PortDTO is the transport shape for ports.
type PortDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Unlocode string    `json:"unlocode"`
	Country  string    `json:"country"`
}

// VesselDTO is the transport shape for vessels.
type VesselDTO struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	IMONumber      string    `json:"imo_number"`
	Flag           *string   `json:"flag,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateVesselRequest is the payload for registering a vessel.
type CreateVesselRequest struct {
	Name      string  `json:"name" validate:"required"`
	IMONumber string  `json:"imo_number" validate:"required"`
	Flag      *string `json:"flag,omitempty"`
}

// SubCategoryDTO nests under CategoryDTO.
type SubCategoryDTO struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

// CategoryDTO is the transport shape for the service taxonomy.
type CategoryDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	SubCategories []SubCategoryDTO `json:"sub_categories"`
}

// ServiceDTO is the transport shape for agency service offerings.
type ServiceDTO struct {
	ID             uuid.UUID           `json:"id"`
	OrganizationID uuid.UUID           `json:"organization_id"`
	SubCategoryID  uuid.UUID           `json:"sub_category_id"`
	Name           string              `json:"name"`
	Description    *string             `json:"description,omitempty"`
	Price          decimal.Decimal     `json:"price"`
	Status         enums.ServiceStatus `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
}

// CreateServiceRequest is the payload for publishing a service offering.
type CreateServiceRequest struct {
	SubCategoryID uuid.UUID       `json:"sub_category_id" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price" validate:"required"`
}

// UpdateServiceStatusRequest toggles a service offering's availability.
type UpdateServiceStatusRequest struct {
	Status enums.ServiceStatus `json:"status" validate:"required"`
}

func portFromModel(p *models.Port) PortDTO {
	return PortDTO{
		ID:       p.ID,
		Name:     p.Name,
		Unlocode: p.Unlocode,
		Country:  p.Country,
	}
}

func vesselFromModel(v *models.Vessel) VesselDTO {
	return VesselDTO{
		ID:             v.ID,
		OrganizationID: v.OrganizationID,
		Name:           v.Name,
		IMONumber:      v.IMONumber,
		Flag:           v.Flag,
		CreatedAt:      v.CreatedAt,
	}
}

func categoryFromModel(c *models.ServiceCategory) CategoryDTO {
	subs := make([]SubCategoryDTO, 0, len(c.SubCategories))
	for _, sub := range c.SubCategories {
		subs = append(subs, SubCategoryDTO{
			ID:         sub.ID,
			CategoryID: sub.CategoryID,
			Name:       sub.Name,
		})
	}
	return CategoryDTO{
		ID:            c.ID,
		Name:          c.Name,
		SubCategories: subs,
	}
}

func serviceFromModel(s *models.Service) ServiceDTO {
	return ServiceDTO{
		ID:             s.ID,
		OrganizationID: s.OrganizationID,
		SubCategoryID:  s.SubCategoryID,
		Name:           s.Name,
		Description:    s.Description,
		Price:          s.Price,
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
	}
}
