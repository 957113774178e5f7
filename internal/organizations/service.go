package organizations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
)

// Service wraps organization reads with typed errors.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OrganizationDTO, error)
	ListAgencies(ctx context.Context) ([]OrganizationDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds the organizations service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("organizations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*OrganizationDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization id required")
	}
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load organization")
	}
	dto := FromModel(org)
	return dto, nil
}

func (s *service) ListAgencies(ctx context.Context) ([]OrganizationDTO, error) {
	orgs, err := s.repo.ListByType(ctx, enums.OrganizationTypeShippingAgency)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list agencies")
	}
	dtos := make([]OrganizationDTO, 0, len(orgs))
	for i := range orgs {
		dtos = append(dtos, *FromModel(&orgs[i]))
	}
	return dtos, nil
}

// OrganizationDTO is the transport shape for organizations.
type OrganizationDTO struct {
	ID           uuid.UUID              `json:"id"`
	Type         enums.OrganizationType `json:"type"`
	Name         string                 `json:"name"`
	ContactEmail string                 `json:"contact_email"`
	Phone        *string                `json:"phone,omitempty"`
	Country      *string                `json:"country,omitempty"`
}

func FromModel(o *models.Organization) *OrganizationDTO {
	if o == nil {
		return nil
	}
	return &OrganizationDTO{
		ID:           o.ID,
		Type:         o.Type,
		Name:         o.Name,
		ContactEmail: o.ContactEmail,
		Phone:        o.Phone,
		Country:      o.Country,
	}
}
