package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/pkg/db"
	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
)

// Service defines the catalog behavior needed by the controllers.
type Service interface {
	ListPorts(ctx context.Context, search string) ([]PortDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)

	CreateVessel(ctx context.Context, organizationID uuid.UUID, req CreateVesselRequest) (*VesselDTO, error)
	ListVessels(ctx context.Context, organizationID uuid.UUID) ([]VesselDTO, error)

	CreateOffering(ctx context.Context, organizationID uuid.UUID, req CreateServiceRequest) (*ServiceDTO, error)
	UpdateOfferingStatus(ctx context.Context, organizationID, serviceID uuid.UUID, req UpdateServiceStatusRequest) (*ServiceDTO, error)
	ListOwnOfferings(ctx context.Context, organizationID uuid.UUID) ([]ServiceDTO, error)
	ListOfferingsForSubCategories(ctx context.Context, subCategoryIDs []uuid.UUID) ([]ServiceDTO, error)
}

type catalogRepository interface {
	ListPorts(ctx context.Context, search string) ([]models.Port, error)
	ListCategories(ctx context.Context) ([]models.ServiceCategory, error)
	FindSubCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServiceSubCategory, error)
	CreateVessel(ctx context.Context, vessel *models.Vessel) (*models.Vessel, error)
	ListVesselsByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Vessel, error)
	CreateService(ctx context.Context, service *models.Service) (*models.Service, error)
	UpdateServiceStatus(ctx context.Context, id uuid.UUID, status enums.ServiceStatus) (int64, error)
	FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	ListServicesByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Service, error)
	ListActiveServicesBySubCategories(ctx context.Context, subCategoryIDs []uuid.UUID) ([]models.Service, error)
}

type service struct {
	repo catalogRepository
}

// NewService constructs the catalog service.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListPorts(ctx context.Context, search string) ([]PortDTO, error) {
	ports, err := s.repo.ListPorts(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list ports")
	}
	dtos := make([]PortDTO, 0, len(ports))
	for i := range ports {
		dtos = append(dtos, portFromModel(&ports[i]))
	}
	return dtos, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, categoryFromModel(&categories[i]))
	}
	return dtos, nil
}

func (s *service) CreateVessel(ctx context.Context, organizationID uuid.UUID, req CreateVesselRequest) (*VesselDTO, error) {
	if organizationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing")
	}
	imo := strings.TrimSpace(req.IMONumber)
	if imo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "imo_number is required")
	}

	vessel, err := s.repo.CreateVessel(ctx, &models.Vessel{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(req.Name),
		IMONumber:      imo,
		Flag:           req.Flag,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "ux_vessels_imo_number") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "imo number already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create vessel")
	}
	dto := vesselFromModel(vessel)
	return &dto, nil
}

func (s *service) ListVessels(ctx context.Context, organizationID uuid.UUID) ([]VesselDTO, error) {
	if organizationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing")
	}
	vessels, err := s.repo.ListVesselsByOrganization(ctx, organizationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vessels")
	}
	dtos := make([]VesselDTO, 0, len(vessels))
	for i := range vessels {
		dtos = append(dtos, vesselFromModel(&vessels[i]))
	}
	return dtos, nil
}

func (s *service) CreateOffering(ctx context.Context, organizationID uuid.UUID, req CreateServiceRequest) (*ServiceDTO, error) {
	if organizationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	subs, err := s.repo.FindSubCategoriesByIDs(ctx, []uuid.UUID{req.SubCategoryID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sub-category")
	}
	if len(subs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sub_category_id")
	}

	offering, err := s.repo.CreateService(ctx, &models.Service{
		OrganizationID: organizationID,
		SubCategoryID:  req.SubCategoryID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Price:          req.Price,
		Status:         enums.ServiceStatusActive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create service")
	}
	dto := serviceFromModel(offering)
	return &dto, nil
}

func (s *service) UpdateOfferingStatus(ctx context.Context, organizationID, serviceID uuid.UUID, req UpdateServiceStatusRequest) (*ServiceDTO, error) {
	if !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid service status")
	}

	existing, err := s.repo.FindServiceByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load service")
	}
	if existing.OrganizationID != organizationID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "service belongs to another organization")
	}

	if _, err := s.repo.UpdateServiceStatus(ctx, serviceID, req.Status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update service status")
	}
	existing.Status = req.Status
	dto := serviceFromModel(existing)
	return &dto, nil
}

func (s *service) ListOwnOfferings(ctx context.Context, organizationID uuid.UUID) ([]ServiceDTO, error) {
	if organizationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing")
	}
	services, err := s.repo.ListServicesByOrganization(ctx, organizationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list services")
	}
	dtos := make([]ServiceDTO, 0, len(services))
	for i := range services {
		dtos = append(dtos, serviceFromModel(&services[i]))
	}
	return dtos, nil
}

func (s *service) ListOfferingsForSubCategories(ctx context.Context, subCategoryIDs []uuid.UUID) ([]ServiceDTO, error) {
	if len(subCategoryIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one sub_category_id is required")
	}
	services, err := s.repo.ListActiveServicesBySubCategories(ctx, subCategoryIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list active services")
	}
	dtos := make([]ServiceDTO, 0, len(services))
	for i := range services {
		dtos = append(dtos, serviceFromModel(&services[i]))
	}
	return dtos, nil
}
