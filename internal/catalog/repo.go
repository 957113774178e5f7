package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
)

// Repository exposes reference-data persistence: ports, vessels, and the
// service taxonomy with agency offerings.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListPorts returns ports, optionally filtered by a name/UN LOCODE search term.
func (r *Repository) ListPorts(ctx context.Context, search string) ([]models.Port, error) {
	query := r.db.WithContext(ctx).Model(&models.Port{}).Order("name ASC")
	if term := strings.TrimSpace(search); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(unlocode) LIKE ?", pattern, pattern)
	}

	var ports []models.Port
	if err := query.Find(&ports).Error; err != nil {
		return nil, err
	}
	return ports, nil
}

// FindPortByID loads a single port.
func (r *Repository) FindPortByID(ctx context.Context, id uuid.UUID) (*models.Port, error) {
	var port models.Port
	if err := r.db.WithContext(ctx).First(&port, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &port, nil
}

// CreateVessel inserts a vessel for the owning organization.
func (r *Repository) CreateVessel(ctx context.Context, vessel *models.Vessel) (*models.Vessel, error) {
	if err := r.db.WithContext(ctx).Create(vessel).Error; err != nil {
		return nil, err
	}
	return vessel, nil
}

// ListVesselsByOrganization returns the organization's fleet ordered by name.
func (r *Repository) ListVesselsByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Vessel, error) {
	var vessels []models.Vessel
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&vessels).Error
	return vessels, err
}

// FindVesselByID loads a vessel regardless of owner. Callers enforce tenancy.
func (r *Repository) FindVesselByID(ctx context.Context, id uuid.UUID) (*models.Vessel, error) {
	var vessel models.Vessel
	if err := r.db.WithContext(ctx).First(&vessel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vessel, nil
}

// ListCategories returns the taxonomy with sub-categories preloaded.
func (r *Repository) ListCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	err := r.db.WithContext(ctx).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("service_sub_categories.name ASC")
		}).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

// FindSubCategoriesByIDs loads sub-category rows for the given ids.
func (r *Repository) FindSubCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServiceSubCategory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var subCategories []models.ServiceSubCategory
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&subCategories).Error
	return subCategories, err
}

// CreateService inserts an agency service offering.
func (r *Repository) CreateService(ctx context.Context, service *models.Service) (*models.Service, error) {
	if err := r.db.WithContext(ctx).Create(service).Error; err != nil {
		return nil, err
	}
	return service, nil
}

// UpdateServiceStatus flips a service between active and inactive.
func (r *Repository) UpdateServiceStatus(ctx context.Context, id uuid.UUID, status enums.ServiceStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// ListServicesByOrganization returns an agency's own catalog, all statuses.
func (r *Repository) ListServicesByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&services).Error
	return services, err
}

// ListActiveServicesBySubCategories returns active offerings across all
// agencies for the given sub-categories.
func (r *Repository) ListActiveServicesBySubCategories(ctx context.Context, subCategoryIDs []uuid.UUID) ([]models.Service, error) {
	if len(subCategoryIDs) == 0 {
		return nil, nil
	}
	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("sub_category_id IN ? AND status = ?", subCategoryIDs, enums.ServiceStatusActive).
		Order("name ASC").
		Find(&services).Error
	return services, err
}

// FindActiveServicesByIDs loads active services by id.
func (r *Repository) FindActiveServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, enums.ServiceStatusActive).
		Find(&services).Error
	return services, err
}

// FindServiceByID loads a service regardless of status.
func (r *Repository) FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}
