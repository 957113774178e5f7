package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
)

// Repository exposes membership persistence operations.
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

// CreateMembership persists a new membership record.
func (r *Repository) CreateMembership(ctx context.Context, organizationID, userID uuid.UUID, role enums.MemberRole) (*models.Membership, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}

	membership := &models.Membership{
		OrganizationID: organizationID,
		UserID:         userID,
		Role:           role,
	}

	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// GetMembership retrieves a membership by user and organization.
func (r *Repository) GetMembership(ctx context.Context, userID, organizationID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListUserOrganizations returns organizations a user belongs to with membership metadata.
func (r *Repository) ListUserOrganizations(ctx context.Context, userID uuid.UUID) ([]MembershipWithOrganization, error) {
	var rows []MembershipWithOrganization

	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select("memberships.id, memberships.user_id, memberships.organization_id, memberships.role, organizations.name AS organization_name, organizations.type AS organization_type").
		Joins("JOIN organizations ON organizations.id = memberships.organization_id").
		Where("memberships.user_id = ?", userID).
		Order("organizations.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UserHasRole reports whether the user holds one of the provided roles in the organization.
func (r *Repository) UserHasRole(ctx context.Context, userID, organizationID uuid.UUID, roles ...enums.MemberRole) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND organization_id = ? AND role IN ?", userID, organizationID, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
