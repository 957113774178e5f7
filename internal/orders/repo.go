package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
	"github.com/portside-hq/portside-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository binds a Repository to the provided GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// CreateOrder inserts the parent order row.
func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateGroups bulk-inserts the per-agency group rows.
func (r *repository) CreateGroups(ctx context.Context, groups []models.OrderGroup) error {
	if len(groups) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&groups).Error
}

// CreateGroupServices bulk-inserts line items.
func (r *repository) CreateGroupServices(ctx context.Context, services []models.OrderGroupService) error {
	if len(services) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&services).Error
}

// UpdateOrderTotal sets the computed total on the parent row.
func (r *repository) UpdateOrderTotal(ctx context.Context, orderID uuid.UUID, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("total_amount", total).Error
}

// FindOrderByID loads an order with groups and line items preloaded.
func (r *repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Groups", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_groups.group_number ASC")
		}).
		Preload("Groups.Services").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByPlacingOrganization pages through an organization's orders,
// newest first, optionally filtered by status.
func (r *repository) ListOrdersByPlacingOrganization(ctx context.Context, organizationID uuid.UUID, status *enums.OrderStatus, params pagination.Params) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Where("placed_by_organization_id = ?", organizationID)
	return r.pageOrders(query, status, params)
}

// ListAllOrders pages through every organization's orders, newest first,
// optionally filtered by status.
func (r *repository) ListAllOrders(ctx context.Context, status *enums.OrderStatus, params pagination.Params) ([]models.Order, error) {
	return r.pageOrders(r.db.WithContext(ctx), status, params)
}

func (r *repository) pageOrders(query *gorm.DB, status *enums.OrderStatus, params pagination.Params) ([]models.Order, error) {
	limit := pagination.Clamp(params.Limit)
	query = query.
		Preload("Groups").
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if ts, id, ok := pagination.DecodeCursor(params.Cursor); ok {
		query = query.Where("(created_at, id) < (?, ?)", ts, id)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindGroupByID loads a group with its line items preloaded.
func (r *repository) FindGroupByID(ctx context.Context, id uuid.UUID) (*models.OrderGroup, error) {
	var group models.OrderGroup
	err := r.db.WithContext(ctx).
		Preload("Services").
		First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroupsByFulfillingOrganization pages through an agency's inbound
// groups, newest first, optionally filtered by status.
func (r *repository) ListGroupsByFulfillingOrganization(ctx context.Context, organizationID uuid.UUID, status *enums.OrderGroupStatus, params pagination.Params) ([]models.OrderGroup, error) {
	limit := pagination.Clamp(params.Limit)
	query := r.db.WithContext(ctx).
		Preload("Services").
		Where("fulfilling_organization_id = ?", organizationID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if ts, id, ok := pagination.DecodeCursor(params.Cursor); ok {
		query = query.Where("(created_at, id) < (?, ?)", ts, id)
	}

	var groups []models.OrderGroup
	if err := query.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// ListSiblingGroupStatuses reads the statuses of every group under an order.
// The aggregation engine recomputes from this full set on every transition.
func (r *repository) ListSiblingGroupStatuses(ctx context.Context, orderID uuid.UUID) ([]enums.OrderGroupStatus, error) {
	var statuses []enums.OrderGroupStatus
	err := r.db.WithContext(ctx).
		Model(&models.OrderGroup{}).
		Where("order_id = ?", orderID).
		Order("group_number ASC").
		Pluck("status", &statuses).Error
	return statuses, err
}

// UpdateGroup applies the transition columns to a group row, guarded by the
// status the caller observed. A zero count means a concurrent transition got
// there first.
func (r *repository) UpdateGroup(ctx context.Context, groupID uuid.UUID, from enums.OrderGroupStatus, updates map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderGroup{}).
		Where("id = ? AND status = ?", groupID, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateOrderStatus writes the aggregate status on the parent order.
func (r *repository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}
