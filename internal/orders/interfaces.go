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

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateGroups(ctx context.Context, groups []models.OrderGroup) error
	CreateGroupServices(ctx context.Context, services []models.OrderGroupService) error
	UpdateOrderTotal(ctx context.Context, orderID uuid.UUID, total decimal.Decimal) error
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByPlacingOrganization(ctx context.Context, organizationID uuid.UUID, status *enums.OrderStatus, params pagination.Params) ([]models.Order, error)
	ListAllOrders(ctx context.Context, status *enums.OrderStatus, params pagination.Params) ([]models.Order, error)
	FindGroupByID(ctx context.Context, id uuid.UUID) (*models.OrderGroup, error)
	ListGroupsByFulfillingOrganization(ctx context.Context, organizationID uuid.UUID, status *enums.OrderGroupStatus, params pagination.Params) ([]models.OrderGroup, error)
	ListSiblingGroupStatuses(ctx context.Context, orderID uuid.UUID) ([]enums.OrderGroupStatus, error)
	UpdateGroup(ctx context.Context, groupID uuid.UUID, from enums.OrderGroupStatus, updates map[string]any) (bool, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}
