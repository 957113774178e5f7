package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
	"github.com/portside-hq/portside-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  vessel_id TEXT NOT NULL,
  port_id TEXT NOT NULL,
  placed_by_user_id TEXT NOT NULL,
  placed_by_organization_id TEXT NOT NULL,
  wizard_session_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending_agency_confirmation',
  notes TEXT,
  total_amount TEXT NOT NULL DEFAULT '0',
  created_at DATETIME,
  updated_at DATETIME
);`
	orderGroups := `
CREATE TABLE IF NOT EXISTS order_groups (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  group_number TEXT NOT NULL UNIQUE,
  fulfilling_organization_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal_amount TEXT NOT NULL DEFAULT '0',
  notes TEXT,
  response_notes TEXT,
  rejection_reason TEXT,
  accepted_at DATETIME,
  accepted_by_user_id TEXT,
  rejected_at DATETIME,
  started_at DATETIME,
  completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	groupServices := `
CREATE TABLE IF NOT EXISTS order_group_services (
  id TEXT PRIMARY KEY,
  order_group_id TEXT NOT NULL,
  service_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  total_price TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderGroups).Error)
	require.NoError(t, db.Exec(groupServices).Error)
	return db
}

func insertOrder(t *testing.T, db *gorm.DB, orgID uuid.UUID, number string, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:                     uuid.New(),
		OrderNumber:            number,
		VesselID:               uuid.New(),
		PortID:                 uuid.New(),
		PlacedByUserID:         uuid.New(),
		PlacedByOrganizationID: orgID,
		Status:                 enums.OrderStatusPendingAgencyConfirmation,
		TotalAmount:            decimal.Zero,
		CreatedAt:              created,
		UpdatedAt:              created,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func insertGroup(t *testing.T, db *gorm.DB, order *models.Order, agencyID uuid.UUID, number string, status enums.OrderGroupStatus) *models.OrderGroup {
	t.Helper()

	group := &models.OrderGroup{
		ID:                       uuid.New(),
		OrderID:                  order.ID,
		GroupNumber:              number,
		FulfillingOrganizationID: agencyID,
		Status:                   status,
		SubtotalAmount:           decimal.NewFromInt(100),
		CreatedAt:                order.CreatedAt,
		UpdatedAt:                order.CreatedAt,
	}
	require.NoError(t, db.Create(group).Error)

	item := &models.OrderGroupService{
		ID:           uuid.New(),
		OrderGroupID: group.ID,
		ServiceID:    uuid.New(),
		Name:         "Pilotage inbound",
		Quantity:     1,
		UnitPrice:    decimal.NewFromInt(100),
		TotalPrice:   decimal.NewFromInt(100),
		CreatedAt:    order.CreatedAt,
	}
	require.NoError(t, db.Create(item).Error)
	return group
}

func TestRepositoryFindOrderByIDPreloadsGroupsInOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orgID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	order := insertOrder(t, db, orgID, "ORD-AAAA000001", now)
	insertGroup(t, db, order, uuid.New(), order.OrderNumber+"-G2", enums.OrderGroupStatusPending)
	insertGroup(t, db, order, uuid.New(), order.OrderNumber+"-G1", enums.OrderGroupStatusPending)

	found, err := repo.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Groups, 2)
	assert.Equal(t, order.OrderNumber+"-G1", found.Groups[0].GroupNumber)
	assert.Equal(t, order.OrderNumber+"-G2", found.Groups[1].GroupNumber)
	require.Len(t, found.Groups[0].Services, 1)
	assert.Equal(t, "Pilotage inbound", found.Groups[0].Services[0].Name)
}

func TestRepositoryListOrdersPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orgID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second).Add(-time.Hour)
	var orders []*models.Order
	for i := 0; i < 3; i++ {
		orders = append(orders, insertOrder(t, db, orgID, "ORD-AAAA00000"+string(rune('1'+i)), base.Add(time.Duration(i)*time.Minute)))
	}
	insertOrder(t, db, uuid.New(), "ORD-ZZZZ000001", base)

	page, err := repo.ListOrdersByPlacingOrganization(ctx, orgID, nil, pagination.Params{Limit: 2})
	require.NoError(t, err)
	// limit+1 rows signal another page
	require.Len(t, page, 3)
	assert.Equal(t, orders[2].ID, page[0].ID)
	assert.Equal(t, orders[1].ID, page[1].ID)

	cursor := pagination.EncodeCursor(page[1].CreatedAt, page[1].ID.String())
	rest, err := repo.ListOrdersByPlacingOrganization(ctx, orgID, nil, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, orders[0].ID, rest[0].ID)
}

func TestRepositoryListGroupsFiltersByStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agencyID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	order := insertOrder(t, db, uuid.New(), "ORD-AAAA000001", now)
	insertGroup(t, db, order, agencyID, order.OrderNumber+"-G1", enums.OrderGroupStatusPending)
	accepted := insertGroup(t, db, order, agencyID, order.OrderNumber+"-G2", enums.OrderGroupStatusAccepted)
	insertGroup(t, db, order, uuid.New(), order.OrderNumber+"-G3", enums.OrderGroupStatusPending)

	status := enums.OrderGroupStatusAccepted
	groups, err := repo.ListGroupsByFulfillingOrganization(ctx, agencyID, &status, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, accepted.ID, groups[0].ID)

	all, err := repo.ListGroupsByFulfillingOrganization(ctx, agencyID, nil, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryUpdateGroupAndSiblingStatuses(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	order := insertOrder(t, db, uuid.New(), "ORD-AAAA000001", now)
	first := insertGroup(t, db, order, uuid.New(), order.OrderNumber+"-G1", enums.OrderGroupStatusPending)
	insertGroup(t, db, order, uuid.New(), order.OrderNumber+"-G2", enums.OrderGroupStatusPending)

	acceptedAt := now
	moved, err := repo.UpdateGroup(ctx, first.ID, enums.OrderGroupStatusPending, map[string]any{
		"status":      enums.OrderGroupStatusAccepted,
		"accepted_at": acceptedAt,
	})
	require.NoError(t, err)
	assert.True(t, moved)

	statuses, err := repo.ListSiblingGroupStatuses(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []enums.OrderGroupStatus{enums.OrderGroupStatusAccepted, enums.OrderGroupStatusPending}, statuses)

	reloaded, err := repo.FindGroupByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderGroupStatusAccepted, reloaded.Status)
	require.NotNil(t, reloaded.AcceptedAt)
}

func TestRepositoryUpdateGroupGuardsObservedStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	order := insertOrder(t, db, uuid.New(), "ORD-AAAA000003", now)
	group := insertGroup(t, db, order, uuid.New(), order.OrderNumber+"-G1", enums.OrderGroupStatusRejected)

	moved, err := repo.UpdateGroup(ctx, group.ID, enums.OrderGroupStatusPending, map[string]any{
		"status": enums.OrderGroupStatusAccepted,
	})
	require.NoError(t, err)
	assert.False(t, moved)

	reloaded, err := repo.FindGroupByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderGroupStatusRejected, reloaded.Status)
}

func TestRepositoryUpdateOrderStatusAndTotal(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := insertOrder(t, db, uuid.New(), "ORD-AAAA000001", time.Now().UTC())

	require.NoError(t, repo.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusConfirmed))
	require.NoError(t, repo.UpdateOrderTotal(ctx, order.ID, decimal.RequireFromString("1025.50")))

	reloaded, err := repo.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, reloaded.Status)
	assert.True(t, reloaded.TotalAmount.Equal(decimal.RequireFromString("1025.50")))
}
