package wizard

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
)

func setupWizardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sessions := `
CREATE TABLE IF NOT EXISTS wizard_sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  organization_id TEXT NOT NULL,
  name TEXT NOT NULL,
  current_step TEXT NOT NULL DEFAULT 'vessel_port',
  status TEXT NOT NULL DEFAULT 'draft',
  vessel_id TEXT,
  port_id TEXT,
  expires_at DATETIME NOT NULL,
  completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	categorySelections := `
CREATE TABLE IF NOT EXISTS wizard_category_selections (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  sub_category_id TEXT NOT NULL,
  created_at DATETIME
);`
	serviceSelections := `
CREATE TABLE IF NOT EXISTS wizard_service_selections (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  service_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  sub_category_id TEXT NOT NULL,
  organization_id TEXT NOT NULL,
  service_name TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_price TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(sessions).Error)
	require.NoError(t, db.Exec(categorySelections).Error)
	require.NoError(t, db.Exec(serviceSelections).Error)
	return db
}

func insertWizardSession(t *testing.T, db *gorm.DB, step enums.WizardStep) *models.WizardSession {
	t.Helper()

	session := &models.WizardSession{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		Name:           "Port call",
		CurrentStep:    step,
		Status:         enums.WizardSessionStatusDraft,
		ExpiresAt:      time.Now().UTC().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(session).Error)
	return session
}

func insertCategorySelection(t *testing.T, db *gorm.DB, sessionID uuid.UUID) *models.WizardCategorySelection {
	t.Helper()

	selection := &models.WizardCategorySelection{
		ID:            uuid.New(),
		SessionID:     sessionID,
		CategoryID:    uuid.New(),
		SubCategoryID: uuid.New(),
	}
	require.NoError(t, db.Create(selection).Error)
	return selection
}

func TestRepositoryReplaceCategorySelectionsSwapsSet(t *testing.T) {
	db := setupWizardTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	session := insertWizardSession(t, db, enums.WizardStepCategories)
	insertCategorySelection(t, db, session.ID)

	replacement := []models.WizardCategorySelection{
		{ID: uuid.New(), SessionID: session.ID, CategoryID: uuid.New(), SubCategoryID: uuid.New()},
		{ID: uuid.New(), SessionID: session.ID, CategoryID: uuid.New(), SubCategoryID: uuid.New()},
	}
	require.NoError(t, repo.ReplaceCategorySelections(ctx, session.ID, replacement, enums.WizardStepServices))

	var selections []models.WizardCategorySelection
	require.NoError(t, db.Where("session_id = ?", session.ID).Find(&selections).Error)
	assert.Len(t, selections, 2)

	var reloaded models.WizardSession
	require.NoError(t, db.First(&reloaded, "id = ?", session.ID).Error)
	assert.Equal(t, enums.WizardStepServices, reloaded.CurrentStep)
}

func TestRepositoryReplaceCategorySelectionsRollsBackOnFailure(t *testing.T) {
	db := setupWizardTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	session := insertWizardSession(t, db, enums.WizardStepCategories)
	existing := insertCategorySelection(t, db, session.ID)

	// Duplicate primary keys make the insert fail after the delete ran.
	dup := uuid.New()
	broken := []models.WizardCategorySelection{
		{ID: dup, SessionID: session.ID, CategoryID: uuid.New(), SubCategoryID: uuid.New()},
		{ID: dup, SessionID: session.ID, CategoryID: uuid.New(), SubCategoryID: uuid.New()},
	}
	require.Error(t, repo.ReplaceCategorySelections(ctx, session.ID, broken, enums.WizardStepServices))

	var selections []models.WizardCategorySelection
	require.NoError(t, db.Where("session_id = ?", session.ID).Find(&selections).Error)
	require.Len(t, selections, 1)
	assert.Equal(t, existing.ID, selections[0].ID)

	var reloaded models.WizardSession
	require.NoError(t, db.First(&reloaded, "id = ?", session.ID).Error)
	assert.Equal(t, enums.WizardStepCategories, reloaded.CurrentStep)
}

func TestRepositoryReplaceServiceSelectionsRollsBackOnFailure(t *testing.T) {
	db := setupWizardTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	session := insertWizardSession(t, db, enums.WizardStepServices)
	existing := &models.WizardServiceSelection{
		ID:             uuid.New(),
		SessionID:      session.ID,
		ServiceID:      uuid.New(),
		CategoryID:     uuid.New(),
		SubCategoryID:  uuid.New(),
		OrganizationID: uuid.New(),
		ServiceName:    "Fresh water supply",
		Quantity:       1,
		UnitPrice:      decimal.RequireFromString("120.00"),
	}
	require.NoError(t, db.Create(existing).Error)

	dup := uuid.New()
	broken := []models.WizardServiceSelection{
		{ID: dup, SessionID: session.ID, ServiceID: uuid.New(), CategoryID: uuid.New(), SubCategoryID: uuid.New(), OrganizationID: uuid.New(), ServiceName: "Pilotage", Quantity: 1, UnitPrice: decimal.RequireFromString("80.00")},
		{ID: dup, SessionID: session.ID, ServiceID: uuid.New(), CategoryID: uuid.New(), SubCategoryID: uuid.New(), OrganizationID: uuid.New(), ServiceName: "Pilotage", Quantity: 1, UnitPrice: decimal.RequireFromString("80.00")},
	}
	require.Error(t, repo.ReplaceServiceSelections(ctx, session.ID, broken, enums.WizardStepReview))

	var selections []models.WizardServiceSelection
	require.NoError(t, db.Where("session_id = ?", session.ID).Find(&selections).Error)
	require.Len(t, selections, 1)
	assert.Equal(t, existing.ID, selections[0].ID)

	var reloaded models.WizardSession
	require.NoError(t, db.First(&reloaded, "id = ?", session.ID).Error)
	assert.Equal(t, enums.WizardStepServices, reloaded.CurrentStep)
}
