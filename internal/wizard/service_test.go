package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/internal/orders"
	"github.com/portside-hq/portside-backend/pkg/config"
	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
)

func TestStartReplacesExistingDraft(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()

	first, err := fixture.svc.Start(context.Background(), userID, orgID, StartSessionRequest{Name: "Rotterdam call"})
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := fixture.svc.Start(context.Background(), userID, orgID, StartSessionRequest{})
	if err != nil {
		t.Fatalf("second start: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("expected a fresh session on restart")
	}
	if _, ok := fixture.repo.sessions[first.ID]; ok {
		t.Fatalf("expected prior draft to be removed")
	}
	if second.CurrentStep != enums.WizardStepVesselPort {
		t.Fatalf("expected vessel_port step, got %s", second.CurrentStep)
	}
	if second.Status != enums.WizardSessionStatusDraft {
		t.Fatalf("expected draft status, got %s", second.Status)
	}
}

func TestSetVesselAndPortRejectsForeignVessel(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.mustStart(t, userID, orgID)

	vesselID := fixture.addVessel(uuid.New())
	portID := fixture.addPort()

	_, err := fixture.svc.SetVesselAndPort(context.Background(), userID, orgID, session.ID, SetVesselPortRequest{
		VesselID: vesselID,
		PortID:   portID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error for foreign vessel, got %v", err)
	}
}

func TestSetVesselAndPortAdvancesToCategories(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.mustStart(t, userID, orgID)

	vesselID := fixture.addVessel(orgID)
	portID := fixture.addPort()

	updated, err := fixture.svc.SetVesselAndPort(context.Background(), userID, orgID, session.ID, SetVesselPortRequest{
		VesselID: vesselID,
		PortID:   portID,
	})
	if err != nil {
		t.Fatalf("set vessel and port: %v", err)
	}
	if updated.CurrentStep != enums.WizardStepCategories {
		t.Fatalf("expected categories step, got %s", updated.CurrentStep)
	}
	if updated.VesselID == nil || *updated.VesselID != vesselID {
		t.Fatalf("expected vessel to be stored")
	}
}

func TestSetCategoriesRequiresVesselStep(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.mustStart(t, userID, orgID)

	_, err := fixture.svc.SetCategories(context.Background(), userID, orgID, session.ID, SetCategoriesRequest{
		SubCategoryIDs: []uuid.UUID{uuid.New()},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected previous-step validation error, got %v", err)
	}
}

func TestSetCategoriesRejectsUnknownSubCategory(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.startAtCategories(t, userID, orgID)

	_, err := fixture.svc.SetCategories(context.Background(), userID, orgID, session.ID, SetCategoriesRequest{
		SubCategoryIDs: []uuid.UUID{uuid.New()},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetCategoriesReplacesPriorSelections(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.startAtCategories(t, userID, orgID)

	subA := fixture.addSubCategory()
	subB := fixture.addSubCategory()

	first, err := fixture.svc.SetCategories(context.Background(), userID, orgID, session.ID, SetCategoriesRequest{
		SubCategoryIDs: []uuid.UUID{subA},
	})
	if err != nil {
		t.Fatalf("first categories: %v", err)
	}
	if len(first.CategorySelections) != 1 || first.CategorySelections[0].SubCategoryID != subA {
		t.Fatalf("unexpected first selections: %+v", first.CategorySelections)
	}

	second, err := fixture.svc.SetCategories(context.Background(), userID, orgID, session.ID, SetCategoriesRequest{
		SubCategoryIDs: []uuid.UUID{subB},
	})
	if err != nil {
		t.Fatalf("second categories: %v", err)
	}
	if len(second.CategorySelections) != 1 || second.CategorySelections[0].SubCategoryID != subB {
		t.Fatalf("expected replacement, got %+v", second.CategorySelections)
	}
	if second.CurrentStep != enums.WizardStepServices {
		t.Fatalf("expected services step, got %s", second.CurrentStep)
	}
}

func TestSetServicesRejectsServiceOutsideSelectedCategories(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.startAtServices(t, userID, orgID)

	strayServiceID := fixture.addService(uuid.New(), fixture.addSubCategory(), "100.00")

	_, err := fixture.svc.SetServices(context.Background(), userID, orgID, session.ID, SetServicesRequest{
		Selections: []ServiceSelectionInput{{ServiceID: strayServiceID}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetServicesSnapshotsPriceAndOrganization(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.startAtServices(t, userID, orgID)

	agencyID := uuid.New()
	serviceID := fixture.addService(agencyID, fixture.selectedSubCategory, "250.00")

	updated, err := fixture.svc.SetServices(context.Background(), userID, orgID, session.ID, SetServicesRequest{
		Selections: []ServiceSelectionInput{{ServiceID: serviceID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("set services: %v", err)
	}
	if updated.CurrentStep != enums.WizardStepReview {
		t.Fatalf("expected review step, got %s", updated.CurrentStep)
	}
	if len(updated.ServiceSelections) != 1 {
		t.Fatalf("expected one selection, got %d", len(updated.ServiceSelections))
	}
	sel := updated.ServiceSelections[0]
	if sel.OrganizationID != agencyID {
		t.Fatalf("expected fulfilling organization snapshot")
	}
	if sel.UnitPrice.String() != "250" {
		t.Fatalf("expected price snapshot 250, got %s", sel.UnitPrice)
	}
	if sel.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", sel.Quantity)
	}

	// Raising the catalog price later must not touch the stored snapshot.
	fixture.catalog.services[serviceID].Price = decimal.RequireFromString("999.00")
	reloaded, err := fixture.svc.GetByID(context.Background(), userID, orgID, session.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.ServiceSelections[0].UnitPrice.String() != "250" {
		t.Fatalf("price snapshot changed after catalog update")
	}
}

func TestExpiredSessionReadsAsNotFound(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.mustStart(t, userID, orgID)

	fixture.repo.sessions[session.ID].ExpiresAt = time.Now().Add(-time.Minute)

	_, err := fixture.svc.GetByID(context.Background(), userID, orgID, session.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for expired session, got %v", err)
	}
}

func TestSessionIsScopedToOwner(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.mustStart(t, userID, orgID)

	_, err := fixture.svc.GetByID(context.Background(), uuid.New(), orgID, session.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}
}

func TestCompleteRequiresReviewStep(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.startAtCategories(t, userID, orgID)

	_, err := fixture.svc.Complete(context.Background(), userID, orgID, session.ID, orders.CompleteSessionRequest{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected previous-step validation error, got %v", err)
	}
	if fixture.orders.calls != 0 {
		t.Fatalf("decomposition must not run for a non-review session")
	}
}

func TestCompleteDelegatesToDecomposition(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.startAtReview(t, userID, orgID)

	order, err := fixture.svc.Complete(context.Background(), userID, orgID, session.ID, orders.CompleteSessionRequest{})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if fixture.orders.calls != 1 {
		t.Fatalf("expected one decomposition call, got %d", fixture.orders.calls)
	}
	if order == nil || order.OrderNumber == "" {
		t.Fatalf("expected created order, got %+v", order)
	}
}

func TestCancelDeletesDraft(t *testing.T) {
	t.Parallel()

	fixture := newWizardFixture(t)
	userID := uuid.New()
	orgID := uuid.New()
	session := fixture.mustStart(t, userID, orgID)

	if err := fixture.svc.Cancel(context.Background(), userID, orgID, session.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, ok := fixture.repo.sessions[session.ID]; ok {
		t.Fatalf("expected session row to be deleted")
	}
}

// --- fixture ---

type wizardFixture struct {
	svc     Service
	repo    *stubWizardRepo
	catalog *stubCatalogReader
	orders  *stubOrderCreator

	selectedSubCategory uuid.UUID
}

func newWizardFixture(t *testing.T) *wizardFixture {
	t.Helper()
	repo := newStubWizardRepo()
	catalog := newStubCatalogReader()
	creator := &stubOrderCreator{}
	svc, err := NewService(ServiceParams{
		Repo:         repo,
		Catalog:      catalog,
		OrderCreator: creator,
		Config:       config.WizardConfig{SessionTTL: 72 * time.Hour},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &wizardFixture{svc: svc, repo: repo, catalog: catalog, orders: creator}
}

func (f *wizardFixture) mustStart(t *testing.T, userID, orgID uuid.UUID) *SessionDTO {
	t.Helper()
	session, err := f.svc.Start(context.Background(), userID, orgID, StartSessionRequest{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return session
}

func (f *wizardFixture) startAtCategories(t *testing.T, userID, orgID uuid.UUID) *SessionDTO {
	t.Helper()
	session := f.mustStart(t, userID, orgID)
	vesselID := f.addVessel(orgID)
	portID := f.addPort()
	updated, err := f.svc.SetVesselAndPort(context.Background(), userID, orgID, session.ID, SetVesselPortRequest{
		VesselID: vesselID,
		PortID:   portID,
	})
	if err != nil {
		t.Fatalf("set vessel and port: %v", err)
	}
	return updated
}

func (f *wizardFixture) startAtServices(t *testing.T, userID, orgID uuid.UUID) *SessionDTO {
	t.Helper()
	session := f.startAtCategories(t, userID, orgID)
	f.selectedSubCategory = f.addSubCategory()
	updated, err := f.svc.SetCategories(context.Background(), userID, orgID, session.ID, SetCategoriesRequest{
		SubCategoryIDs: []uuid.UUID{f.selectedSubCategory},
	})
	if err != nil {
		t.Fatalf("set categories: %v", err)
	}
	return updated
}

func (f *wizardFixture) startAtReview(t *testing.T, userID, orgID uuid.UUID) *SessionDTO {
	t.Helper()
	session := f.startAtServices(t, userID, orgID)
	serviceID := f.addService(uuid.New(), f.selectedSubCategory, "100.00")
	updated, err := f.svc.SetServices(context.Background(), userID, orgID, session.ID, SetServicesRequest{
		Selections: []ServiceSelectionInput{{ServiceID: serviceID}},
	})
	if err != nil {
		t.Fatalf("set services: %v", err)
	}
	return updated
}

func (f *wizardFixture) addVessel(orgID uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.catalog.vessels[id] = &models.Vessel{ID: id, OrganizationID: orgID, Name: "MV Test"}
	return id
}

func (f *wizardFixture) addPort() uuid.UUID {
	id := uuid.New()
	f.catalog.ports[id] = &models.Port{ID: id, Name: "Rotterdam", Unlocode: "NLRTM"}
	return id
}

func (f *wizardFixture) addSubCategory() uuid.UUID {
	id := uuid.New()
	f.catalog.subCategories[id] = &models.ServiceSubCategory{ID: id, CategoryID: uuid.New()}
	return id
}

func (f *wizardFixture) addService(orgID, subCategoryID uuid.UUID, price string) uuid.UUID {
	id := uuid.New()
	f.catalog.services[id] = &models.Service{
		ID:             id,
		OrganizationID: orgID,
		SubCategoryID:  subCategoryID,
		Name:           "Test service",
		Price:          decimal.RequireFromString(price),
		Status:         enums.ServiceStatusActive,
	}
	return id
}

// --- stubs ---

type stubWizardRepo struct {
	sessions map[uuid.UUID]*models.WizardSession
}

func newStubWizardRepo() *stubWizardRepo {
	return &stubWizardRepo{sessions: map[uuid.UUID]*models.WizardSession{}}
}

func (s *stubWizardRepo) Create(ctx context.Context, session *models.WizardSession) (*models.WizardSession, error) {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	s.sessions[session.ID] = session
	return session, nil
}

func (s *stubWizardRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.WizardSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *stubWizardRepo) FindActiveDraft(ctx context.Context, userID, organizationID uuid.UUID, now time.Time) (*models.WizardSession, error) {
	for _, session := range s.sessions {
		if session.UserID == userID && session.OrganizationID == organizationID &&
			session.Status == enums.WizardSessionStatusDraft && session.ExpiresAt.After(now) {
			copied := *session
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubWizardRepo) DeleteDrafts(ctx context.Context, userID, organizationID uuid.UUID) error {
	for id, session := range s.sessions {
		if session.UserID == userID && session.OrganizationID == organizationID &&
			session.Status == enums.WizardSessionStatusDraft {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *stubWizardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.sessions, id)
	return nil
}

func (s *stubWizardRepo) UpdateVesselAndPort(ctx context.Context, sessionID, vesselID, portID uuid.UUID, step enums.WizardStep) error {
	session, ok := s.sessions[sessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	session.VesselID = &vesselID
	session.PortID = &portID
	session.CurrentStep = step
	return nil
}

func (s *stubWizardRepo) ReplaceCategorySelections(ctx context.Context, sessionID uuid.UUID, selections []models.WizardCategorySelection, step enums.WizardStep) error {
	session, ok := s.sessions[sessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	session.CategorySelections = selections
	session.CurrentStep = step
	return nil
}

func (s *stubWizardRepo) ReplaceServiceSelections(ctx context.Context, sessionID uuid.UUID, selections []models.WizardServiceSelection, step enums.WizardStep) error {
	session, ok := s.sessions[sessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	session.ServiceSelections = selections
	session.CurrentStep = step
	return nil
}

type stubCatalogReader struct {
	vessels       map[uuid.UUID]*models.Vessel
	ports         map[uuid.UUID]*models.Port
	subCategories map[uuid.UUID]*models.ServiceSubCategory
	services      map[uuid.UUID]*models.Service
}

func newStubCatalogReader() *stubCatalogReader {
	return &stubCatalogReader{
		vessels:       map[uuid.UUID]*models.Vessel{},
		ports:         map[uuid.UUID]*models.Port{},
		subCategories: map[uuid.UUID]*models.ServiceSubCategory{},
		services:      map[uuid.UUID]*models.Service{},
	}
}

func (s *stubCatalogReader) FindVesselByID(ctx context.Context, id uuid.UUID) (*models.Vessel, error) {
	if vessel, ok := s.vessels[id]; ok {
		return vessel, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogReader) FindPortByID(ctx context.Context, id uuid.UUID) (*models.Port, error) {
	if port, ok := s.ports[id]; ok {
		return port, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogReader) FindSubCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServiceSubCategory, error) {
	var out []models.ServiceSubCategory
	for _, id := range ids {
		if sub, ok := s.subCategories[id]; ok {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (s *stubCatalogReader) FindActiveServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Service, error) {
	var out []models.Service
	for _, id := range ids {
		if svc, ok := s.services[id]; ok && svc.Status == enums.ServiceStatusActive {
			out = append(out, *svc)
		}
	}
	return out, nil
}

type stubOrderCreator struct {
	calls int
}

func (s *stubOrderCreator) CreateFromSession(ctx context.Context, session *models.WizardSession, req orders.CompleteSessionRequest) (*orders.OrderDTO, error) {
	s.calls++
	return &orders.OrderDTO{ID: uuid.New(), OrderNumber: "ORD-TEST123456"}, nil
}
