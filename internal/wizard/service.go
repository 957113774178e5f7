package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/portside-hq/portside-backend/internal/orders"
	"github.com/portside-hq/portside-backend/pkg/config"
	"github.com/portside-hq/portside-backend/pkg/db/models"
	"github.com/portside-hq/portside-backend/pkg/enums"
	pkgerrors "github.com/portside-hq/portside-backend/pkg/errors"
)

const previousStepIncompleteMessage = "previous step incomplete"

// Service drives the order wizard state machine.
type Service interface {
	Start(ctx context.Context, userID, organizationID uuid.UUID, req StartSessionRequest) (*SessionDTO, error)
	GetActive(ctx context.Context, userID, organizationID uuid.UUID) (*SessionDTO, error)
	GetByID(ctx context.Context, userID, organizationID, sessionID uuid.UUID) (*SessionDTO, error)
	SetVesselAndPort(ctx context.Context, userID, organizationID, sessionID uuid.UUID, req SetVesselPortRequest) (*SessionDTO, error)
	SetCategories(ctx context.Context, userID, organizationID, sessionID uuid.UUID, req SetCategoriesRequest) (*SessionDTO, error)
	SetServices(ctx context.Context, userID, organizationID, sessionID uuid.UUID, req SetServicesRequest) (*SessionDTO, error)
	Cancel(ctx context.Context, userID, organizationID, sessionID uuid.UUID) error
	Complete(ctx context.Context, userID, organizationID, sessionID uuid.UUID, req orders.CompleteSessionRequest) (*orders.OrderDTO, error)
}

type wizardRepository interface {
	Create(ctx context.Context, session *models.WizardSession) (*models.WizardSession, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.WizardSession, error)
	FindActiveDraft(ctx context.Context, userID, organizationID uuid.UUID, now time.Time) (*models.WizardSession, error)
	DeleteDrafts(ctx context.Context, userID, organizationID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateVesselAndPort(ctx context.Context, sessionID, vesselID, portID uuid.UUID, step enums.WizardStep) error
	ReplaceCategorySelections(ctx context.Context, sessionID uuid.UUID, selections []models.WizardCategorySelection, step enums.WizardStep) error
	ReplaceServiceSelections(ctx context.Context, sessionID uuid.UUID, selections []models.WizardServiceSelection, step enums.WizardStep) error
}

type catalogReader interface {
	FindVesselByID(ctx context.Context, id uuid.UUID) (*models.Vessel, error)
	FindPortByID(ctx context.Context, id uuid.UUID) (*models.Port, error)
	FindSubCategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ServiceSubCategory, error)
	FindActiveServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Service, error)
}

type orderCreator interface {
	CreateFromSession(ctx context.Context, session *models.WizardSession, req orders.CompleteSessionRequest) (*orders.OrderDTO, error)
}

type service struct {
	repo    wizardRepository
	catalog catalogReader
	orders  orderCreator
	cfg     config.WizardConfig
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build a wizard service.
type ServiceParams struct {
	Repo         wizardRepository
	Catalog      catalogReader
	OrderCreator orderCreator
	Config       config.WizardConfig
}

// NewService constructs the wizard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("wizard repository is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog reader is required")
	}
	if params.OrderCreator == nil {
		return nil, fmt.Errorf("order creator is required")
	}
	return &service{
		repo:    params.Repo,
		catalog: params.Catalog,
		orders:  params.OrderCreator,
		cfg:     params.Config,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Start opens a fresh draft. Any prior draft for the same user and
// organization is removed first so at most one is ever live.
func (s *service) Start(ctx context.Context, userID, organizationID uuid.UUID, req StartSessionRequest) (*SessionDTO, error) {
	if userID == uuid.Nil || organizationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing")
	}

	if err := s.repo.DeleteDrafts(ctx, userID, organizationID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove prior draft")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Port call"
	}

	now := s.now()
	session, err := s.repo.Create(ctx, &models.WizardSession{
		UserID:         userID,
		OrganizationID: organizationID,
		Name:           name,
		CurrentStep:    enums.WizardStepVesselPort,
		Status:         enums.WizardSessionStatusDraft,
		ExpiresAt:      now.Add(s.cfg.SessionTTL),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}
	return sessionFromModel(session), nil
}

func (s *service) GetActive(ctx context.Context, userID, organizationID uuid.UUID) (*SessionDTO, error) {
	session, err := s.repo.FindActiveDraft(ctx, userID, organizationID, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load active session")
	}
	return sessionFromModel(session), nil
}

func (s *service) GetByID(ctx context.Context, userID, organizationID, sessionID uuid.UUID) (*SessionDTO, error) {
	session, err := s.loadOwned(ctx, userID, organizationID, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionFromModel(session), nil
}

func (s *service) SetVesselAndPort(ctx context.Context, userID, organizationID, sessionID uuid.UUID, req SetVesselPortRequest) (*SessionDTO, error) {
	session, err := s.loadOwnedDraft(ctx, userID, organizationID, sessionID)
	if err != nil {
		return nil, err
	}

	vessel, err := s.catalog.FindVesselByID(ctx, req.VesselID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown vessel_id")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vessel")
	}
	if vessel.OrganizationID != organizationID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vessel belongs to another organization")
	}

	if _, err := s.catalog.FindPortByID(ctx, req.PortID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown port_id")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load port")
	}

	if err := s.repo.UpdateVesselAndPort(ctx, session.ID, req.VesselID, req.PortID, enums.WizardStepCategories); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store vessel and port")
	}
	return s.reload(ctx, session.ID)
}

func (s *service) SetCategories(ctx context.Context, userID, organizationID, sessionID uuid.UUID, req SetCategoriesRequest) (*SessionDTO, error) {
	session, err := s.loadOwnedDraft(ctx, userID, organizationID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.VesselID == nil || session.PortID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, previousStepIncompleteMessage)
	}

	ids := dedupeIDs(req.SubCategoryIDs)
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one sub_category_id is required")
	}

	subCategories, err := s.catalog.FindSubCategoriesByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sub-categories")
	}
	if len(subCategories) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sub_category_id")
	}

	selections := make([]models.WizardCategorySelection, 0, len(subCategories))
	for _, sub := range subCategories {
		selections = append(selections, models.WizardCategorySelection{
			SessionID:     session.ID,
			CategoryID:    sub.CategoryID,
			SubCategoryID: sub.ID,
		})
	}

	if err := s.repo.ReplaceCategorySelections(ctx, session.ID, selections, enums.WizardStepServices); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store category selections")
	}
	return s.reload(ctx, session.ID)
}

func (s *service) SetServices(ctx context.Context, userID, organizationID, sessionID uuid.UUID, req SetServicesRequest) (*SessionDTO, error) {
	session, err := s.loadOwnedDraft(ctx, userID, organizationID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.CategorySelections) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, previousStepIncompleteMessage)
	}

	quantities := make(map[uuid.UUID]int, len(req.Selections))
	serviceIDs := make([]uuid.UUID, 0, len(req.Selections))
	for _, input := range req.Selections {
		if input.ServiceID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "service_id is required")
		}
		quantity := input.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		if _, seen := quantities[input.ServiceID]; !seen {
			serviceIDs = append(serviceIDs, input.ServiceID)
		}
		quantities[input.ServiceID] = quantity
	}

	services, err := s.catalog.FindActiveServicesByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load services")
	}
	if len(services) != len(serviceIDs) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service not found or inactive")
	}

	allowed := make(map[uuid.UUID]uuid.UUID, len(session.CategorySelections))
	for _, sel := range session.CategorySelections {
		allowed[sel.SubCategoryID] = sel.CategoryID
	}

	selections := make([]models.WizardServiceSelection, 0, len(services))
	for i := range services {
		svc := services[i]
		categoryID, ok := allowed[svc.SubCategoryID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "service outside selected categories")
		}
		selections = append(selections, models.WizardServiceSelection{
			SessionID:      session.ID,
			ServiceID:      svc.ID,
			CategoryID:     categoryID,
			SubCategoryID:  svc.SubCategoryID,
			OrganizationID: svc.OrganizationID,
			ServiceName:    svc.Name,
			Quantity:       quantities[svc.ID],
			UnitPrice:      svc.Price,
		})
	}

	if err := s.repo.ReplaceServiceSelections(ctx, session.ID, selections, enums.WizardStepReview); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store service selections")
	}
	return s.reload(ctx, session.ID)
}

func (s *service) Cancel(ctx context.Context, userID, organizationID, sessionID uuid.UUID) error {
	session, err := s.loadOwnedDraft(ctx, userID, organizationID, sessionID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, session.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete session")
	}
	return nil
}

// Complete hands a review-state session to the decomposition engine. The
// engine claims the session, so concurrent submissions yield one order.
func (s *service) Complete(ctx context.Context, userID, organizationID, sessionID uuid.UUID, req orders.CompleteSessionRequest) (*orders.OrderDTO, error) {
	session, err := s.loadOwnedDraft(ctx, userID, organizationID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CurrentStep != enums.WizardStepReview {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, previousStepIncompleteMessage)
	}
	if session.VesselID == nil || session.PortID == nil || len(session.ServiceSelections) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "incomplete session")
	}

	return s.orders.CreateFromSession(ctx, session, req)
}

func (s *service) loadOwned(ctx context.Context, userID, organizationID, sessionID uuid.UUID) (*models.WizardSession, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session")
	}
	if session.UserID != userID || session.OrganizationID != organizationID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	// Expiry is passive. A session past its deadline reads as gone even
	// before the sweep job deletes the row.
	if session.Status == enums.WizardSessionStatusDraft && !s.now().Before(session.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	return session, nil
}

func (s *service) loadOwnedDraft(ctx context.Context, userID, organizationID, sessionID uuid.UUID) (*models.WizardSession, error) {
	session, err := s.loadOwned(ctx, userID, organizationID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != enums.WizardSessionStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "session already submitted")
	}
	return session, nil
}

func (s *service) reload(ctx context.Context, sessionID uuid.UUID) (*SessionDTO, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload session")
	}
	return sessionFromModel(session), nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
