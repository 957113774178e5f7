package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portside-hq/portside-backend/api/controllers"
	"github.com/portside-hq/portside-backend/api/middleware"
	"github.com/portside-hq/portside-backend/internal/auth"
	"github.com/portside-hq/portside-backend/internal/catalog"
	"github.com/portside-hq/portside-backend/internal/orders"
	"github.com/portside-hq/portside-backend/internal/organizations"
	"github.com/portside-hq/portside-backend/internal/wizard"
	"github.com/portside-hq/portside-backend/pkg/auth/session"
	"github.com/portside-hq/portside-backend/pkg/config"
	"github.com/portside-hq/portside-backend/pkg/enums"
	"github.com/portside-hq/portside-backend/pkg/logger"
	"github.com/portside-hq/portside-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            pinger
	Redis         *redis.Client
	Sessions      sessionManager
	Memberships   middleware.MembershipChecker
	Auth          auth.Service
	Register      auth.RegisterService
	Organizations organizations.Service
	Catalog       catalog.Service
	Wizard        wizard.Service
	Orders        orders.Service
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Redis, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.Idempotency(deps.Redis, logg)).
			With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.Register, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
		r.Post("/switch-organization", controllers.AuthSwitchOrganization(deps.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.OrganizationContext(logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/ports", controllers.PortsList(deps.Catalog, logg))
		r.Get("/categories", controllers.CategoriesList(deps.Catalog, logg))
		r.Get("/agencies", controllers.AgenciesList(deps.Organizations, logg))
		r.Get("/organizations/{organizationId}", controllers.OrganizationGet(deps.Organizations, logg))

		r.Route("/vessels", func(r chi.Router) {
			r.Get("/", controllers.VesselsList(deps.Catalog, logg))
			r.With(requireRoles(deps, enums.MemberRoleOwner, enums.MemberRoleManager)).
				Post("/", controllers.VesselCreate(deps.Catalog, logg))
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", controllers.ServicesListOwn(deps.Catalog, logg))
			r.Get("/search", controllers.ServicesSearch(deps.Catalog, logg))
			r.With(requireRoles(deps, enums.MemberRoleOwner, enums.MemberRoleManager)).
				Post("/", controllers.ServiceCreate(deps.Catalog, logg))
			r.With(requireRoles(deps, enums.MemberRoleOwner, enums.MemberRoleManager)).
				Patch("/{serviceId}/status", controllers.ServiceStatusUpdate(deps.Catalog, logg))
		})

		r.Route("/wizard/sessions", func(r chi.Router) {
			r.Post("/", controllers.WizardStart(deps.Wizard, logg))
			r.Get("/active", controllers.WizardActive(deps.Wizard, logg))
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", controllers.WizardGet(deps.Wizard, logg))
				r.Put("/vessel-port", controllers.WizardSetVesselPort(deps.Wizard, logg))
				r.Put("/categories", controllers.WizardSetCategories(deps.Wizard, logg))
				r.Put("/services", controllers.WizardSetServices(deps.Wizard, logg))
				r.Delete("/", controllers.WizardCancel(deps.Wizard, logg))
				r.Post("/complete", controllers.WizardComplete(deps.Wizard, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(deps.Orders, logg))
		})

		r.Route("/agency/order-groups", func(r chi.Router) {
			r.Get("/", controllers.AgencyGroupsList(deps.Orders, logg))
			r.Get("/{groupId}", controllers.AgencyGroupGet(deps.Orders, logg))
			r.Group(func(r chi.Router) {
				r.Use(requireRoles(deps, enums.MemberRoleOwner, enums.MemberRoleManager))
				r.Post("/{groupId}/accept", controllers.AgencyGroupAccept(deps.Orders, logg))
				r.Post("/{groupId}/reject", controllers.AgencyGroupReject(deps.Orders, logg))
				r.Post("/{groupId}/start", controllers.AgencyGroupStart(deps.Orders, logg))
				r.Post("/{groupId}/complete", controllers.AgencyGroupComplete(deps.Orders, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequirePlatformAdmin(logg))
			r.Get("/orders", controllers.AdminOrdersList(deps.Orders, logg))
		})
	})

	return r
}

func requireRoles(deps Deps, roles ...enums.MemberRole) func(http.Handler) http.Handler {
	return middleware.RequireOrganizationRoles(deps.Memberships, deps.Logger, roles...)
}
