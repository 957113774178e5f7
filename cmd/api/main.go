package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/portside-hq/portside-backend/api/routes"
	"github.com/portside-hq/portside-backend/internal/auth"
	"github.com/portside-hq/portside-backend/internal/catalog"
	"github.com/portside-hq/portside-backend/internal/memberships"
	"github.com/portside-hq/portside-backend/internal/orders"
	"github.com/portside-hq/portside-backend/internal/organizations"
	"github.com/portside-hq/portside-backend/internal/users"
	"github.com/portside-hq/portside-backend/internal/wizard"
	"github.com/portside-hq/portside-backend/pkg/auth/session"
	"github.com/portside-hq/portside-backend/pkg/config"
	"github.com/portside-hq/portside-backend/pkg/db"
	"github.com/portside-hq/portside-backend/pkg/logger"
	"github.com/portside-hq/portside-backend/pkg/migrate"
	"github.com/portside-hq/portside-backend/pkg/outbox"
	"github.com/portside-hq/portside-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	membershipRepo := memberships.NewRepository(gormDB)
	organizationRepo := organizations.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	wizardRepo := wizard.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:        userRepo,
		MembershipsRepo: membershipRepo,
		SessionManager:  sessionManager,
		JWTConfig:       cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	organizationsService, err := organizations.NewService(organizationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create organizations service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		DB:       dbClient,
		Repo:     ordersRepo,
		Sessions: wizardRepo,
		Outbox:   outboxService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	wizardService, err := wizard.NewService(wizard.ServiceParams{
		Repo:         wizardRepo,
		Catalog:      catalogRepo,
		OrderCreator: ordersService,
		Config:       cfg.Wizard,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wizard service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Sessions:      sessionManager,
			Memberships:   membershipRepo,
			Auth:          authService,
			Register:      registerService,
			Organizations: organizationsService,
			Catalog:       catalogService,
			Wizard:        wizardService,
			Orders:        ordersService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
