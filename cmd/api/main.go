package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wardrop-backend/api/routes"
	"github.com/angelmondragon/wardrop-backend/internal/admins"
	"github.com/angelmondragon/wardrop-backend/internal/auth"
	"github.com/angelmondragon/wardrop-backend/internal/bookings"
	"github.com/angelmondragon/wardrop-backend/internal/clients"
	"github.com/angelmondragon/wardrop-backend/internal/clothing"
	"github.com/angelmondragon/wardrop-backend/internal/dresses"
	"github.com/angelmondragon/wardrop-backend/internal/exports"
	"github.com/angelmondragon/wardrop-backend/internal/media"
	"github.com/angelmondragon/wardrop-backend/internal/notifications"
	"github.com/angelmondragon/wardrop-backend/internal/reports"
	"github.com/angelmondragon/wardrop-backend/internal/sales"
	"github.com/angelmondragon/wardrop-backend/internal/settings"
	"github.com/angelmondragon/wardrop-backend/pkg/auth/session"
	"github.com/angelmondragon/wardrop-backend/pkg/config"
	"github.com/angelmondragon/wardrop-backend/pkg/db"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/metrics"
	"github.com/angelmondragon/wardrop-backend/pkg/migrate"
	"github.com/angelmondragon/wardrop-backend/pkg/redis"
	"github.com/angelmondragon/wardrop-backend/pkg/storage/local"
	"github.com/angelmondragon/wardrop-backend/pkg/twilio"
)

const shutdownTimeout = 15 * time.Second

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
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	svc, err := buildServices(cfg, logg, loc, dbClient, sessionManager)
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"timezone": loc.String(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(cfg *config.Config, logg *logger.Logger, loc *time.Location, dbClient *db.Client, sessions *session.Manager) (routes.Services, error) {
	conn := dbClient.DB()

	authService, err := auth.NewService(auth.ServiceParams{
		AdminRepo:      admins.NewRepository(conn),
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		Password:       &cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return routes.Services{}, err
	}
	registerService, err := auth.NewDBRegisterService(dbClient, cfg.Password, logg)
	if err != nil {
		return routes.Services{}, err
	}

	storage, err := local.New(cfg.Uploads)
	if err != nil {
		return routes.Services{}, err
	}
	mediaService, err := media.NewService(storage, cfg.Uploads)
	if err != nil {
		return routes.Services{}, err
	}

	clientsRepo := clients.NewRepository(conn)
	dressesRepo := dresses.NewRepository(conn)
	clothingRepo := clothing.NewRepository(conn)
	bookingsRepo := bookings.NewRepository(conn)
	salesRepo := sales.NewRepository(conn)

	clientsService, err := clients.NewService(clientsRepo)
	if err != nil {
		return routes.Services{}, err
	}

	bookingsService, err := bookings.NewService(bookings.ServiceParams{
		Repo:     bookingsRepo,
		TxRunner: dbClient,
		Location: loc,
		Logger:   logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	dressesService, err := dresses.NewService(dresses.ServiceParams{
		Repo:         dressesRepo,
		TxRunner:     dbClient,
		Media:        mediaService,
		Availability: bookingsService,
		Logger:       logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	clothingService, err := clothing.NewService(clothingRepo, dbClient, mediaService, logg)
	if err != nil {
		return routes.Services{}, err
	}

	salesService, err := sales.NewService(salesRepo, dbClient, loc)
	if err != nil {
		return routes.Services{}, err
	}

	reportsService, err := reports.NewService(reports.NewRepository(conn), loc)
	if err != nil {
		return routes.Services{}, err
	}

	exportsService, err := exports.NewService(exports.ServiceParams{
		Clients:  clientsRepo,
		Dresses:  dressesRepo,
		Clothing: clothingRepo,
		Bookings: bookingsRepo,
		Sales:    salesRepo,
		TxRunner: dbClient,
		Location: loc,
		Currency: cfg.App.Currency,
		Logger:   logg,
	})
	if err != nil {
		return routes.Services{}, err
	}

	settingsService, err := settings.NewService(settings.NewRepository(conn), mediaService, logg)
	if err != nil {
		return routes.Services{}, err
	}

	params := notifications.ServiceParams{
		Repo:     notifications.NewRepository(conn),
		Settings: settingsService,
		Metrics:  metrics.NewNotificationMetrics(prometheus.DefaultRegisterer),
		Logger:   logg,
	}
	sender, err := twilio.NewClient(cfg.Twilio, logg)
	switch {
	case errors.Is(err, twilio.ErrNotConfigured):
		logg.Warn(context.Background(), "twilio credentials missing, notifications disabled")
	case err != nil:
		return routes.Services{}, err
	default:
		params.Sender = sender
	}
	notificationsService, err := notifications.NewService(params)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:          authService,
		Register:      registerService,
		Clients:       clientsService,
		Dresses:       dressesService,
		Clothing:      clothingService,
		Bookings:      bookingsService,
		Sales:         salesService,
		Reports:       reportsService,
		Exports:       exportsService,
		Notifications: notificationsService,
		Settings:      settingsService,
	}, nil
}
