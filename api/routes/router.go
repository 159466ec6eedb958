package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/wardrop-backend/api/controllers"
	"github.com/angelmondragon/wardrop-backend/api/middleware"
	"github.com/angelmondragon/wardrop-backend/internal/auth"
	"github.com/angelmondragon/wardrop-backend/internal/bookings"
	"github.com/angelmondragon/wardrop-backend/internal/clients"
	"github.com/angelmondragon/wardrop-backend/internal/clothing"
	"github.com/angelmondragon/wardrop-backend/internal/dresses"
	"github.com/angelmondragon/wardrop-backend/internal/exports"
	"github.com/angelmondragon/wardrop-backend/internal/notifications"
	"github.com/angelmondragon/wardrop-backend/internal/reports"
	"github.com/angelmondragon/wardrop-backend/internal/sales"
	"github.com/angelmondragon/wardrop-backend/internal/settings"
	"github.com/angelmondragon/wardrop-backend/pkg/auth/session"
	"github.com/angelmondragon/wardrop-backend/pkg/config"
	"github.com/angelmondragon/wardrop-backend/pkg/db"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/wardrop-backend/pkg/redis"
)

type rateLimitStore interface {
	CountInWindow(context.Context, string, time.Duration) (int64, error)
}

// Services groups everything the HTTP layer dispatches to.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	Clients       clients.Service
	Dresses       dresses.Service
	Clothing      clothing.Service
	Bookings      bookings.Service
	Sales         sales.Service
	Reports       reports.Service
	Exports       exports.Service
	Notifications notifications.Service
	Settings      settings.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	sessions session.AccessSessionChecker,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimit, logg),
	)

	var (
		rateStore rateLimitStore
		idemStore pkgredis.IdempotencyStore
		readiness = map[string]controllers.Pinger{}
	)
	if redisClient != nil {
		rateStore = redisClient
		idemStore = redisClient
		readiness["redis"] = redisClient
	}
	if dbP != nil {
		readiness["db"] = dbP
	}

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
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})
	r.Handle("/metrics", promhttp.Handler())
	mountUploads(r, cfg.Uploads)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(svc.Register, logg))
		r.Post("/refresh", controllers.AuthRefresh(svc.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svc.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Get("/me", controllers.AuthMe(svc.Auth, logg))
			r.Put("/me", controllers.AuthUpdateMe(svc.Auth, logg))
		})
	})

	r.Get("/api/v1/settings/public", controllers.SettingsGet(svc.Settings, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, sessions, logg),
			middleware.Idempotency(idemStore, logg),
		)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientsList(svc.Clients, logg))
			r.Post("/", controllers.ClientsCreate(svc.Clients, logg))
			r.Get("/{id}", controllers.ClientsGet(svc.Clients, logg))
			r.Put("/{id}", controllers.ClientsUpdate(svc.Clients, logg))
			r.Delete("/{id}", controllers.ClientsDelete(svc.Clients, logg))
		})

		r.Route("/dresses", func(r chi.Router) {
			r.Get("/", controllers.DressesList(svc.Dresses, logg))
			r.Post("/", controllers.DressesCreate(svc.Dresses, logg))
			r.Get("/{id}", controllers.DressesGet(svc.Dresses, logg))
			r.Put("/{id}", controllers.DressesUpdate(svc.Dresses, logg))
			r.Delete("/{id}", controllers.DressesDelete(svc.Dresses, logg))
			r.Post("/{id}/images", controllers.DressesUploadImages(svc.Dresses, logg))
			r.Delete("/{id}/images/{image_id}", controllers.DressesDeleteImage(svc.Dresses, logg))
		})

		r.Route("/clothing", func(r chi.Router) {
			r.Get("/", controllers.ClothingList(svc.Clothing, logg))
			r.Post("/", controllers.ClothingCreate(svc.Clothing, logg))
			r.Get("/{id}", controllers.ClothingGet(svc.Clothing, logg))
			r.Put("/{id}", controllers.ClothingUpdate(svc.Clothing, logg))
			r.Delete("/{id}", controllers.ClothingDelete(svc.Clothing, logg))
			r.Post("/{id}/images", controllers.ClothingUploadImages(svc.Clothing, logg))
			r.Delete("/{id}/images/{image_id}", controllers.ClothingDeleteImage(svc.Clothing, logg))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.BookingsList(svc.Bookings, logg))
			r.Post("/", controllers.BookingsCreate(svc.Bookings, logg))
			r.Get("/calendar", controllers.BookingsCalendar(svc.Bookings, logg))
			r.Get("/{id}", controllers.BookingsGet(svc.Bookings, logg))
			r.Put("/{id}", controllers.BookingsUpdate(svc.Bookings, logg))
			r.Post("/{id}/cancel", controllers.BookingsCancel(svc.Bookings, logg))
			r.Delete("/{id}", controllers.BookingsDelete(svc.Bookings, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(svc.Sales, logg))
			r.Post("/", controllers.SalesCreate(svc.Sales, logg))
			r.Post("/bulk-delete", controllers.SalesBulkDelete(svc.Sales, logg))
			r.Get("/{id}", controllers.SalesGet(svc.Sales, logg))
			r.Put("/{id}", controllers.SalesUpdate(svc.Sales, logg))
			r.Delete("/{id}", controllers.SalesDelete(svc.Sales, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/dashboard", controllers.ReportsDashboard(svc.Reports, logg))
			r.Get("/earnings", controllers.ReportsEarnings(svc.Reports, logg))
			r.Get("/top-dresses", controllers.ReportsTopDresses(svc.Reports, logg))
			r.Get("/top-clients", controllers.ReportsTopClients(svc.Reports, logg))
		})

		if svc.Exports != nil {
			r.Route("/export", func(r chi.Router) {
				r.Get("/clients", controllers.ExportWorkbook(svc.Exports.ExportClients, logg))
				r.Get("/dresses", controllers.ExportWorkbook(svc.Exports.ExportDresses, logg))
				r.Get("/clothing", controllers.ExportWorkbook(svc.Exports.ExportClothing, logg))
				r.Get("/bookings", controllers.ExportRangedWorkbook(svc.Exports.ExportBookings, logg))
				r.Get("/sales", controllers.ExportRangedWorkbook(svc.Exports.ExportSales, logg))
				r.Get("/commercial-report", controllers.ExportRangedWorkbook(svc.Exports.CommercialReport, logg))
				r.Post("/import/clients", controllers.ImportWorkbook(svc.Exports.ImportClients, logg))
				r.Post("/import/dresses", controllers.ImportWorkbook(svc.Exports.ImportDresses, logg))
				r.Post("/import/clothing", controllers.ImportWorkbook(svc.Exports.ImportClothing, logg))
			})
		}

		if svc.Notifications != nil {
			r.Route("/notifications", func(r chi.Router) {
				r.Post("/send", controllers.NotificationsSend(svc.Notifications, logg))
				r.Post("/booking/{id}/confirmation", controllers.NotificationsBookingTemplate(svc.Notifications.SendBookingConfirmation, logg))
				r.Post("/booking/{id}/reminder", controllers.NotificationsBookingTemplate(svc.Notifications.SendReturnReminder, logg))
				r.Post("/booking/{id}/thank-you", controllers.NotificationsBookingTemplate(svc.Notifications.SendThankYou, logg))
				r.Get("/logs", controllers.NotificationsLogs(svc.Notifications, logg))
			})
		}

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsGet(svc.Settings, logg))
			r.Put("/", controllers.SettingsUpdate(svc.Settings, logg))
			r.Post("/logo", controllers.SettingsUploadLogo(svc.Settings, logg))
			r.Delete("/logo", controllers.SettingsDeleteLogo(svc.Settings, logg))
		})
	})

	return r
}

// mountUploads serves stored images straight from the upload directory.
func mountUploads(r chi.Router, cfg config.UploadsConfig) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return
	}
	prefix := "/" + strings.Trim(cfg.PublicPrefix, "/")
	if prefix == "/" {
		prefix = "/uploads"
	}
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Dir)))
	r.Handle(prefix+"/*", fs)
}
