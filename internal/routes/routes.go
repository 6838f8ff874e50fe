package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/venturebridge/venturebridge/internal/auth"
	"github.com/venturebridge/venturebridge/internal/config"
	"github.com/venturebridge/venturebridge/internal/funding"
	"github.com/venturebridge/venturebridge/internal/identity"
	"github.com/venturebridge/venturebridge/internal/ledger"
	"github.com/venturebridge/venturebridge/internal/meetings"
	"github.com/venturebridge/venturebridge/internal/middleware"
	"github.com/venturebridge/venturebridge/internal/notification"
	"github.com/venturebridge/venturebridge/internal/payments"
	"github.com/venturebridge/venturebridge/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Ledger store selection follows what infrastructure is available.
	var store ledger.Store
	switch {
	case d.DB != nil:
		store = ledger.NewPostgresStore(d.DB)
	case d.Cache != nil:
		store = ledger.NewRedisStore(d.Cache)
	default:
		store = ledger.NewMemoryStore()
	}
	book, err := ledger.New(context.Background(), store)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}
	var dealRepo funding.Repository
	if d.DB != nil {
		dealRepo = funding.NewPostgresRepository(d.DB)
	} else {
		dealRepo = funding.NewMemoryRepository()
	}
	var meetingRepo meetings.Repository
	if d.DB != nil {
		meetingRepo = meetings.NewPostgresRepository(d.DB)
	} else {
		meetingRepo = meetings.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)

	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg, identityRepo)
	walletSvc := wallet.NewService(book)
	paymentSvc := payments.NewService(book, identityRepo, notifier)
	fundingSvc := funding.NewService(book, identityRepo, dealRepo, notifier)
	meetingSvc := meetings.NewService(meetingRepo, notifier)

	identityHandler := identity.NewHandler(identitySvc)
	authHandler := auth.NewHandler(identitySvc, authSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	paymentHandler := payments.NewHandler(paymentSvc)
	fundingHandler := funding.NewHandler(fundingSvc)
	meetingHandler := meetings.NewHandler(meetingSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	jwtmw := middleware.JWTAuth(d.Cfg, identityRepo)
	protected := api.Group("", jwtmw)
	protected.Post("/auth/logout", authHandler.Logout)
	RegisterIdentityRoutes(api, protected, identityHandler)
	RegisterWalletRoutes(protected, walletHandler)
	RegisterPaymentRoutes(protected, paymentHandler)
	RegisterFundingRoutes(protected, fundingHandler)
	RegisterMeetingRoutes(protected, meetingHandler)

	return nil
}
