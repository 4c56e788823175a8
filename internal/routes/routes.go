package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/JuanaSF/BilleteraVirtual/internal/auth"
	"github.com/JuanaSF/BilleteraVirtual/internal/config"
	"github.com/JuanaSF/BilleteraVirtual/internal/identity"
	"github.com/JuanaSF/BilleteraVirtual/internal/ledger"
	"github.com/JuanaSF/BilleteraVirtual/internal/middleware"
	"github.com/JuanaSF/BilleteraVirtual/internal/notification"
	"github.com/JuanaSF/BilleteraVirtual/internal/transfer"
	"github.com/JuanaSF/BilleteraVirtual/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. When DB or Cache
// are nil (dev only), the in-memory backends take their place.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var store ledger.Store
	if d.DB != nil {
		store = ledger.NewPostgresStore(d.DB)
	} else {
		store = ledger.NewInMemory()
	}

	var walletRepo wallet.Repository
	if d.DB != nil {
		walletRepo = wallet.NewPostgresRepository(d.DB)
	} else {
		walletRepo = wallet.NewMemoryRepository()
	}

	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}

	directory := identity.Directory{Repo: identityRepo}
	walletSvc := wallet.NewService(walletRepo, store, directory)
	identitySvc := identity.NewService(identityRepo, walletSvc, store)
	notifier := notification.NewLoggerNotifier(d.Logger)
	engine := transfer.NewEngine(store, walletSvc, directory, notifier)
	tokens := auth.NewService(d.Cfg)

	identityHandler := identity.NewHandler(identitySvc)
	authHandler := auth.NewHandler(identityLogin{ids: identitySvc}, tokens)
	walletHandler := wallet.NewHandler(walletSvc)
	transferHandler := transfer.NewHandler(engine, walletSvc)

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
	RegisterIdentityRoutes(api, identityHandler)
	var rateLimiter fiber.Handler
	if d.Cache != nil {
		rateLimiter = middleware.LoginRateLimit(d.Cache, 5)
	}
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	jwtmw := middleware.JWTAuth(tokens, identityRepo)
	protected := api.Group("", jwtmw)
	RegisterWalletRoutes(protected, walletHandler)

	var idem fiber.Handler
	if d.Cache != nil {
		idem = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}
	RegisterTransferRoutes(protected, transferHandler, idem)

	return nil
}

// identityLogin adapts the identity service to the auth handler's
// Authenticator interface.
type identityLogin struct {
	ids *identity.Service
}

func (a identityLogin) Authenticate(ctx context.Context, email, password string) (auth.Principal, error) {
	user, err := a.ids.Authenticate(ctx, email, password)
	if err != nil {
		return auth.Principal{}, err
	}
	return auth.Principal{ID: user.ID, Email: user.Email}, nil
}
