package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	orderserver "github.com/masayahak/go-order-app/server"

	customersmemory "github.com/masayahak/go-order-app/internal/domains/customers/adapters/memory"
	customerspostgres "github.com/masayahak/go-order-app/internal/domains/customers/adapters/persistence/postgres"
	customersapp "github.com/masayahak/go-order-app/internal/domains/customers/application"
	customersports "github.com/masayahak/go-order-app/internal/domains/customers/ports"

	productsmemory "github.com/masayahak/go-order-app/internal/domains/products/adapters/memory"
	productspostgres "github.com/masayahak/go-order-app/internal/domains/products/adapters/persistence/postgres"
	productsapp "github.com/masayahak/go-order-app/internal/domains/products/application"
	productsports "github.com/masayahak/go-order-app/internal/domains/products/ports"

	ordersmemory "github.com/masayahak/go-order-app/internal/domains/orders/adapters/memory"
	ordersobs "github.com/masayahak/go-order-app/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/masayahak/go-order-app/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/masayahak/go-order-app/internal/domains/orders/application"
	ordersports "github.com/masayahak/go-order-app/internal/domains/orders/ports"

	usersmemory "github.com/masayahak/go-order-app/internal/domains/users/adapters/memory"
	userspostgres "github.com/masayahak/go-order-app/internal/domains/users/adapters/persistence/postgres"
	usersredis "github.com/masayahak/go-order-app/internal/domains/users/adapters/persistence/redis"
	usersapp "github.com/masayahak/go-order-app/internal/domains/users/application"
	usersports "github.com/masayahak/go-order-app/internal/domains/users/ports"

	"github.com/masayahak/go-order-app/internal/platform/migrations"
	platformobservability "github.com/masayahak/go-order-app/internal/platform/observability"
	platformpostgres "github.com/masayahak/go-order-app/internal/platform/postgres"
	platformredis "github.com/masayahak/go-order-app/internal/platform/redis"
)

// Run boots the order-management HTTP API with observability, repositories,
// and session storage wired.
func Run(ctx context.Context) error {
	const serviceName = "order-app-api"

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectOptional(ctx, logger, cfg.PostgresDSN)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		if err := migrations.SeedAdmin(ctx, db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return fmt.Errorf("failed to seed administrator: %w", err)
		}
	}

	redisClient, cleanupRedis := platformredis.ConnectOptional(ctx, logger, cfg.RedisAddr)
	defer cleanupRedis()

	customerService := buildCustomerService(db)
	productService := buildProductService(db)
	orderService := buildOrderService(db, instruments)
	userService := buildUserService(cfg, db, redisClient, logger)

	handlers := orderserver.ApiHandleFunctions{
		AuthAPI:     orderserver.NewAuthAPI(userService),
		CustomerAPI: orderserver.NewCustomerAPI(customerService),
		ProductAPI:  orderserver.NewProductAPI(productService),
		OrderAPI:    orderserver.NewOrderAPI(orderService),
	}

	router := orderserver.NewRouter(handlers, userService, otelgin.Middleware(serviceName))

	addr := ":" + cfg.Port
	logger.Info("order API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("order API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildCustomerService(db *gorm.DB) customersports.Service {
	if db != nil {
		return customersapp.NewService(customerspostgres.NewRepository(db))
	}
	return customersapp.NewService(customersmemory.NewRepository())
}

func buildProductService(db *gorm.DB) productsports.Service {
	if db != nil {
		return productsapp.NewService(productspostgres.NewRepository(db))
	}
	return productsapp.NewService(productsmemory.NewRepository())
}

func buildOrderService(db *gorm.DB, instruments *platformobservability.Instruments) ordersports.Service {
	var repo ordersports.Repository
	if db != nil {
		repo = orderspostgres.NewRepository(db)
	} else {
		repo = ordersmemory.NewRepository()
	}
	return ordersobs.New(
		ordersapp.NewService(repo),
		ordersobs.WithLogger(instruments.Logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
}

func buildUserService(cfg Config, db *gorm.DB, redisClient *redis.Client, logger *slog.Logger) usersports.Service {
	var repo usersports.Repository
	if db != nil {
		repo = userspostgres.NewRepository(db)
	} else {
		repo = usersmemory.NewRepository()
	}
	sessions := buildSessionStore(db, redisClient, logger)
	return usersapp.NewService(repo, sessions, []byte(cfg.JWTSecret), cfg.SessionTTL)
}

// buildSessionStore prefers redis, then postgres, then memory.
func buildSessionStore(db *gorm.DB, redisClient *redis.Client, logger *slog.Logger) usersports.SessionStore {
	switch {
	case redisClient != nil:
		logger.Info("session store configured with redis")
		return usersredis.NewSessionStore(redisClient)
	case db != nil:
		logger.Info("session store configured with postgres")
		return userspostgres.NewSessionStore(db)
	default:
		logger.Warn("session store falling back to memory")
		return usersmemory.NewSessionStore()
	}
}
