package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/campusmart/campusmart-backend/api/routes"
	"github.com/campusmart/campusmart-backend/internal/admin"
	"github.com/campusmart/campusmart-backend/internal/orders"
	"github.com/campusmart/campusmart-backend/internal/payments"
	"github.com/campusmart/campusmart-backend/internal/products"
	"github.com/campusmart/campusmart-backend/internal/reports"
	"github.com/campusmart/campusmart-backend/internal/uploads"
	"github.com/campusmart/campusmart-backend/internal/users"
	"github.com/campusmart/campusmart-backend/internal/wishlist"
	"github.com/campusmart/campusmart-backend/pkg/config"
	"github.com/campusmart/campusmart-backend/pkg/db"
	"github.com/campusmart/campusmart-backend/pkg/identity"
	"github.com/campusmart/campusmart-backend/pkg/logger"
	"github.com/campusmart/campusmart-backend/pkg/metrics"
	"github.com/campusmart/campusmart-backend/pkg/migrate"
	"github.com/campusmart/campusmart-backend/pkg/razorpay"
	"github.com/campusmart/campusmart-backend/pkg/redis"
	"github.com/campusmart/campusmart-backend/pkg/storage/r2"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storageClient, err := r2.NewClient(context.Background(), cfg.Storage, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}

	gateway, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap payment gateway", err)
		os.Exit(1)
	}

	verifier, err := identity.NewJWTVerifier(cfg.Identity)
	if err != nil {
		logg.Error(context.Background(), "failed to create token verifier", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	paymentsRepo := payments.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	reportsRepo := reports.NewRepository(dbClient.DB())

	usersService, err := users.NewService(users.ServiceParams{
		Repo:               usersRepo,
		AllowedEmailDomain: cfg.Identity.AllowedEmailDomain,
	})
	requireService(logg, "users", err)

	productsService, err := products.NewService(products.ServiceParams{Repo: productsRepo})
	requireService(logg, "products", err)

	ordersService, err := orders.NewService(ordersRepo, productsRepo, dbClient)
	requireService(logg, "orders", err)

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Repo:     paymentsRepo,
		Orders:   ordersRepo,
		Products: productsRepo,
		Tx:       dbClient,
		Gateway:  gateway,
		Logger:   logg,
		Metrics:  httpMetrics,
	})
	requireService(logg, "payments", err)

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlistRepo,
		Products: productsRepo,
	})
	requireService(logg, "wishlist", err)

	reportsService, err := reports.NewService(reports.ServiceParams{
		Repo:     reportsRepo,
		Products: productsRepo,
		Tx:       dbClient,
		Limiter:  redisClient,
		Logger:   logg,
	})
	requireService(logg, "reports", err)

	uploadsService, err := uploads.NewService(storageClient)
	requireService(logg, "uploads", err)

	adminService, err := admin.NewService(admin.ServiceParams{
		Users:    usersRepo,
		Products: productsRepo,
		Orders:   ordersRepo,
	})
	requireService(logg, "admin", err)

	guard, err := payments.NewIdempotencyGuard(redisClient, cfg.Razorpay.EventTTL, "razorpay")
	requireService(logg, "webhook guard", err)

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
			Config:   cfg,
			Logger:   logg,
			Metrics:  httpMetrics,
			Registry: registry,
			DB:       dbClient,
			Redis:    redisClient,
			Storage:  storageClient,
			Verifier: verifier,
			Gateway:  gateway,
			Guard:    guard,
			Users:    usersService,
			Products: productsService,
			Orders:   ordersService,
			Payments: paymentsService,
			Wishlist: wishlistService,
			Reports:  reportsService,
			Uploads:  uploadsService,
			Admin:    adminService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
