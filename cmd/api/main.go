package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wafarle/wafarle-backend/api/routes"
	"github.com/wafarle/wafarle-backend/internal/blog"
	"github.com/wafarle/wafarle-backend/internal/cart"
	"github.com/wafarle/wafarle-backend/internal/catalog"
	"github.com/wafarle/wafarle-backend/internal/checkout"
	"github.com/wafarle/wafarle-backend/internal/currencies"
	"github.com/wafarle/wafarle-backend/internal/customers"
	"github.com/wafarle/wafarle-backend/internal/licenses"
	"github.com/wafarle/wafarle-backend/internal/orders"
	"github.com/wafarle/wafarle-backend/internal/payments"
	"github.com/wafarle/wafarle-backend/internal/reviews"
	"github.com/wafarle/wafarle-backend/internal/versions"
	"github.com/wafarle/wafarle-backend/pkg/auth/session"
	"github.com/wafarle/wafarle-backend/pkg/config"
	"github.com/wafarle/wafarle-backend/pkg/db"
	"github.com/wafarle/wafarle-backend/pkg/logger"
	"github.com/wafarle/wafarle-backend/pkg/metrics"
	"github.com/wafarle/wafarle-backend/pkg/migrate"
	"github.com/wafarle/wafarle-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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
	catalogRepo := catalog.NewRepository(gormDB)

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cart.NewRepository(gormDB), catalogRepo, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(checkout.NewRepository(gormDB), payments.NewManualCollaborator(), cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(orders.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	licensesService, err := licenses.NewService(licenses.NewRepository(gormDB), redisClient, cfg.License)
	if err != nil {
		logg.Error(context.Background(), "failed to create licenses service", err)
		os.Exit(1)
	}
	reviewsService, err := reviews.NewService(reviews.NewRepository(gormDB), catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}
	currenciesService, err := currencies.NewService(currencies.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create currencies service", err)
		os.Exit(1)
	}
	versionsService, err := versions.NewService(versions.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create versions service", err)
		os.Exit(1)
	}
	customersService, err := customers.NewService(customers.NewRepository(gormDB), sessionManager, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}
	blogService, err := blog.NewService(blog.NewRepository(gormDB), redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create blog service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			httpMetrics,
			dbClient,
			redisClient,
			sessionManager,
			customersService,
			catalogService,
			cartService,
			checkoutService,
			ordersService,
			licensesService,
			reviewsService,
			currenciesService,
			versionsService,
			blogService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
