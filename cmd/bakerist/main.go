package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bakerist/bakerist/internal/app"
	"github.com/bakerist/bakerist/internal/auth"
	"github.com/bakerist/bakerist/internal/cart"
	"github.com/bakerist/bakerist/internal/catalog"
	"github.com/bakerist/bakerist/internal/checkout"
	"github.com/bakerist/bakerist/internal/dashboard"
	"github.com/bakerist/bakerist/internal/orders"
	"github.com/bakerist/bakerist/internal/platform/cache"
	"github.com/bakerist/bakerist/internal/platform/db"
	"github.com/bakerist/bakerist/internal/rbac"
	"github.com/bakerist/bakerist/internal/shared"
	"github.com/bakerist/bakerist/internal/users"
	"github.com/bakerist/bakerist/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, 10)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	rbacMiddleware := rbac.Middleware{Logger: logger}

	taskClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init task client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Warn("task client close", slog.Any("error", err))
		}
	}()

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	authService := auth.NewService(usersRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	cartRepo := cart.NewRepository(redisClient, cfg.SessionTTL)
	cartService := cart.NewService(logger, cartRepo, catalogService)
	cartHandler := cart.NewHandler(logger, cartService)

	ordersRepo := orders.NewRepository(pool)
	ordersService := orders.NewService(logger, ordersRepo, taskClient)
	ordersHandler := orders.NewHandler(logger, ordersService, cartService)

	checkoutRepo := checkout.NewRepository(pool)
	checkoutService := checkout.NewService(logger, checkoutRepo, cartService)
	checkoutHandler := checkout.NewHandler(logger, checkoutService)

	dashboardService := dashboard.NewService(ordersService, catalogService, usersService)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		UsersHandler:     usersHandler,
		CatalogHandler:   catalogHandler,
		CartHandler:      cartHandler,
		CheckoutHandler:  checkoutHandler,
		OrdersHandler:    ordersHandler,
		DashboardHandler: dashboardHandler,
		JobHandler:       jobHandler,
		RBACMiddleware:   rbacMiddleware,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
