package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cashierhub-api/internal/config"
	"cashierhub-api/internal/handler"
	"cashierhub-api/internal/metrics"
	"cashierhub-api/internal/middleware"
	"cashierhub-api/internal/model"
	"cashierhub-api/internal/repository"
	"cashierhub-api/internal/service"
	"cashierhub-api/internal/ws"
	"cashierhub-api/pkg/database"
	"cashierhub-api/pkg/logger"
	"cashierhub-api/pkg/redisstore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	// 1. Config & logger
	cfg, err := config.Load(".env")
	if err != nil {
		bootLog := logger.New(logger.Options{Service: "cashierhub-api"})
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{
		Service: "cashierhub-api",
		Level:   cfg.App.LogLevel,
		Format:  cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database
	db, err := database.Connect(database.Options{
		DSN:             cfg.DB.DSN(),
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		SlowQuery:       cfg.DB.SlowQuery,
		Debug:           cfg.App.LogLevel == "debug",
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer database.Close(db)

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, db, "up"); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
		log.Info().Msg("database migrated")
	}

	// 3. Metrics & websocket hub
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// 4. Wiring layers
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	reportRepo := repository.NewReportRepo(db)
	txRunner := database.NewTxRunner(db)

	seedAdmin(ctx, userRepo, cfg, log)

	saleService := service.NewSaleService(txRunner, userRepo, productRepo, txRepo, m, service.SaleOptions{
		Timeout:          cfg.Sale.Timeout,
		TrustClientPrice: cfg.Sale.TrustClientPrice,
	}, log)
	catalogService := service.NewCatalogService(txRunner, productRepo, categoryRepo, hub, log)
	userService := service.NewUserService(userRepo, cfg.Security.BcryptCost, log)
	authService := service.NewAuthService(userRepo, cfg.Security.BcryptCost, log)
	reportService := service.NewReportService(reportRepo, cfg.Reports.LowStockThreshold)

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Users:        handler.NewUserHandler(userService),
		Catalog:      handler.NewCatalogHandler(catalogService),
		Transactions: handler.NewTransactionHandler(saleService),
		Reports:      handler.NewReportHandler(reportService),
	}
	health := handler.NewHealthHandler(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, cfg.App.Name+" is running")

	// 5. Rate limiter storage
	var limiterStorage fiber.Storage
	if cfg.Redis.URL != "" {
		store, err := redisstore.New(ctx, cfg.Redis.URL, cfg.Redis.KeyPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer store.Close()
		limiterStorage = store
		log.Info().Msg("rate limit counters stored in redis")
	}

	// 6. Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ErrorHandler: handler.ErrorHandler(log),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.App.Env != "production"}))
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log, m))
	app.Use(helmet.New())
	app.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))
	app.Use(middleware.RateLimit("api", cfg.HTTP.APIRateLimit, cfg.HTTP.APIRateWindow, limiterStorage,
		"Too many requests, please try again later"))

	// 7. Routes
	app.Get("/", health.Root)
	app.Get("/health", health.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	app.Use("/ws", ws.Upgrade)
	app.Get("/ws", ws.Handler(hub))

	loginLimiter := middleware.RateLimit("login", cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow, limiterStorage,
		"Too many login attempts, please try again later")
	handler.RegisterAPI(app.Group("/api"), handlers, loginLimiter)

	// 8. Serve until signalled, then drain
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()
	log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

// seedAdmin creates the first admin account when the users table is empty.
func seedAdmin(ctx context.Context, userRepo repository.UserRepository, cfg *config.Config, log zerolog.Logger) {
	count, err := userRepo.Count(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("skip admin seed: count users")
		return
	}
	if count > 0 {
		return
	}

	admin := &model.User{
		Username: cfg.Seed.AdminUsername,
		Name:     "Administrator",
		Email:    cfg.Seed.AdminUsername + "@cashierhub.local",
		Role:     model.RoleAdmin,
	}
	if err := admin.SetPassword(cfg.Seed.AdminPassword, cfg.Security.BcryptCost); err != nil {
		log.Warn().Err(err).Msg("skip admin seed: hash password")
		return
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Warn().Err(err).Msg("skip admin seed: create user")
		return
	}
	log.Info().Str("username", admin.Username).Msg("admin user created")
}
