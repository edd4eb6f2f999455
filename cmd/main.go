package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cantina/internal/caching"
	"cantina/internal/config"
	"cantina/internal/handlers"
	"cantina/internal/jobs"
	"cantina/internal/middleware"
	"cantina/internal/models"
	"cantina/internal/repositories"
	"cantina/internal/services"
	"cantina/pkg/database"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stdout)

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	reportStore, err := services.NewMinioReportStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize report store")
	}
	if err := reportStore.EnsureBucketExists(ctx, cfg.Reports.Bucket); err != nil {
		log.Warn().Err(err).Str("bucket", cfg.Reports.Bucket).Msg("could not ensure report bucket")
	}

	policy, err := services.NewTimeWindowPolicy(&cfg.Meals, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid meal cutoff configuration")
	}

	// Repositories over the shared pool serve the read paths; the order
	// service opens its own transactions for mutations.
	orderRepo := repositories.NewOrderRepo(pool)
	menuRepo := repositories.NewMenuRepo(pool)
	canteenRepo := repositories.NewCanteenRepo(pool)
	dishRepo := repositories.NewDishRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	ledger := repositories.NewStockLedger(pool)

	orderSvc := services.NewOrderService(pool, pool, policy, cacheSvc, nil)
	menuSvc := services.NewMenuService(menuRepo, ledger, cacheSvc)
	canteenSvc := services.NewCanteenService(canteenRepo)
	dishSvc := services.NewDishService(dishRepo)
	statsSvc := services.NewStatisticsService(pool, cacheSvc)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, nil)
	reportSvc := services.NewReportService(statsSvc, reportStore, cfg.Reports.Bucket)

	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	menuHandlers := handlers.NewMenuHandlers(menuSvc)
	catalogHandlers := handlers.NewCatalogHandlers(canteenSvc, dishSvc)
	statsHandlers := handlers.NewStatisticsHandlers(statsSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	if cfg.Jobs.Enabled {
		scheduler, err := jobs.NewScheduler(orderRepo, canteenRepo, reportSvc, &cfg.Jobs, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create job scheduler")
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Error().Err(err).Msg("scheduler shutdown failed")
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())

	api := e.Group("/api")
	api.GET("/health", healthHandlers.Health)
	api.POST("/auth/login", authHandlers.Login)

	authed := api.Group("", middleware.JWTMiddleware(cfg.JWTSecret))
	authed.GET("/auth/user-info", authHandlers.GetUserInfo)

	authed.GET("/canteens", catalogHandlers.ListCanteens)
	authed.GET("/canteens/:id", catalogHandlers.GetCanteen)
	authed.GET("/dishes", catalogHandlers.ListDishes)
	authed.GET("/dishes/:id", catalogHandlers.GetDish)
	authed.GET("/dish-categories", catalogHandlers.ListDishCategories)

	authed.GET("/menus", menuHandlers.ListMenus)
	authed.GET("/menus/:id", menuHandlers.GetMenu)

	authed.POST("/orders", orderHandlers.CreateOrder)
	authed.GET("/orders/my", orderHandlers.GetMyOrders)
	authed.GET("/orders/:id", orderHandlers.GetOrder)
	authed.PUT("/orders/:id", orderHandlers.UpdateOrder)
	authed.POST("/orders/:id/cancel", orderHandlers.CancelOrder)

	staff := authed.Group("", middleware.RequireRole(models.RoleCanteenStaff, models.RoleAdmin))
	staff.GET("/orders/canteen/:canteenId", orderHandlers.GetCanteenOrders)
	staff.GET("/statistics/meal", statsHandlers.GetMealStatistics)
	staff.PUT("/menus/items/:itemId/quantity", menuHandlers.ResizeMenuItem)

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
}
