package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/acmedash/invoice-api/api/swagger"
	"github.com/acmedash/invoice-api/internal/handler"
	"github.com/acmedash/invoice-api/internal/middleware"
	"github.com/acmedash/invoice-api/internal/repository"
	"github.com/acmedash/invoice-api/internal/service"
	"github.com/acmedash/invoice-api/pkg/cache"
	"github.com/acmedash/invoice-api/pkg/config"
	"github.com/acmedash/invoice-api/pkg/database"
	"github.com/acmedash/invoice-api/pkg/logger"
	corsmiddleware "github.com/acmedash/invoice-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acmedash/invoice-api/pkg/middleware/requestid"
)

// @title Invoice Dashboard API
// @version 0.1.0
// @description Invoice management API: dashboard, invoices, customers, exports
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	// Redis is optional: without it caching degrades to a no-op and every
	// read goes to postgres.
	var cacheSvc *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Invoices.CacheTTL, logr, true)
	}

	validate := validator.New()

	invoiceRepo := repository.NewInvoiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	revenueRepo := repository.NewRevenueRepository(db)
	userRepo := repository.NewUserRepository(db)

	invoiceSvc := service.NewInvoiceService(invoiceRepo, customerRepo, cacheSvc, metricsSvc, logr, cfg.Invoices.CacheTTL)
	customerSvc := service.NewCustomerService(customerRepo, logr)
	dashboardSvc := service.NewDashboardService(invoiceRepo, customerRepo, revenueRepo, cacheSvc, logr, cfg.Dashboard.CacheTTL)
	exportSvc := service.NewExportService(invoiceRepo, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	invoiceHandler := handler.NewInvoiceHandler(invoiceSvc)
	customerHandler := handler.NewCustomerHandler(customerSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db.Ping)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/invoices", invoiceHandler.List)
		protected.POST("/invoices", invoiceHandler.Create)
		protected.GET("/invoices/:id", invoiceHandler.Get)
		protected.PUT("/invoices/:id", invoiceHandler.Update)
		protected.DELETE("/invoices/:id", invoiceHandler.Delete)

		if cfg.Exports.Enabled {
			protected.GET("/invoices/export.csv", exportHandler.InvoicesCSV)
			protected.GET("/invoices/export.pdf", exportHandler.InvoicesPDF)
		}

		protected.GET("/customers", customerHandler.List)
		protected.GET("/customers/table", customerHandler.Table)
		protected.GET("/customers/:id", customerHandler.Get)

		if cfg.Dashboard.Enabled {
			protected.GET("/dashboard", dashboardHandler.Overview)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
