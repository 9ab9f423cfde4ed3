package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "payroll/api/swagger" // swagger docs
	"payroll/internal/config"
	"payroll/internal/database"
	"payroll/internal/handler"
	"payroll/internal/middleware"
	"payroll/internal/model"
	"payroll/internal/repository"
	"payroll/internal/scheduler"
	"payroll/internal/service"
	"payroll/internal/websocket"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Payroll API
// @version         1.0
// @description     Monthly staff invoices, location rates and period close.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultEnvFile, os.Args[1:])
	if err != nil {
		return err
	}

	if cfg.LogFile != "" {
		if err := initLogRotator(cfg.LogFile); err != nil {
			return err
		}
		defer logRotator.Close()
	}
	if err := parseAndSetDebugLevels(cfg.LogLevel); err != nil {
		return err
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			AttachStacktrace: true,
			Environment:      cfg.GinMode,
		}); err != nil {
			return fmt.Errorf("sentry init: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
		sentryLog.Infof("Error reporting enabled")
	}

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	log.Infof("Connected to PostgreSQL %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	// Set up dependencies (Repository -> Service -> Handler)
	secret := []byte(cfg.JWTSecret)
	middleware.InitAuth(secret, cfg.Release())

	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	locRepo := repository.NewLocRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	userService := service.NewUserService(userRepo, secret, cfg.TokenTTL)
	locService := service.NewLocService(locRepo, auditRepo, txManager)
	invoiceService := service.NewInvoiceService(invoiceRepo, userRepo, locRepo, periodRepo, auditRepo, txManager, wsHub)
	periodService := service.NewPeriodService(periodRepo, invoiceRepo, auditRepo, txManager, wsHub)
	auditService := service.NewAuditService(auditRepo)
	dashboardService := service.NewDashboardService(invoiceRepo, userRepo)

	if cfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, userService, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}

	calendar, err := scheduler.NewCalendar(periodService, cfg.CalendarSchedule)
	if err != nil {
		return fmt.Errorf("invalid calendar schedule %q: %w", cfg.CalendarSchedule, err)
	}
	calendar.Start()
	defer calendar.Stop()

	// Set up Gin Router
	gin.SetMode(cfg.GinMode)
	if err := handler.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c)
	})

	api := router.Group("")
	handler.NewUserHandler(userService, cfg.TokenTTL).RegisterRoutes(api)
	handler.NewLocHandler(locService).RegisterRoutes(api)
	handler.NewInvoiceHandler(invoiceService).RegisterRoutes(api)
	handler.NewPeriodHandler(periodService).RegisterRoutes(api)
	handler.NewAuditHandler(auditService).RegisterRoutes(api)
	handler.NewDashboardHandler(dashboardService).RegisterRoutes(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("Server listening on :%s", cfg.Port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Infof("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// ensureAdmin creates a Manager account for email unless one exists.
func ensureAdmin(ctx context.Context, users service.UserService, email, password string) error {
	_, err := users.CreateUser(ctx, service.CreateUserRequest{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		UserType: model.UserTypeManager,
	})
	switch {
	case err == nil:
		log.Infof("Created Manager account %s", email)
		return nil
	case errors.Is(err, service.ErrValidation):
		log.Debugf("Manager account %s not created: %v", email, err)
		return nil
	default:
		return fmt.Errorf("failed to create admin user: %w", err)
	}
}
