package app

import (
	"context"
	"fmt"
	"time"

	"cobfacil_backend/database"
	"cobfacil_backend/internal/config"
	"cobfacil_backend/internal/email"
	"cobfacil_backend/internal/handlers"
	"cobfacil_backend/internal/logger"
	"cobfacil_backend/internal/middleware"
	"cobfacil_backend/internal/repositories"
	"cobfacil_backend/internal/routes"
	"cobfacil_backend/internal/services"
	"cobfacil_backend/internal/validator"
	"cobfacil_backend/internal/workers"
	"cobfacil_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func Run() {
	_ = godotenv.Load()

	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	registry := ws.NewRegistry()
	serviceContainer := initializeServices(cfg, gormDB, registry)
	ginRouter := buildRouter(cfg, serviceContainer, registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startWorkers(ctx, cfg, gormDB, serviceContainer.Notifications)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds a fully wired engine. Used by Run and by the
// integration tests.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	registry := ws.NewRegistry()
	serviceContainer := initializeServices(cfg, gormDB, registry)
	return buildRouter(cfg, serviceContainer, registry)
}

func buildRouter(cfg *config.Config, serviceContainer *services.ServiceContainer, registry *ws.Registry) *gin.Engine {
	appHandlers := initializeHandlers(serviceContainer)
	wsHandler := ws.NewHandler(registry, serviceContainer.Chat, cfg.Websocket.SendBuffer)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, pusher services.Pusher) *services.ServiceContainer {
	smtpConfig := &email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}
	provider := email.NewSMTPProvider(smtpConfig, email.NewTemplateManager())
	emailService := services.NewEmailService(provider, cfg.Server.BaseURL)

	userRepo := repositories.NewUserRepository(gormDB)
	billingRepo := repositories.NewBillingRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	chatRepo := repositories.NewChatRepository(gormDB)
	walletRepo := repositories.NewWalletRepository(gormDB)
	referralRepo := repositories.NewReferralRepository(gormDB)

	walletService := services.NewWalletService(walletRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, pusher, emailService)
	referralService := services.NewReferralService(referralRepo, userRepo, walletService, notificationService)
	chatService := services.NewChatService(chatRepo, billingRepo, pusher)
	billingService := services.NewBillingService(billingRepo, userRepo, notificationService, walletService, referralService)
	authService := services.NewAuthService(userRepo, walletService, referralService, emailService)

	return &services.ServiceContainer{
		Auth:          authService,
		Billings:      billingService,
		Chat:          chatService,
		Notifications: notificationService,
		Wallets:       walletService,
		Referrals:     referralService,
		Emails:        emailService,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.Auth),
		BillingHandler:      handlers.NewBillingHandler(baseHandler, container.Billings),
		ChatHandler:         handlers.NewChatHandler(baseHandler, container.Chat),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.Notifications),
		WalletHandler:       handlers.NewWalletHandler(baseHandler, container.Wallets),
		ReferralHandler:     handlers.NewReferralHandler(baseHandler, container.Referrals),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func startWorkers(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, notifications services.NotificationService) {
	worker := workers.NewOverdueWorker(
		repositories.NewBillingRepository(gormDB),
		notifications,
		time.Duration(cfg.Worker.OverdueInterval)*time.Minute,
	)
	go worker.Run(ctx)
}
