package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"palboti_backend/database"
	"palboti_backend/internal/auth"
	"palboti_backend/internal/config"
	"palboti_backend/internal/email"
	"palboti_backend/internal/handlers"
	"palboti_backend/internal/logger"
	"palboti_backend/internal/middleware"
	"palboti_backend/internal/models"
	"palboti_backend/internal/mqttclient"
	"palboti_backend/internal/repositories"
	"palboti_backend/internal/routes"
	"palboti_backend/internal/services"
	"palboti_backend/internal/validator"
)

// tokenCleanupInterval controls how often expired token rows are swept.
const tokenCleanupInterval = time.Hour

// Run boots the whole application: config, database, services, MQTT
// subscriber and the HTTP server. It blocks until the server exits.
func Run() error {
	cfg := config.GetConfig()
	logger.Init(cfg.Server.Env)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	tokenRepo := repositories.NewTokenRepository()
	userRepo := repositories.NewUserRepository()

	tokens := auth.NewTokenService(tokenConfig(cfg), tokenRepo)

	mailer := email.NewMailer(email.NewSMTPProvider(emailConfig(cfg)), emailConfig(cfg))

	svcs := BuildServices(cfg, tokens, mailer, userRepo, tokenRepo)

	if cfg.MQTT.BrokerURL != "" {
		mq := mqttclient.New(cfg.MQTT, svcs.Robot, db)
		if err := mq.Start(); err != nil {
			logger.WithError(err).Warn("mqtt client failed to start")
		} else {
			defer mq.Stop()
		}
	}

	if err := seedAdmin(db, userRepo); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	go cleanupExpiredTokens(db, tokenRepo)

	router := SetupRouter(cfg, db, svcs, tokens, userRepo)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "addr", addr, "env", cfg.Server.Env)
	return router.Run(addr)
}

// BuildServices wires every service with its repositories.
func BuildServices(
	cfg *config.Config,
	tokens *auth.TokenService,
	mailer *email.Mailer,
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
) *services.ServiceContainer {
	notifierRepo := repositories.NewNotifierRepository()
	robotRepo := repositories.NewRobotRepository()
	productRepo := repositories.NewProductRepository()
	slotRepo := repositories.NewSlotRepository()
	taskRepo := repositories.NewTaskRepository()
	insightRepo := repositories.NewInsightRepository()

	resetTTL := time.Duration(cfg.JWT.ResetTTLMinutes) * time.Minute

	return &services.ServiceContainer{
		Auth:    services.NewAuthService(tokens, userRepo, tokenRepo, notifierRepo, mailer, resetTTL),
		User:    services.NewUserService(userRepo, tokenRepo),
		Robot:   services.NewRobotService(robotRepo),
		Product: services.NewProductService(productRepo),
		Slot:    services.NewSlotService(slotRepo, productRepo),
		Task:    services.NewTaskService(taskRepo),
		Insight: services.NewInsightService(insightRepo),
	}
}

// SetupRouter assembles the gin engine with middleware and routes.
func SetupRouter(
	cfg *config.Config,
	db *gorm.DB,
	svcs *services.ServiceContainer,
	tokens *auth.TokenService,
	userRepo repositories.UserRepository,
) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.DBMiddleware(db))

	h := handlers.NewAppHandlers(validator.New(), svcs)
	routes.Register(r, h, tokens, userRepo)
	return r
}

func tokenConfig(cfg *config.Config) auth.TokenConfig {
	return auth.TokenConfig{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  time.Duration(cfg.JWT.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTTLDays) * 24 * time.Hour,
		ResetTTL:   time.Duration(cfg.JWT.ResetTTLMinutes) * time.Minute,
		VerifyTTL:  time.Duration(cfg.JWT.VerifyTTLMinutes) * time.Minute,
	}
}

func emailConfig(cfg *config.Config) email.Config {
	return email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		ClientURL:    cfg.Email.ClientURL,
	}
}

// seedAdmin creates the initial admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set and no account with that email exists yet.
func seedAdmin(db *gorm.DB, users repositories.UserRepository) error {
	adminEmail := strings.ToLower(os.Getenv("ADMIN_EMAIL"))
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	if _, err := users.FindByEmail(db, adminEmail); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        adminEmail,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		IsVerified:   true,
	}
	if err := users.Create(db, admin); err != nil {
		return err
	}
	logger.Info("seeded admin account", "email", adminEmail)
	return nil
}

// cleanupExpiredTokens periodically removes token rows whose expiry has
// passed without ever being presented again.
func cleanupExpiredTokens(db *gorm.DB, tokens repositories.TokenRepository) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := tokens.CleanExpired(db); err != nil {
			logger.WithError(err).Warn("expired token cleanup failed")
		}
	}
}
