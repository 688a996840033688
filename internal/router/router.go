package router

import (
	"context"
	"log"

	"github.com/hieulm/writeuphub/backend/internal/handlers"
	"github.com/hieulm/writeuphub/backend/internal/identity"
	appMiddleware "github.com/hieulm/writeuphub/backend/internal/middleware"
	"github.com/hieulm/writeuphub/backend/internal/models"
	"github.com/hieulm/writeuphub/backend/internal/repositories"
	"github.com/hieulm/writeuphub/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// Migrate runs the PostgreSQL schema migrations. The partial unique index is
// the authoritative guard for notification dedup on LIKE/FOLLOW kinds; the
// service-level existence check is an optimization on top of it.
func Migrate(pgdb *gorm.DB) error {
	if err := pgdb.AutoMigrate(
		&models.Account{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
	); err != nil {
		return err
	}
	return pgdb.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_notifications_dedup
		ON notifications (recipient_id, sender_id, kind, subject_id)
		WHERE kind IN ('LIKE', 'FOLLOW')`).Error
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseVerifier is nil unless the firebase identity provider is enabled;
// when set, registration can link a Firebase UID to the new account.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, resolver identity.Resolver, jwtResolver *identity.JWTResolver, firebaseVerifier identity.TokenVerifier) error {
	if err := Migrate(pgdb); err != nil {
		return err
	}
	log.Println("PostgreSQL migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	accountRepo := repositories.NewPostgresAccountRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	writeupRepo, err := repositories.NewMongoWriteUpRepository(context.Background(), mgClient.Database("writeuphub"))
	if err != nil {
		return err
	}

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo, accountRepo, writeupRepo)
	graphService := services.NewGraphService(accountRepo, followRepo, notificationService)
	engagementService := services.NewEngagementService(writeupRepo, accountRepo, likeRepo, commentRepo, notificationService)
	feedService := services.NewFeedService(writeupRepo, accountRepo, followRepo, likeRepo, commentRepo)

	// --- Unprotected routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(accountRepo, jwtResolver, firebaseVerifier)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	public := e.Group("/api/v1")
	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterPublicFeedRoutes(public)
	writeupHandler := handlers.NewWriteUpHandler(engagementService, feedService, accountRepo)
	writeupHandler.RegisterPublicWriteUpRoutes(public)
	accountHandler := handlers.NewAccountHandler(accountRepo, writeupRepo, graphService)
	public.GET("/accounts/username/:username", accountHandler.GetProfileByUsername)
	log.Println("Public routes configured.")

	// --- Protected routes (single identity resolver, no fallback chain) ---
	api := e.Group("/api/v1")
	api.Use(appMiddleware.RequireAuth(resolver))

	accountHandler.RegisterAccountRoutes(api)
	accountHandler.RegisterAdminRoutes(api)
	writeupHandler.RegisterWriteUpRoutes(api)
	writeupHandler.RegisterAdminRoutes(api)
	feedHandler.RegisterFeedRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)

	log.Println("All routes configured.")
	return nil
}
