package main

import (
	"context"
	"log"

	"github.com/hieulm/writeuphub/backend/internal/identity"
	"github.com/hieulm/writeuphub/backend/internal/repositories"
	"github.com/hieulm/writeuphub/backend/internal/router"
	"github.com/hieulm/writeuphub/backend/pkg/config"
	"github.com/hieulm/writeuphub/backend/pkg/firebase"
	"github.com/hieulm/writeuphub/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Exactly one identity resolver is wired per deployment; the JWT
	// resolver additionally issues tokens at login.
	jwtResolver := identity.NewJWTResolver(cfg.JWTSecret)
	var resolver identity.Resolver = jwtResolver
	var firebaseVerifier identity.TokenVerifier

	if cfg.AuthProvider == "firebase" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		verifier := identity.NewFirebaseVerifier(firebaseApp.AuthClient)
		firebaseVerifier = verifier
		accountRepo := repositories.NewPostgresAccountRepository(db.Postgres)
		resolver = identity.NewFirebaseResolver(verifier, accountRepo)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db.Postgres, db.Mongo, resolver, jwtResolver, firebaseVerifier); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
