package handlers

import (
	"errors"
	"net/http"

	"github.com/hieulm/writeuphub/backend/internal/identity"
	"github.com/hieulm/writeuphub/backend/internal/models"
	"github.com/hieulm/writeuphub/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	accountRepository repositories.AccountRepository
	jwtResolver       *identity.JWTResolver
	firebaseVerifier  identity.TokenVerifier // nil unless the firebase provider is enabled
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accountRepo repositories.AccountRepository, jwtResolver *identity.JWTResolver, firebaseVerifier identity.TokenVerifier) *AuthHandler {
	return &AuthHandler{
		accountRepository: accountRepo,
		jwtResolver:       jwtResolver,
		firebaseVerifier:  firebaseVerifier,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// Register creates a local account with a bcrypt-hashed password.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to hash password")
	}

	account := &models.Account{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}

	// Link the Firebase UID when an ID token rides along with registration;
	// the firebase resolver later matches accounts on it.
	if req.IDToken != "" {
		if h.firebaseVerifier == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "firebase sign-in is not enabled")
		}
		uid, err := h.firebaseVerifier.Verify(c.Request().Context(), req.IDToken)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid Firebase ID token")
		}
		account.FirebaseUID = &uid
	}

	if err := h.accountRepository.Create(account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, "username or email already in use")
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage temporarily unavailable")
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "registration successful"})
}

// Login verifies credentials and issues a JWT.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.accountRepository.GetByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email or password")
	}

	token, err := h.jwtResolver.Issue(account)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"account": echo.Map{
			"id":       account.ID,
			"username": account.Username,
			"email":    account.Email,
			"role":     account.Role,
			"avatar":   account.Avatar,
		},
	})
}
