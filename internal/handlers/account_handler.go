package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hieulm/writeuphub/backend/internal/middleware"
	"github.com/hieulm/writeuphub/backend/internal/models"
	"github.com/hieulm/writeuphub/backend/internal/repositories"
	"github.com/hieulm/writeuphub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AccountHandler handles profile and follow-graph HTTP requests
type AccountHandler struct {
	accountRepository repositories.AccountRepository
	writeupRepository repositories.WriteUpRepository
	graphService      *services.GraphService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(
	accountRepo repositories.AccountRepository,
	writeupRepo repositories.WriteUpRepository,
	graphService *services.GraphService,
) *AccountHandler {
	return &AccountHandler{
		accountRepository: accountRepo,
		writeupRepository: writeupRepo,
		graphService:      graphService,
	}
}

// RegisterAccountRoutes registers profile and follow routes. The public
// profile read is registered separately on the unauthenticated group.
func (h *AccountHandler) RegisterAccountRoutes(g *echo.Group) {
	g.PUT("/profile", h.UpdateProfile)
	g.PUT("/accounts/:id/follow", h.ToggleFollow)
	g.GET("/accounts/:id/followers", h.GetFollowers)
	g.GET("/accounts/:id/following", h.GetFollowing)
}

// RegisterAdminRoutes registers admin-only account routes
func (h *AccountHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/admin/accounts", h.AdminListAccounts)
	g.DELETE("/admin/accounts/:id", h.AdminDeleteAccount)
}

// GetProfileByUsername returns a public profile with its post count.
func (h *AccountHandler) GetProfileByUsername(c echo.Context) error {
	account, err := h.accountRepository.GetByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage temporarily unavailable")
	}

	postCount, err := h.writeupRepository.CountByAuthor(c.Request().Context(), account.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage temporarily unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":         account.ID,
		"username":   account.Username,
		"avatar":     account.Avatar,
		"bio":        account.Bio,
		"role":       account.Role,
		"created_at": account.CreatedAt,
		"post_count": postCount,
	})
}

// UpdateProfile updates the caller's own avatar and bio.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	actorID := middleware.ActorID(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.accountRepository.UpdateProfile(actorID, req.Avatar, req.Bio)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage temporarily unavailable")
	}
	return c.JSON(http.StatusOK, account)
}

// ToggleFollow follows or unfollows the target account.
func (h *AccountHandler) ToggleFollow(c echo.Context) error {
	actorID := middleware.ActorID(c)
	targetID, err := parseAccountID(c)
	if err != nil {
		return err
	}

	following, err := h.graphService.ToggleFollow(c.Request().Context(), actorID, targetID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"following": following})
}

// GetFollowers lists the accounts following the target.
func (h *AccountHandler) GetFollowers(c echo.Context) error {
	targetID, err := parseAccountID(c)
	if err != nil {
		return err
	}
	followers, err := h.graphService.Followers(c.Request().Context(), targetID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, followers)
}

// GetFollowing lists the accounts the target follows.
func (h *AccountHandler) GetFollowing(c echo.Context) error {
	targetID, err := parseAccountID(c)
	if err != nil {
		return err
	}
	following, err := h.graphService.Following(c.Request().Context(), targetID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, following)
}

// AdminListAccounts lists every account. Admin role required.
func (h *AccountHandler) AdminListAccounts(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}
	accounts, err := h.accountRepository.ListAll()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage temporarily unavailable")
	}
	return c.JSON(http.StatusOK, accounts)
}

// AdminDeleteAccount removes an account. Admin role required.
func (h *AccountHandler) AdminDeleteAccount(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}
	targetID, err := parseAccountID(c)
	if err != nil {
		return err
	}
	if err := h.accountRepository.Delete(targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage temporarily unavailable")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted"})
}

// requireAdmin checks the stored role of the caller, not token claims.
func (h *AccountHandler) requireAdmin(c echo.Context) error {
	actor, err := h.accountRepository.GetByID(middleware.ActorID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "account not found")
	}
	if !actor.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}
	return nil
}

func parseAccountID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid account ID")
	}
	return uint(id), nil
}
