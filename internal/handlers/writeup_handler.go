package handlers

import (
	"net/http"

	"github.com/hieulm/writeuphub/backend/internal/middleware"
	"github.com/hieulm/writeuphub/backend/internal/models"
	"github.com/hieulm/writeuphub/backend/internal/repositories"
	"github.com/hieulm/writeuphub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// WriteUpHandler handles writeup mutation and single-post HTTP requests
type WriteUpHandler struct {
	engagementService *services.EngagementService
	feedService       *services.FeedService
	accountRepository repositories.AccountRepository
}

// NewWriteUpHandler creates a new WriteUpHandler
func NewWriteUpHandler(
	engagementService *services.EngagementService,
	feedService *services.FeedService,
	accountRepo repositories.AccountRepository,
) *WriteUpHandler {
	return &WriteUpHandler{
		engagementService: engagementService,
		feedService:       feedService,
		accountRepository: accountRepo,
	}
}

// RegisterWriteUpRoutes registers writeup-related routes
func (h *WriteUpHandler) RegisterWriteUpRoutes(g *echo.Group) {
	g.POST("/writeups", h.Create)
	g.GET("/writeups/id/:id", h.GetByID)
	g.PUT("/writeups/:id", h.Update)
	g.DELETE("/writeups/:id", h.Delete)
	g.PUT("/writeups/:id/like", h.ToggleLike)
	g.POST("/writeups/:id/comments", h.AddComment)
	g.PUT("/writeups/:id/share", h.Share)
}

// RegisterPublicWriteUpRoutes registers the reader-facing slug route, which
// increments the view counter.
func (h *WriteUpHandler) RegisterPublicWriteUpRoutes(g *echo.Group) {
	g.GET("/writeups/:slug", h.GetBySlug)
}

// RegisterAdminRoutes registers admin-only writeup routes
func (h *WriteUpHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/admin/writeups", h.AdminList)
	g.DELETE("/admin/writeups/:id", h.AdminDelete)
}

// Create publishes a new writeup authored by the caller.
func (h *WriteUpHandler) Create(c echo.Context) error {
	actorID := middleware.ActorID(c)

	var req models.CreateWriteUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	writeup, err := h.engagementService.CreateWriteUp(c.Request().Context(), actorID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, writeup)
}

// GetBySlug resolves a writeup for reading; the view counter increments as a
// side effect of this read and only this read.
func (h *WriteUpHandler) GetBySlug(c echo.Context) error {
	detail, err := h.engagementService.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// GetByID resolves a writeup by id without counting a view (edit flow).
func (h *WriteUpHandler) GetByID(c echo.Context) error {
	detail, err := h.engagementService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Update edits a writeup; author only.
func (h *WriteUpHandler) Update(c echo.Context) error {
	actorID := middleware.ActorID(c)

	var req models.UpdateWriteUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	writeup, err := h.engagementService.UpdateWriteUp(c.Request().Context(), c.Param("id"), actorID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, writeup)
}

// Delete removes a writeup; author only.
func (h *WriteUpHandler) Delete(c echo.Context) error {
	actorID := middleware.ActorID(c)
	if err := h.engagementService.DeleteWriteUp(c.Request().Context(), c.Param("id"), actorID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "writeup deleted"})
}

// ToggleLike likes or unlikes a writeup for the caller.
func (h *WriteUpHandler) ToggleLike(c echo.Context) error {
	actorID := middleware.ActorID(c)
	liked, count, err := h.engagementService.ToggleLike(c.Request().Context(), c.Param("id"), actorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked, "likes_count": count})
}

// AddComment appends a comment to a writeup.
func (h *WriteUpHandler) AddComment(c echo.Context) error {
	actorID := middleware.ActorID(c)

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.engagementService.AddComment(c.Request().Context(), c.Param("id"), actorID, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// Share counts one share and returns the new total.
func (h *WriteUpHandler) Share(c echo.Context) error {
	shares, err := h.engagementService.IncrementShare(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"shares": shares})
}

// AdminList returns every writeup. Admin role required.
func (h *WriteUpHandler) AdminList(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}
	// The admin listing reuses the unfiltered search path.
	writeups, err := h.feedService.Search(c.Request().Context(), "")
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, writeups)
}

// AdminDelete removes any writeup. Admin role required.
func (h *WriteUpHandler) AdminDelete(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}
	if err := h.engagementService.AdminDeleteWriteUp(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "writeup deleted"})
}

func (h *WriteUpHandler) requireAdmin(c echo.Context) error {
	actor, err := h.accountRepository.GetByID(middleware.ActorID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "account not found")
	}
	if !actor.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}
	return nil
}
