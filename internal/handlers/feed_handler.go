package handlers

import (
	"net/http"

	"github.com/hieulm/writeuphub/backend/internal/middleware"
	"github.com/hieulm/writeuphub/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-query HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterFeedRoutes registers the authenticated feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed/subscribed", h.Subscribed)
	g.GET("/feed/explore", h.Explore)
}

// RegisterPublicFeedRoutes registers the feeds that need no caller identity
func (h *FeedHandler) RegisterPublicFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.Search)
	g.GET("/accounts/:id/writeups", h.Profile)
	g.GET("/accounts/:id/liked", h.Liked)
}

// Subscribed returns posts from authors the caller follows.
func (h *FeedHandler) Subscribed(c echo.Context) error {
	posts, err := h.feedService.Subscribed(c.Request().Context(), middleware.ActorID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Explore returns a page of posts from authors the caller does not follow.
func (h *FeedHandler) Explore(c echo.Context) error {
	posts, err := h.feedService.Explore(c.Request().Context(), middleware.ActorID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Search returns posts matching the search query; without one, the full set.
func (h *FeedHandler) Search(c echo.Context) error {
	posts, err := h.feedService.Search(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Profile returns all posts authored by the target account.
func (h *FeedHandler) Profile(c echo.Context) error {
	targetID, err := parseAccountID(c)
	if err != nil {
		return err
	}
	posts, err := h.feedService.Profile(c.Request().Context(), targetID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Liked returns all posts the target account has liked.
func (h *FeedHandler) Liked(c echo.Context) error {
	targetID, err := parseAccountID(c)
	if err != nil {
		return err
	}
	posts, err := h.feedService.Liked(c.Request().Context(), targetID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}
