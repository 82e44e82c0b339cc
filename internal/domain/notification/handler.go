package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/EMB-revenge/AlagaApp/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/notifications", h.PushNotification)
	api.GET("/notifications", h.Feed)
	api.GET("/notifications/unread-count", h.UnreadCount)
	api.POST("/notifications/read-all", h.MarkAllRead)
	api.POST("/notifications/:id/read", h.MarkRead)
	api.DELETE("/notifications/:id", h.DeleteNotification)
}

func (h *Handler) PushNotification(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var n Notification
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Push(c.Request().Context(), userID, &n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) Feed(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	unreadOnly := c.QueryParam("unread_only") == "true"
	var limit int64
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	feed, err := h.svc.Feed(c.Request().Context(), userID, unreadOnly, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, feed)
}

func (h *Handler) UnreadCount(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	count, err := h.svc.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread_count": count})
}

func (h *Handler) MarkRead(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	n, err := h.svc.MarkRead(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) MarkAllRead(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	updated, err := h.svc.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int64{"marked_read": updated})
}

func (h *Handler) DeleteNotification(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return accessError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func accessError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
