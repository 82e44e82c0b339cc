package subscription

import (
	"errors"
	"net/http"

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
	api.POST("/subscriptions", h.CreateSubscription)
	api.GET("/subscriptions/me", h.GetMySubscription)
	api.PUT("/subscriptions/me", h.UpdateMySubscription)
	api.POST("/subscriptions/upgrade-to-premium", h.UpgradeToPremium)
	// Public: tier defaults for the pricing screen.
	api.GET("/subscriptions/features", h.GetTierFeatures)
}

func (h *Handler) CreateSubscription(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var sub Subscription
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), userID, &sub); err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, ErrAlreadyExists):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, sub)
}

func (h *Handler) GetMySubscription(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	sub, err := h.svc.GetMine(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *Handler) UpdateMySubscription(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var upd Update
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sub, err := h.svc.UpdateMine(c.Request().Context(), userID, &upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *Handler) UpgradeToPremium(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	sub, err := h.svc.UpgradeToPremium(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *Handler) GetTierFeatures(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.TierFeatures())
}
