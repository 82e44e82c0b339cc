package careprofile

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
	api.POST("/care-profiles", h.CreateCareProfile)
	api.GET("/care-profiles/user/me", h.ListMyCareProfiles)
	api.GET("/care-profiles/:id", h.GetCareProfile)
	api.PUT("/care-profiles/:id", h.UpdateCareProfile)
	api.DELETE("/care-profiles/:id", h.DeleteCareProfile)
}

func (h *Handler) CreateCareProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var cp CareProfile
	if err := c.Bind(&cp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), userID, &cp); err != nil {
		if errors.Is(err, ErrLimitReached) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, cp)
}

func (h *Handler) GetCareProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	cp, err := h.svc.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, cp)
}

func (h *Handler) UpdateCareProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var upd Update
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cp, err := h.svc.Update(c.Request().Context(), c.Param("id"), userID, &upd)
	if err != nil {
		if errors.Is(err, ErrEmptyUpdate) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return accessError(err)
	}
	return c.JSON(http.StatusOK, cp)
}

func (h *Handler) DeleteCareProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return accessError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMyCareProfiles(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}

	profiles, err := h.svc.ListMine(c.Request().Context(), userID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profiles)
}

// accessError maps the service's ownership errors onto HTTP status codes.
func accessError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, ErrForbidden.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
