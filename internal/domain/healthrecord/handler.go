package healthrecord

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/health-records", h.CreateHealthRecord)
	api.GET("/health-records/care-profile/:id", h.ListForProfile)
	api.GET("/health-records/:id", h.GetHealthRecord)
	api.PUT("/health-records/:id", h.UpdateHealthRecord)
	api.DELETE("/health-records/:id", h.DeleteHealthRecord)
}

func (h *Handler) CreateHealthRecord(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var r HealthRecord
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), userID, &r); err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetHealthRecord(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	r, err := h.svc.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) UpdateHealthRecord(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var upd Update
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := h.svc.Update(c.Request().Context(), c.Param("id"), userID, &upd)
	if err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteHealthRecord(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return accessError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListForProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	records, err := h.svc.ListForProfile(c.Request().Context(), c.Param("id"), userID, c.QueryParam("record_type"))
	if err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, records)
}

func isAccessErr(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) ||
		errors.Is(err, careprofile.ErrNotFound) || errors.Is(err, careprofile.ErrForbidden)
}

func accessError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, careprofile.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden), errors.Is(err, careprofile.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
