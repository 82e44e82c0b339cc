package medication

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
	api.POST("/medications", h.CreateMedication)
	api.POST("/medications/log", h.LogIntake)
	api.GET("/medications/log/medication/:id", h.ListLogsForMedication)
	api.GET("/medications/log/care-profile/:id", h.ListLogsForProfile)
	api.GET("/medications/care-profile/:id", h.ListForProfile)
	api.GET("/medications/today/care-profile/:id", h.ListToday)
	api.GET("/medications/refills/care-profile/:id", h.ListRefills)
	api.GET("/medications/:id", h.GetMedication)
	api.PUT("/medications/:id", h.UpdateMedication)
	api.DELETE("/medications/:id", h.DeleteMedication)
}

func (h *Handler) CreateMedication(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	// Bind onto the default so a payload without is_active starts active.
	m := Medication{IsActive: true}
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), userID, &m); err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMedication(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	m, err := h.svc.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) UpdateMedication(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var upd Update
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.Update(c.Request().Context(), c.Param("id"), userID, &upd)
	if err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMedication(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return accessError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListForProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	activeOnly := c.QueryParam("active_only") == "true"
	items, err := h.svc.ListForProfile(c.Request().Context(), c.Param("id"), userID, activeOnly)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListToday(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	items, err := h.svc.TodayForProfile(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListRefills(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	items, err := h.svc.Refills(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) LogIntake(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var l Log
	if err := c.Bind(&l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.LogIntake(c.Request().Context(), userID, &l); err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) ListLogsForMedication(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	logs, err := h.svc.LogsForMedication(c.Request().Context(), c.Param("id"), userID,
		c.QueryParam("start_date"), c.QueryParam("end_date"))
	if err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *Handler) ListLogsForProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	logs, err := h.svc.LogsForProfile(c.Request().Context(), c.Param("id"), userID,
		c.QueryParam("start_date"), c.QueryParam("end_date"))
	if err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, logs)
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
