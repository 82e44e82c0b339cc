package appointment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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
	api.POST("/appointments", h.CreateAppointment)
	api.GET("/appointments/care-profile/:id", h.ListForProfile)
	api.GET("/appointments/today/care-profile/:id", h.ListToday)
	api.GET("/appointments/upcoming/care-profile/:id", h.ListUpcoming)
	api.GET("/appointments/:id", h.GetAppointment)
	api.PUT("/appointments/:id", h.UpdateAppointment)
	api.DELETE("/appointments/:id", h.DeleteAppointment)
	api.POST("/appointments/:id/complete", h.CompleteAppointment)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), userID, &a); err != nil {
		if errors.Is(err, ErrUserMismatch) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	a, err := h.svc.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var upd Update
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Update(c.Request().Context(), c.Param("id"), userID, &upd)
	if err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return accessError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CompleteAppointment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	a, err := h.svc.Complete(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListForProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	start, err := parseTimeParam(c.QueryParam("start_datetime"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start_datetime")
	}
	end, err := parseTimeParam(c.QueryParam("end_datetime"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end_datetime")
	}

	items, err := h.svc.ListForProfile(c.Request().Context(), c.Param("id"), userID, start, end)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListToday(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	items, err := h.svc.ListToday(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListUpcoming(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	days := 7
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid days")
		}
		days = n
	}

	items, err := h.svc.ListUpcoming(c.Request().Context(), c.Param("id"), userID, days)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isAccessErr(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) ||
		errors.Is(err, careprofile.ErrNotFound) || errors.Is(err, careprofile.ErrForbidden)
}

// accessError maps ownership errors, both the appointment's own and the
// profile authorizer's, onto HTTP status codes.
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
