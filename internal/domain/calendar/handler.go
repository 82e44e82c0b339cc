package calendar

import (
	"errors"
	"net/http"
	"strconv"

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
	api.POST("/calendar/events", h.CreateEvent)
	api.GET("/calendar/events/day/:date", h.DayView)
	api.GET("/calendar/events/month/:year/:month", h.MonthView)
	api.GET("/calendar/events/today", h.TodayView)
	api.POST("/calendar/events/mark-status/:id", h.MarkStatus)
	api.GET("/calendar/events/:id", h.GetEvent)
	api.PUT("/calendar/events/:id", h.UpdateEvent)
	api.DELETE("/calendar/events/:id", h.DeleteEvent)
}

func (h *Handler) CreateEvent(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	// Reminders default on, 30 minutes ahead, unless the payload says
	// otherwise.
	e := Event{Reminder: true, ReminderTime: 30}
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), userID, &e); err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetEvent(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	e, err := h.svc.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return accessError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) UpdateEvent(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var upd Update
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.Update(c.Request().Context(), c.Param("id"), userID, &upd)
	if err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteEvent(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return accessError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) MarkStatus(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	e, err := h.svc.MarkStatus(c.Request().Context(), c.Param("id"), userID, c.QueryParam("status"))
	if err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DayView(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	day, err := h.svc.DayView(c.Request().Context(),
		c.QueryParam("care_profile_id"), userID, c.Param("date"))
	if err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, day)
}

func (h *Handler) TodayView(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	day, err := h.svc.TodayView(c.Request().Context(), c.QueryParam("care_profile_id"), userID)
	if err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, day)
}

func (h *Handler) MonthView(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid month")
	}

	view, err := h.svc.MonthView(c.Request().Context(),
		c.QueryParam("care_profile_id"), userID, year, month)
	if err != nil {
		if isAccessErr(err) {
			return accessError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, view)
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
