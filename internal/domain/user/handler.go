package user

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
	// Public: a client must reach these before it holds a token.
	api.POST("/users/register", h.Register)
	api.POST("/users/login", h.Login)

	api.GET("/users/me", h.GetMe)
	api.PUT("/users/me", h.UpdateMe)
	api.DELETE("/users/me", h.DeleteMe)
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := h.svc.Register(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return echo.NewHTTPError(http.StatusBadRequest, ErrEmailExists.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID, err := h.svc.Login(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "login successful",
		"user_id": userID,
	})
}

func (h *Handler) GetMe(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	u, err := h.svc.Get(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateMe(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var upd Update
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u, err := h.svc.Update(c.Request().Context(), userID, &upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteMe(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	if err := h.svc.Delete(c.Request().Context(), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// RequireRecord is middleware mounted after authentication. It rejects
// callers whose token verifies but whose user document was never created
// (for example a provider account registered outside this service).
func RequireRecord(svc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if auth.IsPublicPath(c.Path()) {
				return next(c)
			}
			userID := auth.UserIDFromContext(c.Request().Context())
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			ok, err := svc.Exists(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			if !ok {
				return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
			}
			return next(c)
		}
	}
}
