package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/platform/auth"
	"github.com/EMB-revenge/AlagaApp/pkg/pagination"
)

// Authorizer guards attachment access the same way child records are
// guarded: the caller must own the care profile.
type Authorizer interface {
	Authorize(ctx context.Context, careProfileID, userID string) error
}

// Handler provides the /api/attachments endpoints.
type Handler struct {
	store    BlobStore
	profiles Authorizer
}

func NewHandler(store BlobStore, profiles Authorizer) *Handler {
	return &Handler{store: store, profiles: profiles}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/attachments/upload", h.Upload)
	api.GET("/attachments/care-profile/:id", h.ListForProfile)
	api.GET("/attachments/:id/metadata", h.GetMetadata)
	api.GET("/attachments/:id", h.Download)
	api.DELETE("/attachments/:id", h.DeleteAttachment)
}

func (h *Handler) Upload(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	careProfileID := c.FormValue("care_profile_id")
	if careProfileID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, ErrMissingProfile.Error())
	}
	if err := h.profiles.Authorize(c.Request().Context(), careProfileID, userID); err != nil {
		return authzError(err)
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open uploaded file")
	}
	defer src.Close()

	meta := BlobMetadata{
		FileName:      file.Filename,
		ContentType:   file.Header.Get("Content-Type"),
		CareProfileID: careProfileID,
		Category:      c.FormValue("category"),
		UploadedBy:    userID,
	}

	result, err := h.store.Upload(c.Request().Context(), meta, src)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, ErrInvalidContentType):
			return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, ErrMissingFileName), errors.Is(err, ErrMissingProfile):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) Download(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	rc, meta, err := h.store.Download(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err)
	}
	defer rc.Close()

	if err := h.profiles.Authorize(c.Request().Context(), meta.CareProfileID, userID); err != nil {
		return authzError(err)
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, meta.FileName))
	return c.Stream(http.StatusOK, meta.ContentType, rc)
}

func (h *Handler) GetMetadata(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	meta, err := h.store.GetMetadata(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err)
	}
	if err := h.profiles.Authorize(c.Request().Context(), meta.CareProfileID, userID); err != nil {
		return authzError(err)
	}
	return c.JSON(http.StatusOK, meta)
}

func (h *Handler) DeleteAttachment(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	meta, err := h.store.GetMetadata(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err)
	}
	if err := h.profiles.Authorize(c.Request().Context(), meta.CareProfileID, userID); err != nil {
		return authzError(err)
	}
	if err := h.store.Delete(c.Request().Context(), meta.ID); err != nil {
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListForProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	careProfileID := c.Param("id")
	if err := h.profiles.Authorize(c.Request().Context(), careProfileID, userID); err != nil {
		return authzError(err)
	}

	items, err := h.store.ListByCareProfile(c.Request().Context(), careProfileID, c.QueryParam("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Object-store listings return everything under the profile prefix, so
	// the page is cut here rather than in the backend.
	p := pagination.FromContext(c)
	total := len(items)
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items[start:end], total, p.Limit, p.Offset))
}

func storeError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// authzError maps profile authorization failures. Anything unrecognized is
// a 403 so access never falls open.
func authzError(err error) error {
	if errors.Is(err, careprofile.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusForbidden, err.Error())
}
