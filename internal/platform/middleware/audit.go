package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/EMB-revenge/AlagaApp/internal/platform/auth"
)

// AuditEntry represents an audit log entry produced by the middleware.
// It captures who accessed which care recipient's data, when, from where,
// and the action type.
type AuditEntry struct {
	UserID        string
	Resource      string
	CareProfileID string
	Action        string // read, create, update, delete
	IPAddress     string
	UserAgent     string
	Path          string
	Method        string
	Timestamp     time.Time
	RequestID     string
	StatusCode    int
}

// AuditRecorder is the interface that the audit middleware uses to persist
// audit entries. This decouples the middleware from any concrete sink so
// that tests can provide a mock implementation.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// auditedPrefixes are the route groups that carry care recipients' health
// data. Other routes (users, calendar colors, subscriptions) are covered by
// the regular request log.
var auditedPrefixes = []string{
	"/api/medications",
	"/api/health-records",
	"/api/vitals",
	"/api/care-profiles",
}

// Audit returns Echo middleware that logs access to health-data routes:
// which authenticated user touched which care profile's records, the action
// type, and the response status.
//
// If no AuditRecorder is provided, it falls back to structured zerolog
// logging only.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if !isAuditablePath(path) {
				return next(c)
			}

			// Execute the handler first so we capture the response status
			err := next(c)

			entry := AuditEntry{
				Timestamp:  time.Now().UTC(),
				Path:       path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
			}

			entry.UserID = auth.UserIDFromContext(req.Context())

			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			entry.Action = httpMethodToAction(req.Method)
			entry.Resource = extractResource(path)
			entry.CareProfileID = extractCareProfileID(c)

			if len(recorders) > 0 && recorders[0] != nil {
				if recErr := recorders[0].RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "health_audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Str("resource", entry.Resource).
				Str("care_profile_id", entry.CareProfileID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("health_data_access")

			return err
		}
	}
}

// isAuditablePath returns true if the path belongs to a health-data route group.
func isAuditablePath(path string) bool {
	for _, prefix := range auditedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// httpMethodToAction maps HTTP methods to audit action names.
func httpMethodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// extractResource parses the route group name from a URL path.
//
//	/api/medications/today/abc -> medications
//	/api/vitals/xyz            -> vitals
func extractResource(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/api/"), "/")
	if len(segments) > 0 && segments[0] != "" {
		return segments[0]
	}
	return "unknown"
}

// extractCareProfileID attempts to find a care profile identifier in the
// request. Routes name the segment after "care-profile" or "care_profile",
// and list endpoints pass care_profile_id as a query parameter.
func extractCareProfileID(c echo.Context) string {
	segments := strings.Split(strings.Trim(c.Request().URL.Path, "/"), "/")
	for i, seg := range segments {
		if (seg == "care-profile" || seg == "care_profile") && i+1 < len(segments) {
			return segments[i+1]
		}
	}

	if id := c.QueryParam("care_profile_id"); id != "" {
		return id
	}
	return ""
}
