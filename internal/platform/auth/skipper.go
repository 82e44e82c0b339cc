package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths that should bypass authentication. These are
// infrastructure endpoints (health checks, metrics, the API document) and the
// account endpoints a client must reach before it holds a token.
var publicPaths = map[string]bool{
	"/health":                     true,
	"/ready":                      true,
	"/metrics":                    true,
	"/api/openapi.json":           true,
	"/api/users/register":         true,
	"/api/users/login":            true,
	"/api/subscriptions/features": true,
}

// AuthSkipper returns true for requests whose path should skip authentication.
// Wrap JWTMiddleware or DevAuthMiddleware with it so that health checks and
// the registration and login endpoints remain accessible without a token.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether the given path is a public endpoint that
// bypasses auth middleware.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
