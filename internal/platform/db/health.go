package db

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// Status reports the reachability of the document store.
type Status struct {
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency"`
	Error   string `json:"error,omitempty"`
}

// CheckHealth pings the store and reports the round-trip latency.
func CheckHealth(ctx context.Context, client *mongo.Client) *Status {
	start := time.Now()
	err := client.Ping(ctx, nil)
	st := &Status{
		Healthy: err == nil,
		Latency: time.Since(start).String(),
	}
	if err != nil {
		st.Error = err.Error()
	}
	return st
}

// HealthHandler returns a handler for the document store health check endpoint.
func HealthHandler(client *mongo.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		st := CheckHealth(ctx, client)
		if !st.Healthy {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "unhealthy",
				"database": st,
			})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"database": st,
		})
	}
}
