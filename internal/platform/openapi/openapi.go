// Package openapi describes the /api surface as an OpenAPI 3.0 document,
// generated from a small table of resource descriptors rather than kept as
// a hand-edited JSON file.
package openapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Resource describes one CRUD resource family under /api.
type Resource struct {
	// Name is the singular, capitalized resource name used in summaries
	// and schema refs (e.g. "Medication").
	Name string
	// BasePath is the collection path under /api (e.g. "/medications").
	BasePath string
	// ProfileScoped adds the GET {base}/care-profile/{id} listing.
	ProfileScoped bool
	// ExtraPaths lists additional operations keyed by path, each mapping
	// an HTTP method to a summary line.
	ExtraPaths map[string]map[string]string
}

// DefaultResources covers the caregiving API surface.
func DefaultResources() []Resource {
	return []Resource{
		{
			Name: "User", BasePath: "/users",
			ExtraPaths: map[string]map[string]string{
				"/users/register": {"post": "Register a new caregiver account"},
				"/users/login":    {"post": "Verify credentials and return the account ID"},
				"/users/me":       {"get": "Read the caller's account", "put": "Update the caller's account", "delete": "Delete the caller's account"},
			},
		},
		{
			Name: "CareProfile", BasePath: "/care-profiles",
			ExtraPaths: map[string]map[string]string{
				"/care-profiles/user/me": {"get": "List the caller's care profiles"},
			},
		},
		{
			Name: "Appointment", BasePath: "/appointments", ProfileScoped: true,
			ExtraPaths: map[string]map[string]string{
				"/appointments/today/care-profile/{id}":    {"get": "List today's appointments"},
				"/appointments/upcoming/care-profile/{id}": {"get": "List upcoming appointments"},
				"/appointments/{id}/complete":              {"post": "Mark an appointment completed"},
			},
		},
		{
			Name: "Medication", BasePath: "/medications", ProfileScoped: true,
			ExtraPaths: map[string]map[string]string{
				"/medications/today/care-profile/{id}":   {"get": "List medications scheduled for today"},
				"/medications/refills/care-profile/{id}": {"get": "List medications low on inventory"},
				"/medications/log":                       {"post": "Record a medication intake"},
				"/medications/log/medication/{id}":       {"get": "List intake logs for a medication"},
				"/medications/log/care-profile/{id}":     {"get": "List intake logs for a care profile"},
			},
		},
		{Name: "HealthRecord", BasePath: "/health-records", ProfileScoped: true},
		{Name: "VitalSign", BasePath: "/vitals", ProfileScoped: true},
		{
			Name: "CalendarEvent", BasePath: "/calendar/events",
			ExtraPaths: map[string]map[string]string{
				"/calendar/events/day/{date}":           {"get": "Day view of a care profile's calendar"},
				"/calendar/events/month/{year}/{month}": {"get": "Month view of a care profile's calendar"},
				"/calendar/events/today":                {"get": "Today's calendar events"},
				"/calendar/events/mark-status/{id}":     {"post": "Mark a calendar event's status"},
			},
		},
		{Name: "Reminder", BasePath: "/reminders", ProfileScoped: true},
		{
			Name: "Subscription", BasePath: "/subscriptions",
			ExtraPaths: map[string]map[string]string{
				"/subscriptions/me":                 {"get": "Read the caller's subscription", "put": "Update the caller's subscription"},
				"/subscriptions/upgrade-to-premium": {"post": "Upgrade the caller to the premium tier"},
				"/subscriptions/features":           {"get": "List both tiers' feature defaults"},
			},
		},
		{
			Name: "Notification", BasePath: "/notifications",
			ExtraPaths: map[string]map[string]string{
				"/notifications/unread-count": {"get": "Count unread notifications"},
				"/notifications/{id}/read":    {"post": "Mark one notification read"},
				"/notifications/read-all":     {"post": "Mark every notification read"},
			},
		},
		{
			Name: "Attachment", BasePath: "/attachments",
			ExtraPaths: map[string]map[string]string{
				"/attachments/upload":            {"post": "Upload an attachment (multipart)"},
				"/attachments/care-profile/{id}": {"get": "List a care profile's attachments"},
				"/attachments/{id}/metadata":     {"get": "Read an attachment's metadata"},
			},
		},
	}
}

// Generator builds the OpenAPI 3.0 document for the /api surface.
type Generator struct {
	resources []Resource
	version   string
	baseURL   string
}

func NewGenerator(resources []Resource, version, baseURL string) *Generator {
	return &Generator{resources: resources, version: version, baseURL: baseURL}
}

// GenerateSpec produces the OpenAPI 3.0 document as a map.
func (g *Generator) GenerateSpec() map[string]interface{} {
	paths := make(map[string]interface{})

	for _, res := range g.resources {
		addCRUDPaths(paths, res)
		for path, ops := range res.ExtraPaths {
			entry := map[string]interface{}{}
			for method, summary := range ops {
				entry[method] = operation(summary, res.Name)
			}
			paths[path] = entry
		}
	}

	return map[string]interface{}{
		"openapi": "3.0.3",
		"info": map[string]interface{}{
			"title":       "Alaga Caregiving API",
			"version":     g.version,
			"description": "REST backend for the Alaga caregiving coordination app",
		},
		"servers": []map[string]string{
			{"url": g.baseURL},
		},
		"paths": paths,
		"components": map[string]interface{}{
			"securitySchemes": map[string]interface{}{
				"bearerAuth": map[string]interface{}{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
		"security": []map[string]interface{}{
			{"bearerAuth": []interface{}{}},
		},
	}
}

func addCRUDPaths(paths map[string]interface{}, res Resource) {
	paths[res.BasePath] = map[string]interface{}{
		"post": operation("Create a "+res.Name, res.Name),
	}

	idPath := res.BasePath + "/{id}"
	paths[idPath] = map[string]interface{}{
		"get":    operationWithID("Read a "+res.Name, res.Name),
		"put":    operationWithID("Update a "+res.Name, res.Name),
		"delete": operationWithID("Delete a "+res.Name, res.Name),
	}

	if res.ProfileScoped {
		paths[res.BasePath+"/care-profile/{id}"] = map[string]interface{}{
			"get": operationWithID("List a care profile's "+res.Name+" entries", res.Name),
		}
	}
}

func operation(summary, tag string) map[string]interface{} {
	return map[string]interface{}{
		"summary": summary,
		"tags":    []string{tag},
		"responses": map[string]interface{}{
			"default": map[string]interface{}{"description": "JSON response"},
		},
	}
}

func operationWithID(summary, tag string) map[string]interface{} {
	op := operation(summary, tag)
	op["parameters"] = []map[string]interface{}{
		{"name": "id", "in": "path", "required": true, "schema": map[string]string{"type": "string"}},
	}
	return op
}

// RegisterRoutes serves the document at /api/openapi.json.
func (g *Generator) RegisterRoutes(api *echo.Group) {
	api.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, g.GenerateSpec())
	})
}
