// Package router registers the HTTP routes of the tour booking API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/aerial-tour-booking/internal/handler"
	"github.com/iliyamo/aerial-tour-booking/internal/metrics"
)

// RegisterRoutes registers the operational endpoints: the health check and,
// when m is non-nil, the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler, m *metrics.Manager) {
	e.GET("/healthz", h.Health)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
}

// RegisterPublic registers the unauthenticated catalogue endpoints.  cache
// wraps the tour reads only; booking and admin writes purge it.
func RegisterPublic(e *echo.Echo, t *handler.TourHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/tours")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("", t.ListTours)
	g.GET("/:id", t.GetTour)

	e.GET("/v1/helipads", handler.ListHelipads)
}

// RegisterDemo registers the demo viewer catalogue and its websocket
// session endpoint.
func RegisterDemo(e *echo.Echo, d *handler.DemoHandler) {
	e.GET("/v1/demo/catalog", d.ListCatalog)
	e.GET("/v1/demo/session", d.Session)
}
