package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/aerial-tour-booking/internal/handler"
	"github.com/iliyamo/aerial-tour-booking/internal/middleware"
)

// RegisterAdmin registers the operator endpoints under /v1/admin behind
// HTTP basic auth.  With an empty password hash every admin route answers
// 403.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, adminUser, passwordHash string, limiter echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{middleware.AdminAuth(adminUser, passwordHash)}
	if limiter != nil {
		mws = append(mws, limiter)
	}
	g := e.Group("/v1/admin", mws...)

	g.GET("/users", h.ListUsers)
	g.POST("/users", h.CreateUser)
	g.DELETE("/users/:id", h.DeleteUser)

	g.POST("/tours", h.CreateTour)
	g.DELETE("/tours/:id", h.DeleteTour)

	g.GET("/bookings", h.ListBookings)
	g.POST("/bookings", h.CreateBooking)
	g.DELETE("/bookings/:id", h.DeleteBooking)
}
