package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/aerial-tour-booking/internal/handler"
	"github.com/iliyamo/aerial-tour-booking/internal/middleware"
)

// RegisterCustomer registers the caller-facing booking endpoints under /v1.
// Every route requires an identity-provider session token; limiter, when
// set, runs after authentication so the bucket can be keyed by caller.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{middleware.IdentityAuth(jwtSecret)}
	if limiter != nil {
		mws = append(mws, limiter)
	}
	g := e.Group("/v1", mws...)
	g.POST("/tours/:id/bookings", h.CreateBooking)
	g.GET("/my-bookings", h.ListMyBookings)
	g.GET("/me", h.Me)
}
