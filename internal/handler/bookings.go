package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/aerial-tour-booking/internal/booking"
	"github.com/iliyamo/aerial-tour-booking/internal/logger"
	"github.com/iliyamo/aerial-tour-booking/internal/middleware"
	"github.com/iliyamo/aerial-tour-booking/internal/model"
	"github.com/iliyamo/aerial-tour-booking/internal/repository"
)

// CachePurger drops cached tour responses after inventory changes.
// *middleware.CachePurger satisfies it, including a nil one.
type CachePurger interface {
	Purge(ctx context.Context)
}

// BookingHandler serves the caller-facing booking routes.  IdentityAuth must
// run first so the external id and email are in the context.
type BookingHandler struct {
	UserRepo    *repository.UserRepo
	BookingRepo *repository.BookingRepo
	Service     *booking.Service
	Cache       CachePurger
}

// createBookingRequest is the body of POST /v1/tours/:id/bookings.  A
// missing num_people means a party of one.
type createBookingRequest struct {
	NumPeople *int `json:"num_people"`
}

// currentUser maps the identity claims to a local user, creating it on the
// first request.
func (h *BookingHandler) currentUser(c echo.Context) (model.User, error) {
	externalID, _ := c.Get(middleware.CtxExternalID).(string)
	email, _ := c.Get(middleware.CtxEmail).(string)
	if externalID == "" || email == "" {
		return model.User{}, errUnauthenticated
	}
	return h.UserRepo.GetOrCreate(c.Request().Context(), email, externalID)
}

var errUnauthenticated = errors.New("unauthenticated")

// CreateBooking handles POST /v1/tours/:id/bookings.  On success it returns
// 201 with the booking id and the seats left on the tour.  A sold-out tour
// is answered with 409 and nothing is written.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.currentUser(c)
	if err != nil {
		if errors.Is(err, errUnauthenticated) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tourID := strings.TrimSpace(c.Param("id"))
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	numPeople := 1
	if req.NumPeople != nil {
		numPeople = *req.NumPeople
	}

	res, err := h.Service.Book(ctx, tourID, user.ID, numPeople)
	switch {
	case err == nil:
	case errors.Is(err, booking.ErrInvalidBooking):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrTourNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
	case errors.Is(err, booking.ErrSeatsExhausted):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no seats available"})
	default:
		logger.Named("handler").Error(ctx, "booking failed", logger.String("tour_id", tourID), logger.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}

	if h.Cache != nil {
		h.Cache.Purge(ctx)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":      res.BookingID,
		"tour_id":         res.TourID,
		"available_seats": res.AvailableSeats,
	})
}

// ListMyBookings handles GET /v1/my-bookings and returns the caller's
// bookings joined with their tours, newest first.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		if errors.Is(err, errUnauthenticated) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.BookingRepo.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if items == nil {
		items = []model.BookingDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
