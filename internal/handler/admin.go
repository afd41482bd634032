package handler

import (
	"errors"
	"math"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/aerial-tour-booking/internal/model"
	"github.com/iliyamo/aerial-tour-booking/internal/repository"
)

// AdminHandler backs the /v1/admin routes.  AdminAuth guards the group;
// handlers assume the caller is an operator.
type AdminHandler struct {
	UserRepo    *repository.UserRepo
	TourRepo    *repository.TourRepo
	BookingRepo *repository.BookingRepo
	Cache       CachePurger
}

func (h *AdminHandler) purge(c echo.Context) {
	if h.Cache != nil {
		h.Cache.Purge(c.Request().Context())
	}
}

// ---- users ----

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.UserRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": users})
}

type createUserRequest struct {
	Email string `json:"email"`
}

// CreateUser handles POST /v1/admin/users with body {"email": "..."}.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}
	u, err := h.UserRepo.Create(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, u)
}

// DeleteUser handles DELETE /v1/admin/users/:id.  The user's bookings go
// with it.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	err := h.UserRepo.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ---- tours ----

// createTourRequest accepts either price_cents or a decimal price.
// AvailableSeats defaults to TotalSeats when omitted.
type createTourRequest struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	StartLocation   string                 `json:"start_location"`
	EndLocation     string                 `json:"end_location"`
	Date            string                 `json:"date"`
	Time            string                 `json:"time"`
	Duration        string                 `json:"duration"`
	Price           *float64               `json:"price"`
	PriceCents      *int64                 `json:"price_cents"`
	TotalSeats      int                    `json:"total_seats"`
	AvailableSeats  *int                   `json:"available_seats"`
	Highlights      []string               `json:"highlights"`
	Difficulty      string                 `json:"difficulty"`
	Weather         string                 `json:"weather"`
	ImageURL        string                 `json:"image_url"`
	ExtendedDetails *model.ExtendedDetails `json:"extended_details"`
}

// toTour validates the request and returns the tour to insert, or a
// message for a 400 response.
func (r createTourRequest) toTour() (model.Tour, string) {
	t := model.Tour{
		ID:              strings.TrimSpace(r.ID),
		Title:           strings.TrimSpace(r.Title),
		Description:     r.Description,
		StartLocation:   strings.TrimSpace(r.StartLocation),
		EndLocation:     strings.TrimSpace(r.EndLocation),
		Date:            strings.TrimSpace(r.Date),
		Time:            strings.TrimSpace(r.Time),
		Duration:        strings.TrimSpace(r.Duration),
		TotalSeats:      r.TotalSeats,
		AvailableSeats:  r.TotalSeats,
		Highlights:      r.Highlights,
		Difficulty:      strings.TrimSpace(r.Difficulty),
		Weather:         r.Weather,
		ImageURL:        r.ImageURL,
		ExtendedDetails: r.ExtendedDetails,
	}
	if t.Title == "" {
		return t, "title is required"
	}
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return t, "date must be YYYY-MM-DD"
	}
	if _, err := time.Parse("15:04", t.Time); err != nil {
		return t, "time must be HH:MM"
	}
	switch {
	case r.PriceCents != nil:
		t.PriceCents = *r.PriceCents
	case r.Price != nil:
		t.PriceCents = int64(math.Round(*r.Price * 100))
	}
	if t.PriceCents < 0 {
		return t, "price must not be negative"
	}
	if t.TotalSeats < 0 {
		return t, "total_seats must not be negative"
	}
	if r.AvailableSeats != nil {
		t.AvailableSeats = *r.AvailableSeats
	}
	if t.AvailableSeats < 0 || t.AvailableSeats > t.TotalSeats {
		return t, "available_seats must be between 0 and total_seats"
	}
	switch t.Difficulty {
	case "":
		t.Difficulty = model.DifficultyBeginner
	case model.DifficultyBeginner, model.DifficultyIntermediate, model.DifficultyAdvanced:
	default:
		return t, "difficulty must be Beginner, Intermediate or Advanced"
	}
	return t, ""
}

// CreateTour handles POST /v1/admin/tours.
func (h *AdminHandler) CreateTour(c echo.Context) error {
	var req createTourRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	t, msg := req.toTour()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.TourRepo.Create(c.Request().Context(), &t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "tour already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.purge(c)
	return c.JSON(http.StatusCreated, newTourView(t))
}

// DeleteTour handles DELETE /v1/admin/tours/:id.  Bookings of the tour are
// removed with it.
func (h *AdminHandler) DeleteTour(c echo.Context) error {
	err := h.TourRepo.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTourNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.purge(c)
	return c.NoContent(http.StatusNoContent)
}

// ---- bookings ----

// ListBookings handles GET /v1/admin/bookings, newest first.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	items, err := h.BookingRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if items == nil {
		items = []model.Booking{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type createAdminBookingRequest struct {
	UserID    string `json:"user_id"`
	TourID    string `json:"tour_id"`
	NumPeople int    `json:"num_people"`
}

// CreateBooking handles POST /v1/admin/bookings.  It is a raw insert for
// corrections: seat inventory is not touched.
func (h *AdminHandler) CreateBooking(c echo.Context) error {
	var req createAdminBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b := model.Booking{
		UserID:    strings.TrimSpace(req.UserID),
		TourID:    strings.TrimSpace(req.TourID),
		NumPeople: req.NumPeople,
	}
	if b.NumPeople == 0 {
		b.NumPeople = 1
	}
	if b.UserID == "" || b.TourID == "" || b.NumPeople < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id, tour_id and a positive num_people are required"})
	}
	if err := h.BookingRepo.Create(c.Request().Context(), &b); err != nil {
		switch {
		case errors.Is(err, repository.ErrTourNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, b)
}

// DeleteBooking handles DELETE /v1/admin/bookings/:id.  Seats are not
// returned to the tour.
func (h *AdminHandler) DeleteBooking(c echo.Context) error {
	err := h.BookingRepo.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
