package handler

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/aerial-tour-booking/internal/model"
	"github.com/iliyamo/aerial-tour-booking/internal/repository"
)

// TourHandler serves the public tour catalogue.  Both routes are safe to
// cache; the booking and admin handlers purge the cache after writes.
type TourHandler struct {
	TourRepo *repository.TourRepo
}

// TourView is a tour as returned by the public API: the stored row plus the
// price in currency units and the availability label.
type TourView struct {
	model.Tour
	Price        float64 `json:"price"`
	Availability string  `json:"availability"`
}

func newTourView(t model.Tour) TourView {
	return TourView{
		Tour:         t,
		Price:        t.Price(),
		Availability: repository.AvailabilityStatus(t.AvailableSeats, t.TotalSeats),
	}
}

// ListTours handles GET /v1/tours.  Query parameters: date, difficulty and q
// filter the list ("all" or empty matches everything); sort picks one of
// repository.TourSortKeys and order is asc or desc.
func (h *TourHandler) ListTours(c echo.Context) error {
	q := repository.TourQuery{
		Date:       c.QueryParam("date"),
		Difficulty: c.QueryParam("difficulty"),
		Search:     c.QueryParam("q"),
		Sort:       strings.ToLower(strings.TrimSpace(c.QueryParam("sort"))),
		Order:      strings.ToLower(strings.TrimSpace(c.QueryParam("order"))),
	}
	if q.Sort != "" && !slices.Contains(repository.TourSortKeys, q.Sort) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sort", "allowed": repository.TourSortKeys})
	}
	if q.Order != "" && q.Order != "asc" && q.Order != "desc" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order must be asc or desc"})
	}

	tours, err := h.TourRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	tours = repository.FilterTours(tours, q)
	repository.SortTours(tours, q.Sort, q.Order)

	items := make([]TourView, 0, len(tours))
	for _, t := range tours {
		items = append(items, newTourView(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

// GetTour handles GET /v1/tours/:id and returns the tour including its
// extended details.
func (h *TourHandler) GetTour(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour id"})
	}
	t, err := h.TourRepo.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTourNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, newTourView(t))
}
