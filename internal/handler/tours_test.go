package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/aerial-tour-booking/internal/model"
	"github.com/iliyamo/aerial-tour-booking/internal/repository"
)

type tourList struct {
	Items []TourView `json:"items"`
	Total int        `json:"total"`
}

func tourServer(t *testing.T) (*echo.Echo, *repository.TourRepo) {
	t.Helper()
	repo := repository.NewTourRepo(newDB(t))
	h := &TourHandler{TourRepo: repo}
	e := echo.New()
	e.GET("/v1/tours", h.ListTours)
	e.GET("/v1/tours/:id", h.GetTour)
	e.GET("/v1/helipads", ListHelipads)
	return e, repo
}

func TestListToursFiltersAndSorts(t *testing.T) {
	e, repo := tourServer(t)
	night := tourFixture("Night Lights", "2025-11-16", "20:00", 4, 4)
	night.Difficulty = model.DifficultyAdvanced
	insertTour(t, repo, night)
	insertTour(t, repo, tourFixture("Morning Peak", "2025-11-16", "09:00", 4, 1))
	insertTour(t, repo, tourFixture("Harbour Dawn", "2025-11-17", "06:30", 4, 0))

	rec := do(e, http.MethodGet, "/v1/tours", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all tourList
	decode(t, rec, &all)
	require.Equal(t, 3, all.Total)
	assert.Equal(t, "Morning Peak", all.Items[0].Title)
	assert.Equal(t, "Night Lights", all.Items[1].Title)
	assert.Equal(t, "Harbour Dawn", all.Items[2].Title)
	assert.Equal(t, repository.AvailabilityAlmostFull, all.Items[0].Availability)
	assert.Equal(t, repository.AvailabilityAvailable, all.Items[1].Availability)
	assert.Equal(t, repository.AvailabilityFull, all.Items[2].Availability)
	assert.InDelta(t, 1500.0, all.Items[0].Price, 1e-9)

	rec = do(e, http.MethodGet, "/v1/tours?date=2025-11-16&difficulty=Advanced", "", nil)
	var filtered tourList
	decode(t, rec, &filtered)
	require.Equal(t, 1, filtered.Total)
	assert.Equal(t, "Night Lights", filtered.Items[0].Title)

	rec = do(e, http.MethodGet, "/v1/tours?q=DAWN", "", nil)
	var searched tourList
	decode(t, rec, &searched)
	require.Equal(t, 1, searched.Total)

	rec = do(e, http.MethodGet, "/v1/tours?sort=availability&order=asc", "", nil)
	var byAvail tourList
	decode(t, rec, &byAvail)
	assert.Equal(t, []int{4, 1, 0}, []int{
		byAvail.Items[0].AvailableSeats, byAvail.Items[1].AvailableSeats, byAvail.Items[2].AvailableSeats,
	})
}

func TestListToursRejectsBadParameters(t *testing.T) {
	e, _ := tourServer(t)
	for _, target := range []string{"/v1/tours?sort=seats", "/v1/tours?order=up"} {
		rec := do(e, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetTour(t *testing.T) {
	e, repo := tourServer(t)
	tour := tourFixture("Peak Flight", "2025-11-18", "10:00", 4, 2)
	tour.ExtendedDetails = &model.ExtendedDetails{Inclusions: []string{"Hotel pickup"}}
	tour = insertTour(t, repo, tour)

	rec := do(e, http.MethodGet, "/v1/tours/"+tour.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got TourView
	decode(t, rec, &got)
	assert.Equal(t, tour.ID, got.ID)
	assert.Equal(t, repository.AvailabilityFillingFast, got.Availability)
	require.NotNil(t, got.ExtendedDetails)
	assert.Equal(t, []string{"Hotel pickup"}, got.ExtendedDetails.Inclusions)

	rec = do(e, http.MethodGet, "/v1/tours/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListHelipads(t *testing.T) {
	e, _ := tourServer(t)
	var all, nature struct {
		Items []model.Helipad `json:"items"`
		Total int             `json:"total"`
	}
	decode(t, do(e, http.MethodGet, "/v1/helipads", "", nil), &all)
	assert.Equal(t, 20, all.Total)

	decode(t, do(e, http.MethodGet, "/v1/helipads?type=nature", "", nil), &nature)
	require.Equal(t, 1, nature.Total)
	assert.Equal(t, "Tai Po Landing", nature.Items[0].Name)
}
