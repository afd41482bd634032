package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/aerial-tour-booking/internal/model"
)

func sampleTour(seats int) model.Tour {
	return model.Tour{
		Title:          "Symphony of Lights Sunset Flight",
		Description:    "Golden hour over Victoria Harbour.",
		StartLocation:  "Ocean Terminal Helipad",
		EndLocation:    "Convention Centre Landing",
		Date:           "2025-11-16",
		Time:           "18:00",
		Duration:       "50 minutes",
		PriceCents:     309900,
		TotalSeats:     4,
		AvailableSeats: seats,
		Highlights:     []string{"Symphony of Lights", "Clock Tower"},
		Difficulty:     model.DifficultyBeginner,
		Weather:        "Clear",
		ImageURL:       "/images/tours/scheduled/symphony-lights-sunset.jpg",
	}
}

func createTour(t *testing.T, r *TourRepo, seats int) model.Tour {
	t.Helper()
	tour := sampleTour(seats)
	require.NoError(t, r.Create(context.Background(), &tour))
	return tour
}
