package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/aerial-tour-booking/internal/database/dbtest"
	"github.com/iliyamo/aerial-tour-booking/internal/model"
)

func TestTourRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewTourRepo(dbtest.New(t))

	in := sampleTour(3)
	in.ExtendedDetails = &model.ExtendedDetails{
		FullDescription: "A sunset flight.",
		Itinerary:       []model.ItineraryStop{{Time: "18:00", Activity: "Departure", Description: "Briefing"}},
		Coordinates:     &model.RouteCoordinates{Start: [2]float64{22.295, 114.168}, End: [2]float64{22.283, 114.174}},
	}
	require.NoError(t, r.Create(ctx, &in))
	require.NotEmpty(t, in.ID)

	got, err := r.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, 3, got.AvailableSeats)
	assert.Equal(t, []string{"Symphony of Lights", "Clock Tower"}, got.Highlights)
	require.NotNil(t, got.ExtendedDetails)
	assert.Equal(t, "Departure", got.ExtendedDetails.Itinerary[0].Activity)
	assert.Equal(t, 22.295, got.ExtendedDetails.Coordinates.Start[0])
	assert.Equal(t, 3099.0, got.Price())
	assert.WithinDuration(t, in.CreatedAt, got.CreatedAt, time.Second)
}

func TestTourRepoGetMissing(t *testing.T) {
	r := NewTourRepo(dbtest.New(t))
	_, err := r.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestTourRepoListOrdersByDeparture(t *testing.T) {
	ctx := context.Background()
	r := NewTourRepo(dbtest.New(t))

	late := sampleTour(4)
	late.Date, late.Time = "2025-11-17", "10:00"
	early := sampleTour(4)
	early.Date, early.Time = "2025-11-16", "16:30"
	require.NoError(t, r.Create(ctx, &late))
	require.NoError(t, r.Create(ctx, &early))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)
}

func TestTourRepoDelete(t *testing.T) {
	ctx := context.Background()
	r := NewTourRepo(dbtest.New(t))
	tour := createTour(t, r, 4)

	require.NoError(t, r.Delete(ctx, tour.ID))
	assert.ErrorIs(t, r.Delete(ctx, tour.ID), ErrTourNotFound)
}

func TestTourRepoCreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	r := NewTourRepo(dbtest.New(t))
	tour := createTour(t, r, 4)

	dup := sampleTour(4)
	dup.ID = tour.ID
	assert.ErrorIs(t, r.Create(ctx, &dup), ErrConflict)
}

func TestDecrementSeatsTxGuardsFloor(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	r := NewTourRepo(db)
	tour := createTour(t, r, 2)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	ok, err := r.DecrementSeatsTx(ctx, tx, tour.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.DecrementSeatsTx(ctx, tx, tour.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok, "no seats left")

	seats, err := r.AvailableSeatsTx(ctx, tx, tour.ID)
	require.NoError(t, err)
	assert.Zero(t, seats)

	ok, err = r.DecrementSeatsTx(ctx, tx, "missing", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = r.AvailableSeatsTx(ctx, tx, "missing")
	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestDecrementSeatsTxWaitsForConcurrentWriter(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewPool(t, 2)
	r := NewTourRepo(db)
	tour := createTour(t, r, 1)

	first, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer first.Rollback()
	second, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer second.Rollback()

	ok, err := r.DecrementSeatsTx(ctx, first, tour.ID, 1)
	require.NoError(t, err)
	require.True(t, ok)

	type outcome struct {
		ok  bool
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		ok, err := r.DecrementSeatsTx(ctx, second, tour.ID, 1)
		done <- outcome{ok, err}
	}()

	// The second writer must block on the first one's lock rather than act
	// on the seat count it could read before the first commits.
	select {
	case o := <-done:
		t.Fatalf("second decrement finished while first was open: ok=%v err=%v", o.ok, o.err)
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, first.Commit())
	select {
	case o := <-done:
		require.NoError(t, o.err)
		assert.False(t, o.ok, "last seat already taken")
	case <-time.After(5 * time.Second):
		t.Fatal("second decrement never finished")
	}
	require.NoError(t, second.Commit())

	got, err := r.Get(ctx, tour.ID)
	require.NoError(t, err)
	assert.Zero(t, got.AvailableSeats)
}
