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

func TestBookingRepoAdminInsertLeavesInventory(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	tours, users, bookings := NewTourRepo(db), NewUserRepo(db), NewBookingRepo(db)

	tour := createTour(t, tours, 2)
	u, err := users.Create(ctx, "a@example.com")
	require.NoError(t, err)

	b := model.Booking{UserID: u.ID, TourID: tour.ID, NumPeople: 3}
	require.NoError(t, bookings.Create(ctx, &b))
	assert.NotEmpty(t, b.ID)

	got, err := tours.Get(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableSeats)

	n, err := bookings.CountByTour(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBookingRepoCreateMissingReferences(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	tours, users, bookings := NewTourRepo(db), NewUserRepo(db), NewBookingRepo(db)
	tour := createTour(t, tours, 2)
	u, err := users.Create(ctx, "a@example.com")
	require.NoError(t, err)

	err = bookings.Create(ctx, &model.Booking{UserID: u.ID, TourID: "missing", NumPeople: 1})
	assert.ErrorIs(t, err, ErrTourNotFound)

	err = bookings.Create(ctx, &model.Booking{UserID: "missing", TourID: tour.ID, NumPeople: 1})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBookingRepoListings(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	tours, users, bookings := NewTourRepo(db), NewUserRepo(db), NewBookingRepo(db)
	tour := createTour(t, tours, 4)
	alice, err := users.Create(ctx, "alice@example.com")
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob@example.com")
	require.NoError(t, err)

	base := time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)
	older := model.Booking{UserID: alice.ID, TourID: tour.ID, NumPeople: 1, CreatedAt: base}
	newer := model.Booking{UserID: alice.ID, TourID: tour.ID, NumPeople: 2, CreatedAt: base.Add(time.Hour)}
	bobs := model.Booking{UserID: bob.ID, TourID: tour.ID, NumPeople: 1, CreatedAt: base.Add(2 * time.Hour)}
	for _, b := range []*model.Booking{&older, &newer, &bobs} {
		require.NoError(t, bookings.Create(ctx, b))
	}

	mine, err := bookings.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)
	assert.Equal(t, tour.Title, mine[0].TourTitle)
	assert.Equal(t, "18:00", mine[0].TourTime)

	all, err := bookings.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, bobs.ID, all[0].ID)

	got, err := bookings.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, base.Equal(got.CreatedAt))
}

func TestBookingRepoDeleteAndCascade(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	tours, users, bookings := NewTourRepo(db), NewUserRepo(db), NewBookingRepo(db)
	tour := createTour(t, tours, 4)
	u, err := users.Create(ctx, "a@example.com")
	require.NoError(t, err)

	one := model.Booking{UserID: u.ID, TourID: tour.ID, NumPeople: 1}
	two := model.Booking{UserID: u.ID, TourID: tour.ID, NumPeople: 1}
	require.NoError(t, bookings.Create(ctx, &one))
	require.NoError(t, bookings.Create(ctx, &two))

	require.NoError(t, bookings.Delete(ctx, one.ID))
	assert.ErrorIs(t, bookings.Delete(ctx, one.ID), ErrBookingNotFound)
	_, err = bookings.Get(ctx, one.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	require.NoError(t, tours.Delete(ctx, tour.ID))
	all, err := bookings.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "bookings follow their tour")
}
