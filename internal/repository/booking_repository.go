package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/aerial-tour-booking/internal/model"
)

// BookingRepo provides insert, listing and delete operations for bookings.
// All timestamps are written in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const insertBooking = `INSERT INTO bookings (id, user_id, tour_id, num_people, created_at) VALUES (?, ?, ?, ?, ?)`

func prepareBooking(b *model.Booking) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
}

// CreateTx inserts a booking within the scope of an existing transaction.
// It fills in the ID and creation time when they are unset.  The caller
// must commit or rollback the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	prepareBooking(b)
	_, err := tx.ExecContext(ctx, insertBooking, b.ID, b.UserID, b.TourID, b.NumPeople, b.CreatedAt)
	return err
}

// Create inserts a booking outside a transaction and leaves seat inventory
// untouched.  It backs the administrative insert.  A missing user or tour
// surfaces as ErrUserNotFound or ErrTourNotFound.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	prepareBooking(b)
	_, err := r.db.ExecContext(ctx, insertBooking, b.ID, b.UserID, b.TourID, b.NumPeople, b.CreatedAt)
	if isForeignKey(err) {
		var one int
		if r.db.QueryRowContext(ctx, `SELECT 1 FROM tours WHERE id = ?`, b.TourID).Scan(&one) != nil {
			return ErrTourNotFound
		}
		return ErrUserNotFound
	}
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// Get loads a booking by ID.
func (r *BookingRepo) Get(ctx context.Context, id string) (model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, tour_id, num_people, created_at FROM bookings WHERE id = ?`, id).
		Scan(&b.ID, &b.UserID, &b.TourID, &b.NumPeople, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// ListAll returns every booking, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, tour_id, num_people, created_at FROM bookings ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.TourID, &b.NumPeople, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListByUser returns the user's bookings joined with their tours, newest
// first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]model.BookingDetail, error) {
	const q = `SELECT b.id, b.user_id, b.tour_id, b.num_people, b.created_at,
	                  t.title, t.tour_date, t.tour_time
	           FROM bookings b
	           JOIN tours t ON t.id = b.tour_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC, b.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.BookingDetail{}
	for rows.Next() {
		var d model.BookingDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.TourID, &d.NumPeople, &d.CreatedAt,
			&d.TourTitle, &d.TourDate, &d.TourTime); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CountByTour returns how many bookings reference the tour.
func (r *BookingRepo) CountByTour(ctx context.Context, tourID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE tour_id = ?`, tourID).Scan(&n)
	return n, err
}

// Delete removes a booking.  Seat inventory is not restored, matching the
// administrative delete it backs.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
