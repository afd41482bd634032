package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/aerial-tour-booking/internal/model"
)

// TourRepo reads and writes the tours table.  Seat changes made by a
// booking go through DecrementSeatsTx so that they share the booking's
// transaction.
type TourRepo struct {
	db *sql.DB
}

// NewTourRepo returns a TourRepo bound to the given database.
func NewTourRepo(db *sql.DB) *TourRepo { return &TourRepo{db: db} }

// DB exposes the handle so services can open transactions spanning
// several repositories.
func (r *TourRepo) DB() *sql.DB { return r.db }

const tourColumns = `id, title, description, start_location, end_location,
	tour_date, tour_time, duration, price_cents, total_seats, available_seats,
	highlights, difficulty, weather, image_url, extended_details, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTour(s rowScanner) (model.Tour, error) {
	var (
		t          model.Tour
		highlights string
		extended   sql.NullString
	)
	err := s.Scan(
		&t.ID, &t.Title, &t.Description, &t.StartLocation, &t.EndLocation,
		&t.Date, &t.Time, &t.Duration, &t.PriceCents, &t.TotalSeats, &t.AvailableSeats,
		&highlights, &t.Difficulty, &t.Weather, &t.ImageURL, &extended, &t.CreatedAt,
	)
	if err != nil {
		return model.Tour{}, err
	}
	t.Highlights = []string{}
	if highlights != "" {
		if err := json.Unmarshal([]byte(highlights), &t.Highlights); err != nil {
			return model.Tour{}, fmt.Errorf("decode highlights of tour %s: %w", t.ID, err)
		}
	}
	if extended.Valid && extended.String != "" {
		var ed model.ExtendedDetails
		if err := json.Unmarshal([]byte(extended.String), &ed); err != nil {
			return model.Tour{}, fmt.Errorf("decode extended details of tour %s: %w", t.ID, err)
		}
		t.ExtendedDetails = &ed
	}
	return t, nil
}

// Get loads a tour by ID.  ErrTourNotFound is returned when it does not
// exist.
func (r *TourRepo) Get(ctx context.Context, id string) (model.Tour, error) {
	t, err := scanTour(r.db.QueryRowContext(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Tour{}, ErrTourNotFound
	}
	return t, err
}

// List returns every tour ordered by departure.
func (r *TourRepo) List(ctx context.Context) ([]model.Tour, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tourColumns+` FROM tours ORDER BY tour_date, tour_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Tour{}
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts a tour.  An empty ID is replaced by a new UUID and the
// creation time is set here.
func (r *TourRepo) Create(ctx context.Context, t *model.Tour) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC()
	if t.Highlights == nil {
		t.Highlights = []string{}
	}
	highlights, err := json.Marshal(t.Highlights)
	if err != nil {
		return err
	}
	var extended sql.NullString
	if t.ExtendedDetails != nil {
		b, err := json.Marshal(t.ExtendedDetails)
		if err != nil {
			return err
		}
		extended = sql.NullString{String: string(b), Valid: true}
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO tours (`+tourColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.StartLocation, t.EndLocation,
		t.Date, t.Time, t.Duration, t.PriceCents, t.TotalSeats, t.AvailableSeats,
		string(highlights), t.Difficulty, t.Weather, t.ImageURL, extended, t.CreatedAt,
	)
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// Delete removes a tour and, through the foreign key, its bookings.
func (r *TourRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tours WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTourNotFound
	}
	return nil
}

// DecrementSeatsTx takes n seats from the tour inside tx.  The guard in the
// WHERE clause makes the check and the write one statement, so two
// concurrent bookings can never both see the last seat.  It reports false
// when the tour is missing or has fewer than n seats left.
func (r *TourRepo) DecrementSeatsTx(ctx context.Context, tx *sql.Tx, id string, n int) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE tours SET available_seats = available_seats - ? WHERE id = ? AND available_seats >= ?`,
		n, id, n)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// AvailableSeatsTx reads the remaining seats of a tour inside tx.
// ErrTourNotFound is returned when it does not exist.
func (r *TourRepo) AvailableSeatsTx(ctx context.Context, tx *sql.Tx, id string) (int, error) {
	var seats int
	err := tx.QueryRowContext(ctx, `SELECT available_seats FROM tours WHERE id = ?`, id).Scan(&seats)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTourNotFound
	}
	return seats, err
}

// GetTx loads a tour inside tx so the caller sees its own uncommitted
// seat change.
func (r *TourRepo) GetTx(ctx context.Context, tx *sql.Tx, id string) (model.Tour, error) {
	t, err := scanTour(tx.QueryRowContext(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Tour{}, ErrTourNotFound
	}
	return t, err
}
