package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/aerial-tour-booking/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func scanUser(s rowScanner) (model.User, error) {
	var (
		u        model.User
		googleID sql.NullString
	)
	if err := s.Scan(&u.ID, &u.Email, &googleID, &u.CreatedAt); err != nil {
		return model.User{}, err
	}
	if googleID.Valid {
		g := googleID.String
		u.GoogleID = &g
	}
	return u, nil
}

// GetOrCreate returns the local user for an identity-provider subject,
// inserting it on first sight.  A concurrent insert of the same subject is
// resolved by reading the winner's row back.
func (r *UserRepo) GetOrCreate(ctx context.Context, email, externalID string) (model.User, error) {
	u, err := r.GetByExternalID(ctx, externalID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return model.User{}, err
	}

	u = model.User{
		ID:        uuid.NewString(),
		Email:     normalizeEmail(email),
		GoogleID:  &externalID,
		CreatedAt: time.Now().UTC(),
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, google_id, created_at) VALUES (?,?,?,?)",
		u.ID, u.Email, externalID, u.CreatedAt)
	if isDuplicate(err) {
		return r.GetByExternalID(ctx, externalID)
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// GetByExternalID fetches a user by identity-provider subject.
func (r *UserRepo) GetByExternalID(ctx context.Context, externalID string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT id,email,google_id,created_at FROM users WHERE google_id=? LIMIT 1", externalID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT id,email,google_id,created_at FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// List returns all users, oldest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id,email,google_id,created_at FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Create inserts a user without an identity-provider subject, as the admin
// page does.
func (r *UserRepo) Create(ctx context.Context, email string) (model.User, error) {
	u := model.User{ID: uuid.NewString(), Email: normalizeEmail(email), CreatedAt: time.Now().UTC()}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, google_id, created_at) VALUES (?,?,NULL,?)",
		u.ID, u.Email, u.CreatedAt)
	if isDuplicate(err) {
		return model.User{}, ErrConflict
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Delete removes a user and, through the foreign key, their bookings.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
