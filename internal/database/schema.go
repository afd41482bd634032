package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is written in the subset of SQL shared by MySQL 8 and SQLite so the
// same statements serve production and the embedded store used in tests.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         VARCHAR(36)  NOT NULL PRIMARY KEY,
		email      VARCHAR(255) NOT NULL,
		google_id  VARCHAR(255) NULL UNIQUE,
		created_at DATETIME     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tours (
		id               VARCHAR(36)  NOT NULL PRIMARY KEY,
		title            VARCHAR(255) NOT NULL,
		description      TEXT         NOT NULL,
		start_location   VARCHAR(255) NOT NULL,
		end_location     VARCHAR(255) NOT NULL,
		tour_date        VARCHAR(10)  NOT NULL,
		tour_time        VARCHAR(5)   NOT NULL,
		duration         VARCHAR(64)  NOT NULL,
		price_cents      INT          NOT NULL,
		total_seats      INT          NOT NULL,
		available_seats  INT          NOT NULL,
		highlights       TEXT         NOT NULL,
		difficulty       VARCHAR(32)  NOT NULL,
		weather          VARCHAR(32)  NOT NULL,
		image_url        VARCHAR(512) NOT NULL,
		extended_details TEXT         NULL,
		created_at       DATETIME     NOT NULL,
		CHECK (total_seats >= 0),
		CHECK (available_seats >= 0 AND available_seats <= total_seats)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         VARCHAR(36) NOT NULL PRIMARY KEY,
		user_id    VARCHAR(36) NOT NULL,
		tour_id    VARCHAR(36) NOT NULL,
		num_people INT         NOT NULL,
		created_at DATETIME    NOT NULL,
		CHECK (num_people >= 1),
		FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE,
		FOREIGN KEY (tour_id) REFERENCES tours (id) ON DELETE CASCADE
	)`,
}

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
