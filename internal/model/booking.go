package model

import "time"

// Booking links a user to a tour for a party of NumPeople.  Rows are
// written once and never updated; only administrative actions delete them.
type Booking struct {
	ID        string    `json:"id"`         // bookings.id (UUID)
	UserID    string    `json:"user_id"`    // bookings.user_id
	TourID    string    `json:"tour_id"`    // bookings.tour_id
	NumPeople int       `json:"num_people"` // bookings.num_people, ≥ 1
	CreatedAt time.Time `json:"created_at"` // bookings.created_at (UTC)
}

// BookingDetail is a booking joined with the tour it belongs to.
type BookingDetail struct {
	Booking
	TourTitle string `json:"tour_title"`
	TourDate  string `json:"tour_date"`
	TourTime  string `json:"tour_time"`
}
