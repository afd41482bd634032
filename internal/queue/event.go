// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// BookingCreatedQueue is the durable queue booking events are routed to.
const BookingCreatedQueue = "booking.created"

// BookingCreatedEvent is published after a booking transaction commits.  It
// carries enough for downstream consumers to log or notify without
// querying the primary database.
type BookingCreatedEvent struct {
	BookingID      string `json:"booking_id"`
	UserID         string `json:"user_id"`
	TourID         string `json:"tour_id"`
	TourTitle      string `json:"tour_title"`
	TourDate       string `json:"tour_date"`
	TourTime       string `json:"tour_time"`
	NumPeople      int    `json:"num_people"`
	SeatsTaken     int    `json:"seats_taken"`
	AvailableSeats int    `json:"available_seats"`
	CreatedAt      string `json:"created_at"`
}
