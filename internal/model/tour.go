package model

import "time"

// Tour is a scheduled helicopter flight with a fixed seat inventory.  It
// corresponds to a row in the `tours` table.  Highlights and
// ExtendedDetails are stored as JSON text columns.
//
// Fields:
//
//	ID              – primary key (UUID string).
//	Date, Time      – local departure as YYYY-MM-DD and HH:MM.
//	Duration        – free text such as "45 minutes".
//	PriceCents      – ticket price per booking in cents.
//	TotalSeats      – seats on the aircraft, never negative.
//	AvailableSeats  – seats still bookable, 0 ≤ AvailableSeats ≤ TotalSeats.
type Tour struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	StartLocation   string           `json:"start_location"`
	EndLocation     string           `json:"end_location"`
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	Duration        string           `json:"duration"`
	PriceCents      int64            `json:"price_cents"`
	TotalSeats      int              `json:"total_seats"`
	AvailableSeats  int              `json:"available_seats"`
	Highlights      []string         `json:"highlights"`
	Difficulty      string           `json:"difficulty"`
	Weather         string           `json:"weather"`
	ImageURL        string           `json:"image_url"`
	ExtendedDetails *ExtendedDetails `json:"extended_details,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Price returns the ticket price in currency units.
func (t Tour) Price() float64 { return float64(t.PriceCents) / 100.0 }

// ExtendedDetails carries the long-form content shown on a tour's detail
// page.
type ExtendedDetails struct {
	FullDescription string            `json:"full_description,omitempty"`
	Itinerary       []ItineraryStop   `json:"itinerary,omitempty"`
	Inclusions      []string          `json:"inclusions,omitempty"`
	Restrictions    []string          `json:"restrictions,omitempty"`
	Coordinates     *RouteCoordinates `json:"coordinates,omitempty"`
}

type ItineraryStop struct {
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
}

// RouteCoordinates holds [lat, lng] pairs for the flight route.
type RouteCoordinates struct {
	Start     [2]float64   `json:"start"`
	End       [2]float64   `json:"end"`
	Waypoints [][2]float64 `json:"waypoints,omitempty"`
}

// Difficulty levels used by the catalogue.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)
