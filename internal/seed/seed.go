// Package seed loads the scheduled tour programme and a few demo accounts
// into an empty database.  Running it twice is harmless: rows that already
// exist are skipped.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/aerial-tour-booking/internal/logger"
	"github.com/iliyamo/aerial-tour-booking/internal/model"
	"github.com/iliyamo/aerial-tour-booking/internal/repository"
)

// Report counts what a Run inserted and skipped.
type Report struct {
	ToursCreated int
	ToursSkipped int
	UsersCreated int
	UsersSkipped int
}

// DemoUsers are created without an identity-provider subject; they exist
// so admin bookings can be tried out.
var DemoUsers = []string{"demo@aerialtours.hk", "pilot@aerialtours.hk"}

// Tours returns the scheduled programme.  IDs are fixed so reseeding
// recognises rows it created before.
func Tours() []model.Tour {
	return []model.Tour{
		{
			ID:             "2",
			Title:          "Cultural Heritage & Temple Journey",
			Description:    "Discover Hong Kong's rich cultural tapestry through AR-enhanced views of ancient temples, traditional markets, and heritage sites.",
			StartLocation:  "Wong Tai Sin Helipad",
			EndLocation:    "Man Mo Temple Landing",
			Date:           "2025-11-16",
			Time:           "16:30",
			Duration:       "60 minutes",
			PriceCents:     269900,
			TotalSeats:     4,
			AvailableSeats: 1,
			ImageURL:       "/images/tours/scheduled/cultural-heritage-temple.jpg",
			Highlights:     []string{"Wong Tai Sin Temple", "Man Mo Temple", "Temple Street Night Market", "Chi Lin Nunnery", "Nan Lian Garden"},
			Difficulty:     model.DifficultyIntermediate,
			Weather:        "Partly Cloudy",
			ExtendedDetails: &model.ExtendedDetails{
				FullDescription: "Discover the spiritual heart of Hong Kong through this unique aerial journey that combines ancient traditions with modern cityscapes. Soar above sacred temples, traditional markets, and cultural heritage sites while AR overlays reveal the stories, legends, and cultural significance of each landmark.",
				Itinerary: []model.ItineraryStop{
					{Time: "16:30", Activity: "Departure from Wong Tai Sin Helipad", Description: "Traditional blessing ceremony and equipment setup"},
					{Time: "16:35", Activity: "Wong Tai Sin Temple Overview", Description: "AR-enhanced views of the colorful Taoist temple"},
					{Time: "16:45", Activity: "Chi Lin Nunnery Approach", Description: "Tang Dynasty architecture and lotus pond gardens"},
					{Time: "16:55", Activity: "Temple Street Market Flyover", Description: "Bustling night market preparation views"},
					{Time: "17:05", Activity: "Man Mo Temple District", Description: "Historic Hollywood Road temple complex"},
					{Time: "17:30", Activity: "Landing at Man Mo Temple Area", Description: "Ground-level temple visit opportunity"},
				},
				Inclusions: []string{
					"Cultural heritage specialist guide",
					"Advanced AR system with historical recreations",
					"Traditional tea ceremony at departure",
					"Temple blessing and good luck charm",
					"Professional photography service",
					"Cultural heritage guidebook",
				},
				Restrictions: []string{
					"Minimum age: 16 years old",
					"Respectful attire required",
					"No flash photography near temples",
					"Cultural sensitivity briefing mandatory",
					"Weather and air traffic dependent",
				},
				Coordinates: &model.RouteCoordinates{
					Start: [2]float64{22.3411, 114.1944},
					End:   [2]float64{22.2829, 114.1504},
					Waypoints: [][2]float64{
						{22.3411, 114.1944},
						{22.34, 114.1925},
						{22.3407, 114.1918},
						{22.3064, 114.1717},
						{22.2829, 114.1504},
					},
				},
			},
		},
		{
			ID:             "3",
			Title:          "Symphony of Lights Sunset Flight",
			Description:    "Experience the magical golden hour over Victoria Harbour, culminating with the world's largest permanent light show.",
			StartLocation:  "Ocean Terminal Helipad",
			EndLocation:    "Convention Centre Landing",
			Date:           "2025-11-16",
			Time:           "18:00",
			Duration:       "50 minutes",
			PriceCents:     309900,
			TotalSeats:     4,
			AvailableSeats: 3,
			ImageURL:       "/images/tours/scheduled/symphony-lights-sunset.jpg",
			Highlights:     []string{"Symphony of Lights", "Hong Kong Island Skyline", "Kowloon Waterfront", "Clock Tower"},
			Difficulty:     model.DifficultyBeginner,
			Weather:        "Clear",
		},
		{
			ID:             "4",
			Title:          "The Peak & Mid-Levels Adventure",
			Description:    "Explore Hong Kong's exclusive residential areas and the famous Victoria Peak with AR overlays showcasing the city's evolution.",
			StartLocation:  "Peak Helipad",
			EndLocation:    "Mid-Levels Terminal",
			Date:           "2025-11-17",
			Time:           "10:00",
			Duration:       "55 minutes",
			PriceCents:     254900,
			TotalSeats:     4,
			AvailableSeats: 4,
			ImageURL:       "/images/tours/scheduled/peak-midlevels-adventure.jpg",
			Highlights:     []string{"Victoria Peak", "Sky Terrace 428", "Mid-Levels Escalator", "Lion Pavilion"},
			Difficulty:     model.DifficultyIntermediate,
			Weather:        "Clear",
		},
		{
			ID:             "5",
			Title:          "New Territories Green Corridor",
			Description:    "Journey through Hong Kong's natural side, exploring country parks, traditional villages, and sustainable developments.",
			StartLocation:  "Sha Tin Helipad",
			EndLocation:    "Tai Po Landing",
			Date:           "2025-11-17",
			Time:           "12:30",
			Duration:       "40 minutes",
			PriceCents:     219900,
			TotalSeats:     4,
			AvailableSeats: 2,
			ImageURL:       "/images/tours/scheduled/new-territories-green.jpg",
			Highlights:     []string{"Shing Mun Reservoir", "Ten Thousand Buddhas Monastery", "Tai Po Market", "Science Park"},
			Difficulty:     model.DifficultyBeginner,
			Weather:        "Clear",
		},
		{
			ID:             "6",
			Title:          "Neon Nights & Street Life Spectacular",
			Description:    "Experience Hong Kong's vibrant nightlife from above with AR-enhanced views of neon signs, night markets, and bustling streets.",
			StartLocation:  "Mong Kok Night Terminal",
			EndLocation:    "Causeway Bay Landing",
			Date:           "2025-11-17",
			Time:           "19:30",
			Duration:       "45 minutes",
			PriceCents:     279900,
			TotalSeats:     4,
			AvailableSeats: 1,
			ImageURL:       "/images/tours/scheduled/neon-nights-street.jpg",
			Highlights:     []string{"Mong Kok Neon Signs", "Ladies' Market", "Times Square", "Lan Kwai Fong"},
			Difficulty:     model.DifficultyIntermediate,
			Weather:        "Clear",
		},
	}
}

// Run inserts the programme and demo users.  Existing tours (by ID) and
// users (by email) are left untouched.
func Run(ctx context.Context, db *sql.DB) (Report, error) {
	log := logger.Named("seed")
	tours := repository.NewTourRepo(db)
	users := repository.NewUserRepo(db)

	var rep Report
	for _, t := range Tours() {
		err := tours.Create(ctx, &t)
		switch {
		case err == nil:
			rep.ToursCreated++
		case errors.Is(err, repository.ErrConflict):
			rep.ToursSkipped++
		default:
			return rep, fmt.Errorf("seed tour %s: %w", t.ID, err)
		}
	}

	existing, err := users.List(ctx)
	if err != nil {
		return rep, fmt.Errorf("list users: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, u := range existing {
		known[u.Email] = true
	}
	for _, email := range DemoUsers {
		if known[email] {
			rep.UsersSkipped++
			continue
		}
		if _, err := users.Create(ctx, email); err != nil {
			return rep, fmt.Errorf("seed user %s: %w", email, err)
		}
		rep.UsersCreated++
	}

	log.Info(ctx, "seed complete",
		logger.Int("tours_created", rep.ToursCreated), logger.Int("tours_skipped", rep.ToursSkipped),
		logger.Int("users_created", rep.UsersCreated), logger.Int("users_skipped", rep.UsersSkipped))
	return rep, nil
}
