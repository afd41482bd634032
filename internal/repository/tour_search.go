package repository

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/iliyamo/aerial-tour-booking/internal/model"
)

// TourQuery defines filters and ordering for the public tour list.  Empty
// or "all" filters match everything.
type TourQuery struct {
	Date       string
	Difficulty string
	Search     string
	Sort       string // date|price|duration|availability|name|difficulty
	Order      string // asc|desc
}

// Sort keys accepted by SortTours.
var TourSortKeys = []string{"date", "price", "duration", "availability", "name", "difficulty"}

var difficultyRank = map[string]int{
	model.DifficultyBeginner:     1,
	model.DifficultyIntermediate: 2,
	model.DifficultyAdvanced:     3,
}

var firstNumber = regexp.MustCompile(`\d+`)

// durationMinutes reads the first integer of a duration text such as
// "45 minutes"; text without a number counts as 0.
func durationMinutes(d string) int {
	m := firstNumber.FindString(d)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

// FilterTours keeps the tours matching every filter of q.  The search text
// is matched case-insensitively against the title, description, start and
// end location and highlights.
func FilterTours(tours []model.Tour, q TourQuery) []model.Tour {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Search))

	contains := func(s string) bool { return strings.Contains(fold.String(s), needle) }

	out := make([]model.Tour, 0, len(tours))
	for _, t := range tours {
		if !isAll(q.Date) && t.Date != strings.TrimSpace(q.Date) {
			continue
		}
		if !isAll(q.Difficulty) && t.Difficulty != strings.TrimSpace(q.Difficulty) {
			continue
		}
		if needle != "" {
			match := contains(t.Title) || contains(t.Description) ||
				contains(t.StartLocation) || contains(t.EndLocation)
			for _, h := range t.Highlights {
				if match {
					break
				}
				match = contains(h)
			}
			if !match {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// SortTours orders tours in place.  Unknown keys fall back to "date" and
// any order other than "desc" is ascending.  Availability in ascending
// order puts the tours with more free seats first.
func SortTours(tours []model.Tour, key, order string) {
	var cmp func(a, b model.Tour) int
	switch strings.ToLower(key) {
	case "price":
		cmp = func(a, b model.Tour) int { return compareInt64(a.PriceCents, b.PriceCents) }
	case "duration":
		cmp = func(a, b model.Tour) int {
			return compareInt64(int64(durationMinutes(a.Duration)), int64(durationMinutes(b.Duration)))
		}
	case "availability":
		cmp = func(a, b model.Tour) int { return compareInt64(int64(b.AvailableSeats), int64(a.AvailableSeats)) }
	case "name":
		col := collate.New(language.English, collate.IgnoreCase)
		cmp = func(a, b model.Tour) int { return col.CompareString(a.Title, b.Title) }
	case "difficulty":
		cmp = func(a, b model.Tour) int {
			return compareInt64(int64(difficultyRank[a.Difficulty]), int64(difficultyRank[b.Difficulty]))
		}
	default:
		cmp = func(a, b model.Tour) int {
			return strings.Compare(a.Date+" "+a.Time, b.Date+" "+b.Time)
		}
	}
	desc := strings.EqualFold(order, "desc")
	sort.SliceStable(tours, func(i, j int) bool {
		c := cmp(tours[i], tours[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Availability labels.
const (
	AvailabilityFull        = "full"
	AvailabilityAlmostFull  = "almost_full"
	AvailabilityFillingFast = "filling_fast"
	AvailabilityAvailable   = "available"
)

// AvailabilityStatus labels a tour by the share of seats still free.
func AvailabilityStatus(available, total int) string {
	if total <= 0 || available <= 0 {
		return AvailabilityFull
	}
	pct := float64(available) / float64(total) * 100
	switch {
	case pct <= 25:
		return AvailabilityAlmostFull
	case pct <= 50:
		return AvailabilityFillingFast
	}
	return AvailabilityAvailable
}
