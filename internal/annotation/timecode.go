package annotation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTimecode converts "M:SS", "H:MM:SS" or plain seconds into seconds.
// The seconds field may carry a fraction ("0:05.5"); the seconds and
// minutes fields after the first must stay below 60.
func ParseTimecode(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTimecode)
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, s)
	}

	last := parts[len(parts)-1]
	whole, frac, hasFrac := strings.Cut(last, ".")
	if !digits(whole) || (hasFrac && !digits(frac)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, s)
	}
	if len(parts) > 1 && len(whole) != 2 {
		return 0, fmt.Errorf("%w: %q: seconds need two digits", ErrInvalidTimecode, s)
	}
	secs, err := strconv.ParseFloat(last, 64)
	if err != nil || !finite(secs) || (len(parts) > 1 && secs >= 60) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, s)
	}

	total := secs
	mult := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		if !digits(parts[i]) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, s)
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil || (i > 0 && n >= 60) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimecode, s)
		}
		total += float64(n) * mult
		mult *= 60
	}
	return total, nil
}

// FormatTimecode renders seconds as "M:SS", truncating fractions.
func FormatTimecode(seconds float64) string {
	if !finite(seconds) || seconds < 0 {
		seconds = 0
	}
	whole := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
