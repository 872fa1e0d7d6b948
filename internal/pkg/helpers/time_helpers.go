package helpers

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Academic year bounds accepted for resources and tracked courses
const (
	MinYear = 2000
	MaxYear = 2100
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		// Global logger: this runs before the configured logger exists.
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// CurrentYear returns the calendar year used as the default for new records
func CurrentYear() int {
	return time.Now().Year()
}

// ParseYear parses s as an academic year within [MinYear, MaxYear].
func ParseYear(s string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return year, ValidYear(year)
}

// ValidYear reports whether year is within the accepted range
func ValidYear(year int) bool {
	return year >= MinYear && year <= MaxYear
}
