// Package timezone pins every wall-clock value in the service to APP_TIMEZONE.
// Booking dates and times are stored as plain text, so they only mean something
// once read back in this location.
package timezone

import (
	"sync"
	"time"

	"meetingbook/config"

	"github.com/rs/zerolog/log"
)

var (
	once     sync.Once
	location = time.UTC
)

// load resolves an IANA name, falling back to UTC when it is empty or unknown.
func load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("no timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("unknown timezone, using UTC")

		return time.UTC
	}

	return loc
}

// GetLocation returns the configured location, resolving it on first use.
func GetLocation() *time.Location {
	once.Do(func() {
		location = load(config.Get().App.Timezone)
		log.Info().Str("timezone", location.String()).Msg("application timezone initialized")
	})

	return location
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value as a wall-clock time in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
