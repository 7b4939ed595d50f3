// Package shared holds the small helpers every domain leans on: request value
// parsing, update-map building, filters and cache keys.
package shared

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ConvertStringToBool parses an optional boolean form or query value. Empty or
// unparseable input yields nil so the field is left out of filters and updates.
func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Debug().Str("value", value).Msg("ignoring non-boolean value")

		return nil
	}

	return &parsed
}

func ConvertStringToInt(value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("failed to convert %q to int: %w", value, err)
	}

	return parsed, nil
}
