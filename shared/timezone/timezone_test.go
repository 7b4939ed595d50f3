package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetingbook/shared/timezone"
)

func TestLocationIsStable(t *testing.T) {
	loc := timezone.GetLocation()

	require.NotNil(t, loc)
	assert.Same(t, loc, timezone.GetLocation())
	assert.Equal(t, loc, timezone.Now().Location())
}

func TestParseAndFormatRoundTrip(t *testing.T) {
	parsed, err := timezone.Parse("2006-01-02 15:04", "2026-10-20 09:30")
	require.NoError(t, err)

	assert.Equal(t, timezone.GetLocation(), parsed.Location())
	assert.Equal(t, 9, parsed.Hour())
	assert.Equal(t, "2026-10-20 09:30", timezone.Format(parsed, "2006-01-02 15:04"))

	_, err = timezone.Parse("2006-01-02", "20-10-2026")
	assert.Error(t, err)
}

func TestToAppTimeKeepsInstant(t *testing.T) {
	instant := time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)

	converted := timezone.ToAppTime(instant)

	assert.True(t, instant.Equal(converted))
	assert.Equal(t, timezone.GetLocation(), converted.Location())
}
