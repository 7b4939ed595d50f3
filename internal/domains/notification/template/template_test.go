package template_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetingbook/config"
	"meetingbook/internal/domains/booking/model"
	"meetingbook/internal/domains/notification/template"
)

func newComposer(smtpUser string) *template.Composer {
	cfg := &config.Config{}
	cfg.App.Name = "MeetingBook"
	cfg.App.URL = "https://rooms.example.com/"
	cfg.SMTP.User = smtpUser

	return template.New(cfg)
}

func sampleBooking() model.Booking {
	return model.Booking{
		ID:          "b-1",
		Date:        "2025-01-02",
		StartTime:   "09:30",
		EndTime:     "10:45",
		RoomName:    "Orion",
		RoomFloor:   "3rd",
		UserName:    "Dana",
		UserEmail:   "dana@example.com",
		MeetingType: model.MeetingTypeExternal,
		Purpose:     "Quarterly review",
	}
}

func labels(rows []template.Row) []string {
	res := make([]string, len(rows))
	for i, row := range rows {
		res[i] = row.Label
	}

	return res
}

func unfold(ics string) string {
	return strings.ReplaceAll(ics, "\r\n ", "")
}

func TestBookingCardRows(t *testing.T) {
	persons := 6

	tests := []struct {
		name       string
		mutate     func(b *model.Booking)
		wantLabels []string
		check      func(t *testing.T, rows []template.Row)
	}{
		{
			name:       "optional rows omitted",
			mutate:     func(*model.Booking) {},
			wantLabels: []string{"Date", "Time", "Room", "Booked By", "Type", "Purpose"},
			check: func(t *testing.T, rows []template.Row) {
				assert.Equal(t, "09:30 – 10:45", rows[1].Value)
				assert.Equal(t, "Orion · 3rd", rows[2].Value)
				assert.Equal(t, "Dana (dana@example.com)", rows[3].Value)
			},
		},
		{
			name: "all optional rows present",
			mutate: func(b *model.Booking) {
				b.Persons = &persons
				b.Food = true
				b.VegNonveg = "veg"
				b.Remarks = "Projector needed"
			},
			wantLabels: []string{"Date", "Time", "Room", "Booked By", "Type", "Purpose", "Persons", "Food", "Remarks"},
			check: func(t *testing.T, rows []template.Row) {
				assert.Equal(t, "6", rows[6].Value)
				assert.Equal(t, "Yes – veg", rows[7].Value)
			},
		},
		{
			name: "food without preference",
			mutate: func(b *model.Booking) {
				b.Food = true
			},
			wantLabels: []string{"Date", "Time", "Room", "Booked By", "Type", "Purpose", "Food"},
			check: func(t *testing.T, rows []template.Row) {
				assert.Equal(t, "Yes – Not specified", rows[6].Value)
			},
		},
		{
			name: "room without floor and empty purpose",
			mutate: func(b *model.Booking) {
				b.RoomFloor = ""
				b.Purpose = ""
			},
			wantLabels: []string{"Date", "Time", "Room", "Booked By", "Type"},
			check: func(t *testing.T, rows []template.Row) {
				assert.Equal(t, "Orion", rows[2].Value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := sampleBooking()
			tt.mutate(&booking)

			rows := template.BookingCardRows(booking)

			assert.Equal(t, tt.wantLabels, labels(rows))

			for _, row := range rows {
				assert.NotEmpty(t, row.Value, row.Label)
			}

			tt.check(t, rows)
		})
	}
}

func TestComposer_RenderBase(t *testing.T) {
	composer := newComposer("")

	t.Run("preheader falls back to title and CTA is omitted", func(t *testing.T) {
		html, err := composer.RenderBase(template.Options{Title: "Booking Cancelled", Body: "<p>body</p>"})

		require.NoError(t, err)
		assert.Contains(t, html, `overflow:hidden;">Booking Cancelled</span>`)
		assert.Contains(t, html, "<p>body</p>")
		assert.NotContains(t, html, "<a href")
	})

	t.Run("CTA defaults to app URL and colour", func(t *testing.T) {
		html, err := composer.RenderBase(template.Options{
			Title: "Approved",
			CTA:   &template.CallToAction{Label: "View My Bookings"},
		})

		require.NoError(t, err)
		assert.Contains(t, html, `href="https://rooms.example.com"`)
		assert.Contains(t, html, "background:#3d6ce7")
		assert.Contains(t, html, "View My Bookings")
	})

	t.Run("user text is escaped", func(t *testing.T) {
		html, err := composer.RenderBase(template.Options{Title: "<script>alert(1)</script>"})

		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
		assert.Contains(t, html, "&lt;script&gt;")
	})
}

func TestComposer_RenderBookingCard(t *testing.T) {
	booking := sampleBooking()
	booking.Purpose = `<img src=x onerror="alert(1)">`

	card, err := newComposer("").RenderBookingCard(booking)

	require.NoError(t, err)
	assert.NotContains(t, string(card), "<img")
	assert.Contains(t, string(card), "Orion · 3rd")
	assert.NotContains(t, string(card), "Remarks")
}

func TestComposer_RenderBody(t *testing.T) {
	body, err := newComposer("").RenderBody(template.Body{
		Intro:  "A new meeting room booking has been submitted.",
		Notice: &template.Notice{Tone: template.ToneWarning, Text: "Approval required."},
	})

	require.NoError(t, err)
	assert.Contains(t, string(body), "background:#fef3c7")
	assert.Contains(t, string(body), "border-left:4px solid #d97706")
	assert.Contains(t, string(body), "Approval required.")
}

func TestComposer_BuildCalendarInvite(t *testing.T) {
	t.Run("invite fields", func(t *testing.T) {
		ics, err := newComposer("").BuildCalendarInvite(sampleBooking())

		require.NoError(t, err)

		out := unfold(ics)
		assert.Contains(t, out, "METHOD:REQUEST")
		assert.Contains(t, out, "UID:b-1@meetingbook")
		assert.Contains(t, out, "DTSTART:20250102T093000")
		assert.Contains(t, out, "DTEND:20250102T104500")
		assert.Contains(t, out, "SUMMARY:Quarterly review")
		assert.Contains(t, out, "STATUS:CONFIRMED")
		assert.Contains(t, out, "mailto:noreply@meetingbook.local")
		assert.Contains(t, out, "URL:https://rooms.example.com")
	})

	t.Run("organizer uses SMTP user", func(t *testing.T) {
		ics, err := newComposer("mailer@example.com").BuildCalendarInvite(sampleBooking())

		require.NoError(t, err)
		assert.Contains(t, unfold(ics), "mailto:mailer@example.com")
	})

	t.Run("uid is stable per booking and unique across bookings", func(t *testing.T) {
		composer := newComposer("")
		other := sampleBooking()
		other.ID = "b-2"

		first, err := composer.BuildCalendarInvite(sampleBooking())
		require.NoError(t, err)
		second, err := composer.BuildCalendarInvite(sampleBooking())
		require.NoError(t, err)
		third, err := composer.BuildCalendarInvite(other)
		require.NoError(t, err)

		assert.Contains(t, unfold(second), "UID:b-1@meetingbook")
		assert.Contains(t, unfold(first), "UID:b-1@meetingbook")
		assert.Contains(t, unfold(third), "UID:b-2@meetingbook")
	})

	t.Run("malformed time is rejected", func(t *testing.T) {
		booking := sampleBooking()
		booking.StartTime = "9.30"

		_, err := newComposer("").BuildCalendarInvite(booking)

		assert.Error(t, err)
	})
}
