package template

import (
	"fmt"
	"strings"
	"time"

	"meetingbook/internal/domains/booking/model"
	"meetingbook/shared/constant"

	ics "github.com/arran4/golang-ical"
)

const (
	CalendarFilename = "meeting-invite.ics"
	defaultOrganizer = "noreply@meetingbook.local"
	uidDomain        = "meetingbook"
	icsDateTime      = "20060102T150405"
)

// BuildCalendarInvite renders a METHOD:REQUEST invite for the booking.
// Times are floating local times, exactly as booked.
func (c *Composer) BuildCalendarInvite(booking model.Booking) (string, error) {
	start, err := time.Parse(constant.BookingDateTime, booking.Date+" "+booking.StartTime)
	if err != nil {
		return "", fmt.Errorf("invalid booking start %q %q: %w", booking.Date, booking.StartTime, err)
	}

	end, err := time.Parse(constant.BookingDateTime, booking.Date+" "+booking.EndTime)
	if err != nil {
		return "", fmt.Errorf("invalid booking end %q %q: %w", booking.Date, booking.EndTime, err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId(fmt.Sprintf("-//%s//Meeting Room Booking//EN", c.appName))

	event := cal.AddEvent(fmt.Sprintf("%s@%s", booking.ID, uidDomain))
	event.SetDtStampTime(time.Now().UTC())
	event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsDateTime))
	event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsDateTime))
	event.SetSummary(booking.Purpose)
	event.SetDescription(fmt.Sprintf("Room: %s\nFloor: %s\nBooked by: %s", booking.RoomName, booking.RoomFloor, booking.UserName))
	event.SetLocation(location(booking))
	event.SetOrganizer("mailto:"+c.organizer, ics.WithCN(c.appName+" Meeting Room"))
	event.SetStatus(ics.ObjectStatusConfirmed)
	event.SetURL(c.appURL)

	return cal.Serialize(), nil
}

func location(booking model.Booking) string {
	parts := []string{booking.RoomName}
	if booking.RoomFloor != "" {
		parts = append(parts, booking.RoomFloor)
	}

	return strings.Join(parts, ", ")
}
