package template

import (
	"fmt"
	"strconv"

	"meetingbook/internal/domains/booking/model"
)

type Row struct {
	Icon  string
	Label string
	Value string
}

// BookingCardRows lists the booking detail rows in display order. Rows without a value are dropped.
func BookingCardRows(booking model.Booking) []Row {
	room := booking.RoomName
	if booking.RoomFloor != "" {
		room += " · " + booking.RoomFloor
	}

	rows := []Row{
		{Icon: "📅", Label: "Date", Value: booking.Date},
		{Icon: "⏰", Label: "Time", Value: fmt.Sprintf("%s – %s", booking.StartTime, booking.EndTime)},
		{Icon: "🏢", Label: "Room", Value: room},
		{Icon: "👤", Label: "Booked By", Value: fmt.Sprintf("%s (%s)", booking.UserName, booking.UserEmail)},
		{Icon: "📋", Label: "Type", Value: booking.MeetingType},
		{Icon: "🎯", Label: "Purpose", Value: booking.Purpose},
	}

	if booking.Persons != nil && *booking.Persons > 0 {
		rows = append(rows, Row{Icon: "👥", Label: "Persons", Value: strconv.Itoa(*booking.Persons)})
	}

	if booking.Food {
		preference := booking.VegNonveg
		if preference == "" {
			preference = "Not specified"
		}

		rows = append(rows, Row{Icon: "🍽️", Label: "Food", Value: "Yes – " + preference})
	}

	rows = append(rows, Row{Icon: "📝", Label: "Remarks", Value: booking.Remarks})

	visible := rows[:0]
	for _, row := range rows {
		if row.Value != "" {
			visible = append(visible, row)
		}
	}

	return visible
}
