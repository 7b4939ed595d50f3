package model

import (
	"encoding/json"
	"strings"
	"time"

	"meetingbook/shared/constant"
	"meetingbook/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldDate            = "date"
	FieldStartTime       = "start_time"
	FieldEndTime         = "end_time"
	FieldRoomID          = "room_id"
	FieldUserID          = "user_id"
	FieldMeetingType     = "meeting_type"
	FieldStatus          = "status"
	FieldRejectionReason = "rejection_reason"
	FieldCheckinToken    = "checkin_token"
	FieldCheckedIn       = "checked_in"
	FieldCheckedInAt     = "checked_in_at"
	FieldReminderSent    = "reminder_sent"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	MeetingTypeInternal = "internal"
	MeetingTypeExternal = "external"
)

type Booking struct {
	ID              string     `db:"id"`
	Date            string     `db:"date"`
	StartTime       string     `db:"start_time"`
	EndTime         string     `db:"end_time"`
	RoomID          string     `db:"room_id"`
	RoomName        string     `db:"room_name"        table:"rooms" column:"name"`
	RoomFloor       string     `db:"room_floor"       table:"rooms" column:"floor"`
	UserID          string     `db:"user_id"`
	UserName        string     `db:"user_name"`
	UserEmail       string     `db:"user_email"`
	MeetingType     string     `db:"meeting_type"`
	Purpose         string     `db:"purpose"`
	Persons         *int       `db:"persons"`
	Food            bool       `db:"food"`
	VegNonveg       string     `db:"veg_nonveg"`
	Remarks         string     `db:"remarks"`
	GuestEmails     string     `db:"guest_emails"`
	Status          string     `db:"status"`
	RejectionReason *string    `db:"rejection_reason"`
	CheckinToken    string     `db:"checkin_token"`
	CheckedIn       bool       `db:"checked_in"`
	CheckedInAt     *time.Time `db:"checked_in_at"`
	ReminderSent    bool       `db:"reminder_sent"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = bookings.room_id"
}

// Guests decodes the stored guest list. A malformed value yields no guests.
func (b Booking) Guests() []string {
	if b.GuestEmails == "" {
		return nil
	}

	var guests []string
	if err := json.Unmarshal([]byte(b.GuestEmails), &guests); err != nil {
		return nil
	}

	return guests
}

// StartsAt resolves the booking start in loc.
func (b Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(constant.BookingDateTime, b.Date+" "+b.StartTime, loc)
}

func (b Booking) IsExternal() bool {
	return b.MeetingType == MeetingTypeExternal
}

// CheckinURL is the public landing page encoded in the QR code and the reminder email.
func (b Booking) CheckinURL(appURL string) string {
	return strings.TrimRight(appURL, "/") + "/checkin/" + b.CheckinToken
}
