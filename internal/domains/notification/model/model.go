package model

import "time"

type EventType string

// Booking lifecycle events routed to the notification triggers.
const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingApproved  EventType = "booking.approved"
	EventBookingRejected  EventType = "booking.rejected"
	EventBookingCancelled EventType = "booking.cancelled"
)

type Event struct {
	Type       EventType `json:"type"`
	BookingID  string    `json:"booking_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Email types recorded in the email log.
const (
	EmailTypeNewBookingAdmin = "new_booking_admin"
	EmailTypeApproved        = "approved"
	EmailTypeGuestInvite     = "guest_invite"
	EmailTypeRejected        = "rejected"
	EmailTypeCancelledAdmin  = "cancelled_admin"
	EmailTypeCancelledUser   = "cancelled_user"
	EmailTypeReminder        = "reminder"
	EmailTypeTest            = "test"
)
