package model

import "time"

const (
	TableName  = "email_log"
	EntityName = "email_log"

	FieldID     = "id"
	FieldSentAt = "sent_at"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// EmailLog is one delivery attempt. Rows are append-only.
type EmailLog struct {
	ID        string    `db:"id"`
	BookingID *string   `db:"booking_id"`
	Recipient string    `db:"recipient"`
	Subject   string    `db:"subject"`
	Type      string    `db:"type"`
	Status    string    `db:"status"`
	Error     *string   `db:"error"`
	SentAt    time.Time `db:"sent_at"`
}
