package model

import "time"

const (
	TableName  = "settings"
	EntityName = "setting"

	FieldKey = "key"

	KeySMTPConfigured = "smtp_configured"
	KeySMTPUser       = "smtp_user"
)

// Setting is a free-form key/value pair. Writes overwrite.
type Setting struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}
