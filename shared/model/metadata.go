package model

import (
	"time"

	"meetingbook/shared/timezone"
)

// Metadata is the audit block every table carries.
type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"  json:"created_by"`
	ModifiedBy string    `db:"modified_by" json:"modified_by"`
}

// NewMetadata stamps a new row as created and last modified by actor, now.
func NewMetadata(actor string) Metadata {
	now := timezone.Now()

	return Metadata{CreatedAt: now, ModifiedAt: now, CreatedBy: actor, ModifiedBy: actor}
}
