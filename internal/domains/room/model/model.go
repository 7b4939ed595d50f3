package model

import "meetingbook/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"
)

// Columns of the rooms table.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldFloor    = "floor"
	FieldCapacity = "capacity"
	FieldImage    = "image"
	FieldActive   = "active"
)

// Room is a bookable space. Image holds the public URL of the uploaded photo, if any.
type Room struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Floor    string `db:"floor"`
	Capacity int    `db:"capacity"`
	Image    string `db:"image"`
	Active   bool   `db:"active"`
	model.Metadata
}

// Bookable reports whether the room exists and takes new bookings.
func (r Room) Bookable() bool {
	return r.ID != "" && r.Active
}
