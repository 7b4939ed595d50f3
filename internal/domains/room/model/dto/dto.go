package dto

import (
	"mime/multipart"

	"meetingbook/internal/domains/room/model"
	gDto "meetingbook/shared/dto"
	gModel "meetingbook/shared/model"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name      string                `json:"name"     validate:"required,max=100"`
	Floor     string                `json:"floor"    validate:"omitempty,max=50"`
	Capacity  int                   `json:"capacity" validate:"omitempty,min=0"`
	Image     *multipart.FileHeader `json:"image"    validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	ImageFile multipart.File        `json:"-"`
	Active    *bool                 `json:"active"   validate:"omitempty"`
}

// ToModel creates the room active unless the form said otherwise.
func (c *CreateRoomRequest) ToModel(actor string, imageURL string) model.Room {
	return model.Room{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Floor:    c.Floor,
		Capacity: c.Capacity,
		Image:    imageURL,
		Active:   c.Active == nil || *c.Active,
		Metadata: gModel.NewMetadata(actor),
	}
}

type UpdateRoomRequest struct {
	Name      *string               `db:"name"     json:"name"     validate:"omitempty,max=100"`
	Floor     *string               `db:"floor"    json:"floor"    validate:"omitempty,max=50"`
	Capacity  *int                  `db:"capacity" json:"capacity" validate:"omitempty,min=0"`
	Image     *multipart.FileHeader `json:"image"  validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	ImageFile multipart.File        `json:"-"`
	Active    *bool                 `db:"active"   json:"active"   validate:"omitempty"`
}

// Fields returns the column updates carried by the request, excluding the image upload.
func (u *UpdateRoomRequest) Fields() UpdateRoomFields {
	return UpdateRoomFields{
		Name:     u.Name,
		Floor:    u.Floor,
		Capacity: u.Capacity,
		Active:   u.Active,
	}
}

type UpdateRoomFields struct {
	Name     *string `db:"name"`
	Floor    *string `db:"floor"`
	Capacity *int    `db:"capacity"`
	Image    *string `db:"image"`
	Active   *bool   `db:"active"`
}

type RoomResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Floor    string `json:"floor"`
	Capacity int    `json:"capacity"`
	Image    string `json:"image"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(room model.Room) {
	*r = RoomResponse{
		ID:       room.ID,
		Name:     room.Name,
		Floor:    room.Floor,
		Capacity: room.Capacity,
		Image:    room.Image,
		Active:   room.Active,
	}
	r.Metadata.FromModel(room.Metadata)
}

type GetRoomsResponse struct {
	Rooms []RoomResponse `json:"rooms"`
	gDto.Pagination
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.Rooms = gDto.FromModels[model.Room, RoomResponse](models)
	r.Pagination = gDto.NewPagination(totalData, limit)
}
