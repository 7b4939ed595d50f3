package room

import (
	"errors"
	"mime/multipart"
	"net/http"

	"meetingbook/internal/domains/room/model"
	"meetingbook/internal/domains/room/model/dto"
	"meetingbook/shared"
	"meetingbook/shared/constant"
	"meetingbook/shared/failure"
)

// roomForm is the multipart body shared by create and update. Absent fields stay nil.
type roomForm struct {
	name     *string
	floor    *string
	capacity *int
	active   *bool
	image    *multipart.FileHeader
	file     multipart.File
}

func (f roomForm) close() {
	if f.file != nil {
		f.file.Close()
	}
}

func optional(r *http.Request, key string) *string {
	if value := r.FormValue(key); value != "" {
		return &value
	}

	return nil
}

// readRoomForm parses the multipart body. Malformed capacity or active values are 400s.
func readRoomForm(r *http.Request) (form roomForm, err error) {
	if err = r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return form, failure.BadRequest(err) // nolint:wrapcheck
	}

	form.name = optional(r, model.FieldName)
	form.floor = optional(r, model.FieldFloor)

	if raw := optional(r, model.FieldCapacity); raw != nil {
		capacity, err := shared.ConvertStringToInt(*raw)
		if err != nil {
			return form, failure.BadRequestFromString("capacity must be a number") // nolint:wrapcheck
		}

		form.capacity = &capacity
	}

	if raw := optional(r, model.FieldActive); raw != nil {
		if form.active = shared.ConvertStringToBool(*raw); form.active == nil {
			return form, failure.BadRequestFromString("active must be true or false") // nolint:wrapcheck
		}
	}

	form.file, form.image, err = r.FormFile(model.FieldImage)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		return form, failure.BadRequest(err) // nolint:wrapcheck
	}

	return form, nil
}

func (f roomForm) createRequest() dto.CreateRoomRequest {
	req := dto.CreateRoomRequest{Active: f.active, Image: f.image, ImageFile: f.file}

	if f.name != nil {
		req.Name = *f.name
	}

	if f.floor != nil {
		req.Floor = *f.floor
	}

	if f.capacity != nil {
		req.Capacity = *f.capacity
	}

	return req
}

func (f roomForm) updateRequest() dto.UpdateRoomRequest {
	return dto.UpdateRoomRequest{
		Name:      f.name,
		Floor:     f.floor,
		Capacity:  f.capacity,
		Active:    f.active,
		Image:     f.image,
		ImageFile: f.file,
	}
}
