package room

import (
	"net/http"

	"meetingbook/infras/otel"
	"meetingbook/internal/domains/room/model"
	"meetingbook/internal/domains/room/service"
	"meetingbook/internal/handlers"
	"meetingbook/shared"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	"meetingbook/shared/validator"
	"meetingbook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts /rooms. Reads are open to every signed-in user, writes are admin only.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(rooms chi.Router) {
		rooms.Get("/", handler.GetRooms)
		rooms.Post("/", handler.CreateRoom)
		rooms.Get("/{id}", handler.GetRoomByID)
		rooms.Put("/{id}", handler.UpdateRoom)
		rooms.Delete("/{id}", handler.DeleteRoom)
	})
}

func listFilter(r *http.Request) gDto.FilterGroup {
	query := r.URL.Query()
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	for _, field := range []string{model.FieldName, model.FieldFloor} {
		if value := query.Get(field); value != "" {
			group.Filters = append(group.Filters, gDto.Filter{Field: field, Operator: gDto.FilterOperatorLike, Value: value, Table: model.TableName})
		}
	}

	if active := shared.ConvertStringToBool(query.Get(model.FieldActive)); active != nil {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: *active, Table: model.TableName})
	}

	return group
}

// CreateRoom godoc
// @Summary Create a room
// @Description The optional image is uploaded to object storage and its URL stored on the room.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Room name"
// @Param floor formData string false "Floor"
// @Param capacity formData integer false "Seats"
// @Param active formData boolean false "Accepts bookings, default true"
// @Param image formData file false "Photo (png, jpeg or webp, up to 2 MB)"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Router /rooms [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "CreateRoom")
	defer scope.End()

	form, err := readRoomForm(r)
	defer form.close()

	if err != nil {
		handlers.Fail(w, scope, err, "invalid room form")

		return
	}

	req := form.createRequest()
	if err = validator.ValidateStruct(&req); err != nil {
		handlers.Fail(w, scope, err, "invalid create room request")

		return
	}

	if err = handler.service.Create(r.Context(), req); err != nil {
		handlers.Fail(w, scope, err, "failed to create room")

		return
	}

	response.WithMessage(w, http.StatusCreated, "Room created successfully")
}

// GetRooms godoc
// @Summary List rooms
// @Tags Room
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination and sorting"
// @Param name query string false "Name contains"
// @Param floor query string false "Floor contains"
// @Param active query boolean false "Only active or inactive rooms"
// @Success 200 {object} response.Data[dto.GetRoomsResponse]
// @Router /rooms [get]
// @Security BearerAuth
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "GetRooms")
	defer scope.End()

	var params gDto.QueryParams
	params.FromRequest(r, true)

	rooms, err := handler.service.GetAll(r.Context(), params, listFilter(r))
	if err != nil {
		handlers.Fail(w, scope, err, "failed to list rooms")

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID godoc
// @Summary Get a room
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse]
// @Failure 404 {object} response.Error
// @Router /rooms/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "GetRoomByID")
	defer scope.End()

	room, err := handler.service.Get(r.Context(), chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		handlers.Fail(w, scope, err, "failed to get room")

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom godoc
// @Summary Update a room
// @Description Only the fields sent are changed. A new image replaces the old one.
// @Tags Room
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Room ID"
// @Param name formData string false "Room name"
// @Param floor formData string false "Floor"
// @Param capacity formData integer false "Seats"
// @Param active formData boolean false "Accepts bookings"
// @Param image formData file false "Photo (png, jpeg or webp, up to 2 MB)"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /rooms/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "UpdateRoom")
	defer scope.End()

	form, err := readRoomForm(r)
	defer form.close()

	if err != nil {
		handlers.Fail(w, scope, err, "invalid room form")

		return
	}

	req := form.updateRequest()
	if err = validator.ValidateStruct(&req); err != nil {
		handlers.Fail(w, scope, err, "invalid update room request")

		return
	}

	if err = handler.service.Update(r.Context(), req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		handlers.Fail(w, scope, err, "failed to update room")

		return
	}

	response.WithMessage(w, http.StatusOK, "Room updated successfully")
}

// DeleteRoom godoc
// @Summary Delete a room
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Room still has bookings"
// @Router /rooms/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "DeleteRoom")
	defer scope.End()

	if err := handler.service.Delete(r.Context(), chi.URLParam(r, constant.RequestParamID)); err != nil {
		handlers.Fail(w, scope, err, "failed to delete room")

		return
	}

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}
