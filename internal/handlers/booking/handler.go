package booking

import (
	"net/http"

	"meetingbook/infras/otel"
	"meetingbook/internal/domains/booking/model"
	"meetingbook/internal/domains/booking/model/dto"
	"meetingbook/internal/domains/booking/service"
	"meetingbook/internal/handlers"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	"meetingbook/shared/validator"
	"meetingbook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

// filterable lists the query parameters GetBookings turns into equality filters.
var filterable = []string{model.FieldRoomID, model.FieldStatus, model.FieldDate}

// Handler serves /api/bookings. Approve and reject are admin-only; the service
// scopes everything else to the caller unless the caller is an admin.
type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(bookings chi.Router) {
		bookings.Post("/", handler.CreateBooking)
		bookings.Get("/", handler.GetBookings)
		bookings.Get("/{id}", handler.GetBookingByID)
		bookings.Put("/{id}/approve", handler.ApproveBooking)
		bookings.Put("/{id}/reject", handler.RejectBooking)
		bookings.Put("/{id}/cancel", handler.CancelBooking)
		bookings.Get("/{id}/qr", handler.GetBookingQRCode)
	})
}

func bookingID(r *http.Request) string {
	return chi.URLParam(r, constant.RequestParamID)
}

// listParams defaults to newest date first and adds an equality filter per
// filterable query parameter present.
func listParams(r *http.Request) (gDto.QueryParams, gDto.FilterGroup) {
	var params gDto.QueryParams
	params.FromRequest(r, true)

	if params.SortBy == "" {
		params.SortBy, params.SortDir = model.FieldDate, gDto.SortDirDesc
	}

	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	for _, field := range filterable {
		if value := r.URL.Query().Get(field); value != "" {
			group.Filters = append(group.Filters, gDto.Filter{Field: field, Operator: gDto.FilterOperatorEq, Value: value, Table: model.TableName})
		}
	}

	return params, group
}

// CreateBooking godoc
// @Summary Book a room
// @Description Internal meetings are approved immediately, external meetings wait for an admin.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "Slot overlaps an existing booking"
// @Router /bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "CreateBooking")
	defer scope.End()

	var req dto.CreateBookingRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		handlers.Fail(w, scope, err, "invalid booking request")

		return
	}

	booking, err := handler.service.Create(r.Context(), req)
	if err != nil {
		handlers.Fail(w, scope, err, "failed to create booking")

		return
	}

	scope.AddEvent("booking " + booking.Status)
	response.WithJSON(w, http.StatusCreated, booking)
}

// GetBookings godoc
// @Summary List bookings
// @Description Admins see every booking, other users only their own.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination"
// @Param room_id query string false "Room ID"
// @Param status query string false "pending, approved, rejected or cancelled"
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Router /bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "GetBookings")
	defer scope.End()

	params, filter := listParams(r)

	bookings, err := handler.service.GetAll(r.Context(), params, filter)
	if err != nil {
		handlers.Fail(w, scope, err, "failed to list bookings")

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID godoc
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "GetBookingByID")
	defer scope.End()

	booking, err := handler.service.Get(r.Context(), bookingID(r))
	if err != nil {
		handlers.Fail(w, scope, err, "failed to get booking")

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// ApproveBooking godoc
// @Summary Approve a pending booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /bookings/{id}/approve [put]
// @Security BearerAuth
func (handler *Handler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "ApproveBooking")
	defer scope.End()

	if err := handler.service.Approve(r.Context(), bookingID(r)); err != nil {
		handlers.Fail(w, scope, err, "failed to approve booking")

		return
	}

	response.WithMessage(w, http.StatusOK, "Booking approved")
}

// RejectBooking godoc
// @Summary Reject a pending booking
// @Description The body is optional; without it the booking is rejected with no reason.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.RejectBookingRequest false "Reason"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /bookings/{id}/reject [put]
// @Security BearerAuth
func (handler *Handler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "RejectBooking")
	defer scope.End()

	var req dto.RejectBookingRequest

	err := handlers.DecodeOptional(r, &req)
	if err == nil {
		err = validator.ValidateStruct(&req)
	}

	if err != nil {
		handlers.Fail(w, scope, err, "invalid reject request")

		return
	}

	if err = handler.service.Reject(r.Context(), bookingID(r), req); err != nil {
		handlers.Fail(w, scope, err, "failed to reject booking")

		return
	}

	response.WithMessage(w, http.StatusOK, "Booking rejected")
}

// CancelBooking godoc
// @Summary Cancel a pending or approved booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /bookings/{id}/cancel [put]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "CancelBooking")
	defer scope.End()

	if err := handler.service.Cancel(r.Context(), bookingID(r)); err != nil {
		handlers.Fail(w, scope, err, "failed to cancel booking")

		return
	}

	response.WithMessage(w, http.StatusOK, "Booking cancelled")
}

// GetBookingQRCode godoc
// @Summary Check-in QR code
// @Description PNG encoding the public check-in link of the booking.
// @Tags Booking
// @Produce png
// @Param id path string true "Booking ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Error
// @Router /bookings/{id}/qr [get]
// @Security BearerAuth
func (handler *Handler) GetBookingQRCode(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "GetBookingQRCode")
	defer scope.End()

	png, err := handler.service.QRCode(r.Context(), bookingID(r))
	if err != nil {
		handlers.Fail(w, scope, err, "failed to render QR code")

		return
	}

	response.WithBytes(w, http.StatusOK, constant.ContentTypePNG, png)
}
