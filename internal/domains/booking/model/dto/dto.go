package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"meetingbook/internal/domains/booking/model"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	"meetingbook/shared/failure"
	gModel "meetingbook/shared/model"
	"meetingbook/shared/timezone"

	"github.com/google/uuid"
)

// Requester is the authenticated user placing a booking.
type Requester struct {
	ID    string
	Name  string
	Email string
}

type CreateBookingRequest struct {
	RoomID      string   `json:"room_id"      validate:"required"`
	Date        string   `json:"date"         validate:"required,datetime=2006-01-02"`
	StartTime   string   `json:"start_time"   validate:"required,datetime=15:04"`
	EndTime     string   `json:"end_time"     validate:"required,datetime=15:04"`
	MeetingType string   `json:"meeting_type" validate:"required,oneof=internal external"`
	Purpose     string   `json:"purpose"      validate:"required,max=255"`
	Persons     *int     `json:"persons"      validate:"omitempty,min=1"`
	Food        bool     `json:"food"`
	VegNonveg   string   `json:"veg_nonveg"   validate:"omitempty,max=50"`
	Remarks     string   `json:"remarks"      validate:"omitempty,max=1000"`
	GuestEmails []string `json:"guest_emails" validate:"omitempty,max=50,dive,email"`
}

// Window checks that the booking ends after it starts.
func (c *CreateBookingRequest) Window() error {
	start, err := time.Parse(constant.BookingTime, c.StartTime)
	if err != nil {
		return failure.BadRequestFromString("Invalid start time") // nolint:wrapcheck
	}

	end, err := time.Parse(constant.BookingTime, c.EndTime)
	if err != nil {
		return failure.BadRequestFromString("Invalid end time") // nolint:wrapcheck
	}

	if !end.After(start) {
		return failure.BadRequestFromString("End time must be after start time") // nolint:wrapcheck
	}

	return nil
}

func (c *CreateBookingRequest) ToModel(requester Requester) (model.Booking, error) {
	guests := c.GuestEmails
	if guests == nil {
		guests = []string{}
	}

	encodedGuests, err := json.Marshal(guests)
	if err != nil {
		return model.Booking{}, fmt.Errorf("failed to encode guest emails: %w", err)
	}

	status := model.StatusPending
	if c.MeetingType == model.MeetingTypeInternal {
		status = model.StatusApproved
	}

	return model.Booking{
		ID:           uuid.NewString(),
		Date:         c.Date,
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
		RoomID:       c.RoomID,
		UserID:       requester.ID,
		UserName:     requester.Name,
		UserEmail:    requester.Email,
		MeetingType:  c.MeetingType,
		Purpose:      c.Purpose,
		Persons:      c.Persons,
		Food:         c.Food,
		VegNonveg:    c.VegNonveg,
		Remarks:      c.Remarks,
		GuestEmails:  string(encodedGuests),
		Status:       status,
		CheckinToken: uuid.NewString(),
		Metadata:     gModel.NewMetadata(requester.Email),
	}, nil
}

type RejectBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type StatusUpdate struct {
	Status          string  `db:"status"`
	RejectionReason *string `db:"rejection_reason"`
}

type BookingResponse struct {
	ID              string   `json:"id"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	RoomID          string   `json:"room_id"`
	RoomName        string   `json:"room_name"`
	RoomFloor       string   `json:"room_floor"`
	UserID          string   `json:"user_id"`
	UserName        string   `json:"user_name"`
	UserEmail       string   `json:"user_email"`
	MeetingType     string   `json:"meeting_type"`
	Purpose         string   `json:"purpose"`
	Persons         *int     `json:"persons"`
	Food            bool     `json:"food"`
	VegNonveg       string   `json:"veg_nonveg"`
	Remarks         string   `json:"remarks"`
	GuestEmails     []string `json:"guest_emails"`
	Status          string   `json:"status"`
	RejectionReason *string  `json:"rejection_reason"`
	CheckinToken    string   `json:"checkin_token"`
	CheckedIn       bool     `json:"checked_in"`
	CheckedInAt     *string  `json:"checked_in_at"`
	ReminderSent    bool     `json:"reminder_sent"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Date = model.Date
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.RoomID = model.RoomID
	r.RoomName = model.RoomName
	r.RoomFloor = model.RoomFloor
	r.UserID = model.UserID
	r.UserName = model.UserName
	r.UserEmail = model.UserEmail
	r.MeetingType = model.MeetingType
	r.Purpose = model.Purpose
	r.Persons = model.Persons
	r.Food = model.Food
	r.VegNonveg = model.VegNonveg
	r.Remarks = model.Remarks
	r.GuestEmails = model.Guests()
	r.Status = model.Status
	r.RejectionReason = model.RejectionReason
	r.CheckinToken = model.CheckinToken
	r.CheckedIn = model.CheckedIn
	r.ReminderSent = model.ReminderSent

	if model.CheckedInAt != nil {
		checkedInAt := timezone.Format(*model.CheckedInAt, constant.DateFormat)
		r.CheckedInAt = &checkedInAt
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	gDto.Pagination
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.Bookings = gDto.FromModels[model.Booking, BookingResponse](models)
	r.Pagination = gDto.NewPagination(totalData, limit)
}

// CheckinResponse is the public view shown on the check-in page.
type CheckinResponse struct {
	Purpose   string `json:"purpose"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	RoomName  string `json:"room_name"`
	RoomFloor string `json:"room_floor"`
	UserName  string `json:"user_name"`
	Status    string `json:"status"`
	CheckedIn bool   `json:"checked_in"`
}

func (r *CheckinResponse) FromModel(model model.Booking) {
	r.Purpose = model.Purpose
	r.Date = model.Date
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.RoomName = model.RoomName
	r.RoomFloor = model.RoomFloor
	r.UserName = model.UserName
	r.Status = model.Status
	r.CheckedIn = model.CheckedIn
}
