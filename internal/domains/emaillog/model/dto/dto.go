package dto

import (
	"meetingbook/internal/domains/emaillog/model"
	"meetingbook/shared/constant"
	"meetingbook/shared/timezone"
)

type EmailLogResponse struct {
	ID        string  `json:"id"`
	BookingID *string `json:"booking_id"`
	Recipient string  `json:"recipient"`
	Subject   string  `json:"subject"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Error     *string `json:"error"`
	SentAt    string  `json:"sent_at"`
}

func (r *EmailLogResponse) FromModel(model model.EmailLog) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.Recipient = model.Recipient
	r.Subject = model.Subject
	r.Type = model.Type
	r.Status = model.Status
	r.Error = model.Error
	r.SentAt = timezone.Format(model.SentAt, constant.DateFormat)
}

func FromModels(models []model.EmailLog) []EmailLogResponse {
	res := make([]EmailLogResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
