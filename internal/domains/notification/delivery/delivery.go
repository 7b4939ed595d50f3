package delivery

//go:generate go run go.uber.org/mock/mockgen -source=./delivery.go -destination=./mocks/delivery_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"meetingbook/infras/otel"
	"meetingbook/infras/smtp"
	emailLogModel "meetingbook/internal/domains/emaillog/model"
	emailLogRepo "meetingbook/internal/domains/emaillog/repository"
	"meetingbook/shared/constant"
	"meetingbook/shared/metrics"
	"meetingbook/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const statusSkipped = "skipped"

type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []smtp.Attachment
	Type        string
	BookingID   *string
}

type Result struct {
	Skipped bool
	Sent    bool
	Error   string
}

// Deliverer sends one email and records the outcome in the email log.
type Deliverer interface {
	Configured() bool
	Deliver(ctx context.Context, msg Message) Result
}

type delivererImpl struct {
	sender smtp.Sender
	logs   emailLogRepo.EmailLog
	otel   otel.Otel
}

func New(sender smtp.Sender, logs emailLogRepo.EmailLog, otel otel.Otel) Deliverer {
	return &delivererImpl{
		sender: sender,
		logs:   logs,
		otel:   otel,
	}
}

func (d *delivererImpl) Configured() bool {
	return d.sender.Configured()
}

// Deliver never returns an error; failures are reported through Result and the email log.
func (d *delivererImpl) Deliver(ctx context.Context, msg Message) (res Result) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Deliver")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		"email.type":      msg.Type,
		"email.recipient": msg.To,
	})

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("email delivery panicked: %v", r)
			log.Error().Err(err).Str("type", msg.Type).Str("to", msg.To).Msg("email delivery panicked")
			scope.TraceError(err)

			res = Result{Error: err.Error()}
		}
	}()

	// Skipped sends are not written to the email log.
	if !d.sender.Configured() {
		log.Info().Str("type", msg.Type).Str("to", msg.To).Str("subject", msg.Subject).Msg("SMTP not configured, skipping email")
		metrics.IncEmail(msg.Type, statusSkipped)

		return Result{Skipped: true}
	}

	started := time.Now()
	err := d.sender.Send(ctx, smtp.Envelope{
		To:          msg.To,
		Subject:     msg.Subject,
		HTML:        msg.HTML,
		Attachments: msg.Attachments,
	})
	metrics.ObserveEmailDuration(msg.Type, time.Since(started).Seconds())

	entry := emailLogModel.EmailLog{
		ID:        uuid.NewString(),
		BookingID: msg.BookingID,
		Recipient: msg.To,
		Subject:   msg.Subject,
		Type:      msg.Type,
		Status:    emailLogModel.StatusSent,
		SentAt:    timezone.Now(),
	}

	if err != nil {
		errText := err.Error()
		entry.Status = emailLogModel.StatusFailed
		entry.Error = &errText

		log.Error().Err(err).Str("type", msg.Type).Str("to", msg.To).Msg("failed to send email")
		scope.TraceError(err)

		res = Result{Error: errText}
	} else {
		log.Info().Str("type", msg.Type).Str("to", msg.To).Msg("email sent")

		res = Result{Sent: true}
	}

	metrics.IncEmail(msg.Type, entry.Status)
	d.record(ctx, entry)

	return res
}

func (d *delivererImpl) record(ctx context.Context, entry emailLogModel.EmailLog) {
	if err := d.logs.Insert(ctx, entry); err != nil {
		log.Error().Err(err).Str("type", entry.Type).Str("status", entry.Status).Msg("failed to write email log")
	}
}
