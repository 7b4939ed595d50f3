package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"meetingbook/config"
	"meetingbook/infras/otel"
	"meetingbook/infras/smtp"
	bookingModel "meetingbook/internal/domains/booking/model"
	bookingRepo "meetingbook/internal/domains/booking/repository"
	"meetingbook/internal/domains/notification/delivery"
	"meetingbook/internal/domains/notification/model"
	"meetingbook/internal/domains/notification/template"
	userRepo "meetingbook/internal/domains/user/repository"
	"meetingbook/shared"
	"meetingbook/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	subjectPrefix = "[MRB]"

	colorSuccess = "#16a34a"
	colorWarning = "#d97706"
	colorDanger  = "#dc2626"
	colorMuted   = "#64748b"

	defaultRejectionReason = "No reason provided"
)

// Notification holds one trigger per lifecycle email. Every trigger keeps going after a failed recipient.
type Notification interface {
	NewBooking(ctx context.Context, booking bookingModel.Booking) error
	Approved(ctx context.Context, booking bookingModel.Booking) error
	Rejected(ctx context.Context, booking bookingModel.Booking) error
	Cancelled(ctx context.Context, booking bookingModel.Booking) error
	Reminder(ctx context.Context, booking bookingModel.Booking) error
	Test(ctx context.Context, to string) (delivery.Result, error)
	Handle(ctx context.Context, event model.Event) error
}

type serviceImpl struct {
	cfg       *config.Config
	otel      otel.Otel
	deliverer delivery.Deliverer
	composer  *template.Composer
	users     userRepo.User
	bookings  bookingRepo.Booking
}

func New(
	cfg *config.Config,
	otel otel.Otel,
	deliverer delivery.Deliverer,
	composer *template.Composer,
	users userRepo.User,
	bookings bookingRepo.Booking,
) Notification {
	return &serviceImpl{
		cfg:       cfg,
		otel:      otel,
		deliverer: deliverer,
		composer:  composer,
		users:     users,
		bookings:  bookings,
	}
}

func (s *serviceImpl) NewBooking(ctx context.Context, booking bookingModel.Booking) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".NewBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	admins, err := s.users.ActiveAdminEmails(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load admin recipients")

		return fmt.Errorf("failed to load admin recipients: %w", err)
	}

	notice := &template.Notice{Tone: template.ToneSuccess, Text: "✅ Internal meeting — auto-approved."}
	cta := &template.CallToAction{Label: "View Dashboard", URL: s.composer.AppURL(), Color: template.DefaultCTAColor}

	if booking.IsExternal() {
		notice = &template.Notice{Tone: template.ToneWarning, Text: "⚠️ This is an EXTERNAL meeting — approval required."}
		cta = &template.CallToAction{Label: "Review & Approve", URL: s.composer.AppURL(), Color: colorWarning}
	}

	html, err := s.render(booking, "📅 New Booking Request",
		fmt.Sprintf("%s booked %s on %s", booking.UserName, booking.RoomName, booking.Date),
		template.Body{Intro: "A new meeting room booking has been submitted.", Notice: notice},
		cta,
	)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s New Booking – %s on %s", subjectPrefix, booking.RoomName, booking.Date)

	for _, admin := range admins {
		s.deliver(ctx, booking, admin, subject, html, model.EmailTypeNewBookingAdmin, nil)
	}

	return nil
}

func (s *serviceImpl) Approved(ctx context.Context, booking bookingModel.Booking) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Approved")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	invite, err := s.composer.BuildCalendarInvite(booking)
	if err != nil {
		log.Error().Err(err).Str("booking", booking.ID).Msg("failed to build calendar invite")

		return fmt.Errorf("failed to build calendar invite: %w", err)
	}

	attachments := []smtp.Attachment{{
		Filename:    template.CalendarFilename,
		ContentType: constant.ContentTypeCalendarRequest,
		Content:     []byte(invite),
	}}

	html, err := s.render(booking, "✅ Booking Approved!",
		fmt.Sprintf("Your booking for %s on %s is confirmed", booking.RoomName, booking.Date),
		template.Body{
			Intro:  "Great news! Your meeting room booking has been approved.",
			Notice: &template.Notice{Tone: template.ToneSuccess, Text: "✅ Your booking is confirmed. A calendar invite is attached."},
		},
		&template.CallToAction{Label: "View My Bookings", URL: s.composer.AppURL(), Color: colorSuccess},
	)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s ✅ Approved – %s on %s", subjectPrefix, booking.RoomName, booking.Date)
	s.deliver(ctx, booking, booking.UserEmail, subject, html, model.EmailTypeApproved, attachments)

	guests := booking.Guests()
	if len(guests) == 0 {
		return nil
	}

	guestHTML, err := s.render(booking, "📅 You're invited to a meeting",
		fmt.Sprintf("%s has invited you to a meeting", booking.UserName),
		template.Body{Intro: fmt.Sprintf("You have been invited to the following meeting at %s.", s.cfg.App.Name)},
		&template.CallToAction{Label: "Add to Calendar", URL: s.composer.AppURL(), Color: template.DefaultCTAColor},
	)
	if err != nil {
		return err
	}

	guestSubject := fmt.Sprintf("[%s] Meeting Invite – %s on %s", s.cfg.App.Name, booking.Purpose, booking.Date)

	for _, guest := range guests {
		s.deliver(ctx, booking, guest, guestSubject, guestHTML, model.EmailTypeGuestInvite, attachments)
	}

	return nil
}

func (s *serviceImpl) Rejected(ctx context.Context, booking bookingModel.Booking) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Rejected")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reason := defaultRejectionReason
	if booking.RejectionReason != nil && *booking.RejectionReason != "" {
		reason = *booking.RejectionReason
	}

	html, err := s.render(booking, "❌ Booking Not Approved",
		fmt.Sprintf("Your booking for %s was not approved", booking.RoomName),
		template.Body{
			Intro:  "Unfortunately, your meeting room booking could not be approved.",
			Notice: &template.Notice{Tone: template.ToneDanger, Label: "Reason: ", Text: reason},
			Outro:  "Please try booking a different time slot or contact admin for assistance.",
		},
		&template.CallToAction{Label: "Book Another Slot", URL: s.composer.AppURL(), Color: colorDanger},
	)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s ❌ Booking Not Approved – %s on %s", subjectPrefix, booking.RoomName, booking.Date)
	s.deliver(ctx, booking, booking.UserEmail, subject, html, model.EmailTypeRejected, nil)

	return nil
}

func (s *serviceImpl) Cancelled(ctx context.Context, booking bookingModel.Booking) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Cancelled")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	admins, err := s.users.ActiveAdminEmails(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load admin recipients")

		return fmt.Errorf("failed to load admin recipients: %w", err)
	}

	adminHTML, err := s.render(booking, "🚫 Booking Cancelled",
		fmt.Sprintf("%s cancelled their booking for %s", booking.UserName, booking.RoomName),
		template.Body{Intro: "A meeting room booking has been cancelled. The slot is now available."},
		&template.CallToAction{Label: "View Dashboard", URL: s.composer.AppURL(), Color: colorMuted},
	)
	if err != nil {
		return err
	}

	adminSubject := fmt.Sprintf("%s Cancelled – %s on %s", subjectPrefix, booking.RoomName, booking.Date)

	for _, admin := range admins {
		s.deliver(ctx, booking, admin, adminSubject, adminHTML, model.EmailTypeCancelledAdmin, nil)
	}

	userHTML, err := s.render(booking, "🚫 Booking Cancelled", "",
		template.Body{Intro: "Your booking has been successfully cancelled."},
		nil,
	)
	if err != nil {
		return err
	}

	userSubject := fmt.Sprintf("%s Cancellation Confirmed – %s on %s", subjectPrefix, booking.RoomName, booking.Date)
	s.deliver(ctx, booking, booking.UserEmail, userSubject, userHTML, model.EmailTypeCancelledUser, nil)

	return nil
}

// Reminder claims the booking by flipping reminder_sent from false to true and mails the
// requester only when the claim succeeded, so a booking is reminded at most once even when
// two jobs see it due. The delivery outcome does not release the claim.
func (s *serviceImpl) Reminder(ctx context.Context, booking bookingModel.Booking) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Reminder")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	marked, err := s.bookings.MarkReminderSent(ctx, booking.ID)
	if err != nil {
		log.Error().Err(err).Str("booking", booking.ID).Msg("failed to mark reminder as sent")

		return fmt.Errorf("failed to mark reminder as sent: %w", err)
	}

	if !marked {
		log.Info().Str("booking", booking.ID).Msg("reminder already claimed")

		return nil
	}

	html, err := s.render(booking, "⏰ Meeting Starting Soon!",
		fmt.Sprintf("Your meeting in %s starts at %s", booking.RoomName, booking.StartTime),
		template.Body{
			Intro:  "This is a reminder that your meeting is starting soon.",
			Notice: &template.Notice{Tone: template.ToneInfo, Text: fmt.Sprintf("⏰ Starting in %d minutes!", s.cfg.Reminder.Minutes)},
		},
		&template.CallToAction{Label: "Check In Now", URL: booking.CheckinURL(s.composer.AppURL()), Color: template.DefaultCTAColor},
	)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s ⏰ Reminder – %s starts at %s", subjectPrefix, booking.Purpose, booking.StartTime)
	s.deliver(ctx, booking, booking.UserEmail, subject, html, model.EmailTypeReminder, nil)

	return nil
}

func (s *serviceImpl) Test(ctx context.Context, to string) (res delivery.Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Test")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	body, err := s.composer.RenderBody(template.Body{
		Intro: "Great news! Your SMTP email configuration is working correctly.",
		Notice: &template.Notice{
			Tone:  template.ToneSuccess,
			Label: "Email notifications are now active for:",
			Items: []string{
				"New booking alerts (to admin)",
				"Approval / Rejection notifications (to user)",
				fmt.Sprintf("Meeting reminders (%d min before)", s.cfg.Reminder.Minutes),
				"Cancellation notifications",
				"Guest calendar invites (.ics)",
			},
		},
	})
	if err != nil {
		return res, fmt.Errorf("failed to render test email: %w", err)
	}

	html, err := s.composer.RenderBase(template.Options{
		Title:     "✅ Email Configuration Working!",
		Preheader: "Your email settings are correctly configured",
		Body:      body,
		CTA:       &template.CallToAction{Label: "Open App", URL: s.composer.AppURL(), Color: colorSuccess},
	})
	if err != nil {
		return res, fmt.Errorf("failed to render test email: %w", err)
	}

	return s.deliverer.Deliver(ctx, delivery.Message{
		To:      to,
		Subject: subjectPrefix + " ✅ Email Test – Configuration Working!",
		HTML:    html,
		Type:    model.EmailTypeTest,
	}), nil
}

// settledStatus is the status a booking must still hold for the event's email to go out.
// A booking approved and then cancelled before its event is handled gets no approval mail.
var settledStatus = map[model.EventType]string{
	model.EventBookingApproved:  bookingModel.StatusApproved,
	model.EventBookingRejected:  bookingModel.StatusRejected,
	model.EventBookingCancelled: bookingModel.StatusCancelled,
}

// Handle loads the booking named by the event from the primary and runs the matching trigger.
func (s *serviceImpl) Handle(ctx context.Context, event model.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"event.type":       string(event.Type),
		"event.booking_id": event.BookingID,
	})

	booking, err := s.bookings.GetPrimary(ctx, shared.FilterByID(event.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking", event.BookingID).Msg("failed to load booking for notification")

		return fmt.Errorf("failed to load booking: %w", err)
	}

	if booking.ID == constant.Empty {
		log.Warn().Str("booking", event.BookingID).Str("event", string(event.Type)).Msg("booking vanished before notification")

		return nil
	}

	if want, ok := settledStatus[event.Type]; ok && booking.Status != want {
		log.Info().
			Str("booking", booking.ID).
			Str("event", string(event.Type)).
			Str("status", booking.Status).
			Msg("booking moved on before notification, skipping")

		return nil
	}

	switch event.Type {
	case model.EventBookingCreated:
		return s.NewBooking(ctx, booking)
	case model.EventBookingApproved:
		return s.Approved(ctx, booking)
	case model.EventBookingRejected:
		return s.Rejected(ctx, booking)
	case model.EventBookingCancelled:
		return s.Cancelled(ctx, booking)
	default:
		log.Warn().Str("event", string(event.Type)).Msg("unknown booking event")

		return nil
	}
}

func (s *serviceImpl) render(booking bookingModel.Booking, title, preheader string, body template.Body, cta *template.CallToAction) (string, error) {
	card, err := s.composer.RenderBookingCard(booking)
	if err != nil {
		return "", fmt.Errorf("failed to render booking card: %w", err)
	}

	body.Card = card

	content, err := s.composer.RenderBody(body)
	if err != nil {
		return "", fmt.Errorf("failed to render email body: %w", err)
	}

	html, err := s.composer.RenderBase(template.Options{
		Title:     title,
		Preheader: preheader,
		Body:      content,
		CTA:       cta,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}

	return html, nil
}

func (s *serviceImpl) deliver(
	ctx context.Context,
	booking bookingModel.Booking,
	to, subject, html, emailType string,
	attachments []smtp.Attachment,
) delivery.Result {
	bookingID := booking.ID

	return s.deliverer.Deliver(ctx, delivery.Message{
		To:          to,
		Subject:     subject,
		HTML:        html,
		Attachments: attachments,
		Type:        emailType,
		BookingID:   &bookingID,
	})
}
