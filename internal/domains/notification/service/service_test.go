package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"meetingbook/config"
	"meetingbook/infras/otel"
	"meetingbook/infras/otel/mocks"
	bookingMocks "meetingbook/internal/domains/booking/mocks"
	bookingModel "meetingbook/internal/domains/booking/model"
	"meetingbook/internal/domains/notification/delivery"
	deliveryMocks "meetingbook/internal/domains/notification/delivery/mocks"
	"meetingbook/internal/domains/notification/model"
	"meetingbook/internal/domains/notification/service"
	notificationMocks "meetingbook/internal/domains/notification/service/mocks"
	"meetingbook/internal/domains/notification/template"
	userMocks "meetingbook/internal/domains/user/mocks"

	kafkaGo "github.com/segmentio/kafka-go"
)

type fixture struct {
	svc       service.Notification
	deliverer *deliveryMocks.MockDeliverer
	users     *userMocks.MockUser
	bookings  *bookingMocks.MockBooking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	return newFixtureWithOtel(t, mocks.NewOtel())
}

func newFixtureWithOtel(t *testing.T, ot otel.Otel) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.App.Name = "MeetingBook"
	cfg.App.URL = "https://rooms.example.com/"
	cfg.Reminder.Minutes = 30

	f := fixture{
		deliverer: deliveryMocks.NewMockDeliverer(ctrl),
		users:     userMocks.NewMockUser(ctrl),
		bookings:  bookingMocks.NewMockBooking(ctrl),
	}
	f.svc = service.New(cfg, ot, f.deliverer, template.New(cfg), f.users, f.bookings)

	return f
}

func newBooking() bookingModel.Booking {
	return bookingModel.Booking{
		ID:           "booking-1",
		Date:         "2026-03-02",
		StartTime:    "09:00",
		EndTime:      "10:00",
		RoomID:       "room-1",
		RoomName:     "Orchid",
		RoomFloor:    "3",
		UserID:       "user-1",
		UserName:     "Dana",
		UserEmail:    "dana@example.com",
		MeetingType:  bookingModel.MeetingTypeInternal,
		Purpose:      "Sprint review",
		GuestEmails:  "[]",
		Status:       bookingModel.StatusApproved,
		CheckinToken: "token-1",
	}
}

func TestNotification_NewBooking(t *testing.T) {
	t.Run("keeps going after a failed recipient", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().ActiveAdminEmails(gomock.Any()).Return([]string{"a@example.com", "b@example.com"}, nil)

		var recipients []string

		f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).Times(2).
			DoAndReturn(func(_ context.Context, msg delivery.Message) delivery.Result {
				recipients = append(recipients, msg.To)
				assert.Equal(t, model.EmailTypeNewBookingAdmin, msg.Type)
				assert.Equal(t, "[MRB] New Booking – Orchid on 2026-03-02", msg.Subject)

				if msg.To == "a@example.com" {
					return delivery.Result{Error: "mailbox unavailable"}
				}

				return delivery.Result{Sent: true}
			})

		require.NoError(t, f.svc.NewBooking(context.Background(), newBooking()))
		assert.Equal(t, []string{"a@example.com", "b@example.com"}, recipients)
	})

	t.Run("external bookings ask for review", func(t *testing.T) {
		f := newFixture(t)

		booking := newBooking()
		booking.MeetingType = bookingModel.MeetingTypeExternal
		booking.Status = bookingModel.StatusPending

		f.users.EXPECT().ActiveAdminEmails(gomock.Any()).Return([]string{"a@example.com"}, nil)
		f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg delivery.Message) delivery.Result {
				assert.Contains(t, msg.HTML, "Review &amp; Approve")
				assert.Contains(t, msg.HTML, "#d97706")
				assert.Contains(t, msg.HTML, "EXTERNAL meeting")

				return delivery.Result{Sent: true}
			})

		require.NoError(t, f.svc.NewBooking(context.Background(), booking))
	})

	t.Run("internal bookings link the dashboard", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().ActiveAdminEmails(gomock.Any()).Return([]string{"a@example.com"}, nil)
		f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg delivery.Message) delivery.Result {
				assert.Contains(t, msg.HTML, "View Dashboard")
				assert.Contains(t, msg.HTML, "auto-approved")
				require.NotNil(t, msg.BookingID)
				assert.Equal(t, "booking-1", *msg.BookingID)

				return delivery.Result{Sent: true}
			})

		require.NoError(t, f.svc.NewBooking(context.Background(), newBooking()))
	})

	t.Run("admin lookup failure", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().ActiveAdminEmails(gomock.Any()).Return(nil, errors.New("db down"))

		assert.Error(t, f.svc.NewBooking(context.Background(), newBooking()))
	})
}

func TestNotification_Approved(t *testing.T) {
	t.Run("owner and guests get the invite", func(t *testing.T) {
		f := newFixture(t)

		booking := newBooking()
		booking.GuestEmails = `["guest1@example.com","guest2@example.com"]`

		sent := map[string]delivery.Message{}

		f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).Times(3).
			DoAndReturn(func(_ context.Context, msg delivery.Message) delivery.Result {
				sent[msg.To] = msg

				return delivery.Result{Sent: true}
			})

		require.NoError(t, f.svc.Approved(context.Background(), booking))

		owner := sent["dana@example.com"]
		assert.Equal(t, model.EmailTypeApproved, owner.Type)
		assert.Equal(t, "[MRB] ✅ Approved – Orchid on 2026-03-02", owner.Subject)
		require.Len(t, owner.Attachments, 1)
		assert.Equal(t, template.CalendarFilename, owner.Attachments[0].Filename)
		assert.Contains(t, string(owner.Attachments[0].Content), "BEGIN:VCALENDAR")

		guest := sent["guest2@example.com"]
		assert.Equal(t, model.EmailTypeGuestInvite, guest.Type)
		assert.Equal(t, "[MeetingBook] Meeting Invite – Sprint review on 2026-03-02", guest.Subject)
		assert.Len(t, guest.Attachments, 1)
		assert.Contains(t, sent, "guest1@example.com")
	})

	t.Run("a failed guest does not stop the rest", func(t *testing.T) {
		f := newFixture(t)

		booking := newBooking()
		booking.GuestEmails = `["guest1@example.com","guest2@example.com","guest3@example.com"]`

		var recipients []string

		f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).Times(4).
			DoAndReturn(func(_ context.Context, msg delivery.Message) delivery.Result {
				recipients = append(recipients, msg.To)

				if msg.To == "guest1@example.com" {
					return delivery.Result{Error: "550 mailbox unavailable"}
				}

				return delivery.Result{Sent: true}
			})

		require.NoError(t, f.svc.Approved(context.Background(), booking))
		assert.Equal(t, []string{
			"dana@example.com",
			"guest1@example.com",
			"guest2@example.com",
			"guest3@example.com",
		}, recipients)
	})
}

func TestNotification_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		reason *string
		want   string
	}{
		{name: "with reason", reason: ptr("Room under maintenance"), want: "Room under maintenance"},
		{name: "without reason", want: "No reason provided"},
		{name: "blank reason", reason: ptr(""), want: "No reason provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			booking := newBooking()
			booking.Status = bookingModel.StatusRejected
			booking.RejectionReason = tt.reason

			f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, msg delivery.Message) delivery.Result {
					assert.Equal(t, "dana@example.com", msg.To)
					assert.Equal(t, model.EmailTypeRejected, msg.Type)
					assert.Contains(t, msg.HTML, tt.want)
					assert.Contains(t, msg.HTML, "Book Another Slot")

					return delivery.Result{Sent: true}
				})

			require.NoError(t, f.svc.Rejected(context.Background(), booking))
		})
	}
}

func TestNotification_Cancelled(t *testing.T) {
	t.Run("admins then requester", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().ActiveAdminEmails(gomock.Any()).Return([]string{"a@example.com"}, nil)

		var types []string

		f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).Times(2).
			DoAndReturn(func(_ context.Context, msg delivery.Message) delivery.Result {
				types = append(types, msg.Type)

				if msg.Type == model.EmailTypeCancelledUser {
					assert.Equal(t, "dana@example.com", msg.To)
					assert.Equal(t, "[MRB] Cancellation Confirmed – Orchid on 2026-03-02", msg.Subject)
				}

				return delivery.Result{Skipped: true}
			})

		require.NoError(t, f.svc.Cancelled(context.Background(), newBooking()))
		assert.Equal(t, []string{model.EmailTypeCancelledAdmin, model.EmailTypeCancelledUser}, types)
	})

	t.Run("a failed admin does not stop the rest", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().ActiveAdminEmails(gomock.Any()).
			Return([]string{"a@example.com", "b@example.com", "c@example.com"}, nil)

		var recipients []string

		f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).Times(4).
			DoAndReturn(func(_ context.Context, msg delivery.Message) delivery.Result {
				recipients = append(recipients, msg.To)

				if msg.To == "a@example.com" {
					return delivery.Result{Error: "dial tcp: i/o timeout"}
				}

				return delivery.Result{Sent: true}
			})

		require.NoError(t, f.svc.Cancelled(context.Background(), newBooking()))
		assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com", "dana@example.com"}, recipients)
	})
}

func TestNotification_Reminder(t *testing.T) {
	tests := []struct {
		name        string
		marked      bool
		markErr     error
		result      delivery.Result
		wantDeliver bool
		wantErr     bool
	}{
		{name: "claimed and sent", marked: true, result: delivery.Result{Sent: true}, wantDeliver: true},
		{name: "claim kept when delivery fails", marked: true, result: delivery.Result{Error: "timeout"}, wantDeliver: true},
		{name: "already claimed sends nothing", marked: false},
		{name: "claim failure sends nothing", markErr: errors.New("db down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			claim := f.bookings.EXPECT().MarkReminderSent(gomock.Any(), "booking-1").Return(tt.marked, tt.markErr)

			if tt.wantDeliver {
				f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).After(claim).
					DoAndReturn(func(_ context.Context, msg delivery.Message) delivery.Result {
						assert.Equal(t, model.EmailTypeReminder, msg.Type)
						assert.Equal(t, "[MRB] ⏰ Reminder – Sprint review starts at 09:00", msg.Subject)
						assert.Contains(t, msg.HTML, "https://rooms.example.com/checkin/token-1")
						assert.Contains(t, msg.HTML, "Starting in 30 minutes!")

						return tt.result
					})
			}

			err := f.svc.Reminder(context.Background(), newBooking())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotification_Test(t *testing.T) {
	f := newFixture(t)

	f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg delivery.Message) delivery.Result {
			assert.Equal(t, "ops@example.com", msg.To)
			assert.Equal(t, model.EmailTypeTest, msg.Type)
			assert.Nil(t, msg.BookingID)
			assert.Contains(t, msg.HTML, "Meeting reminders (30 min before)")

			return delivery.Result{Skipped: true}
		})

	res, err := f.svc.Test(context.Background(), "ops@example.com")

	require.NoError(t, err)
	assert.True(t, res.Skipped)
}

func TestNotification_Handle(t *testing.T) {
	t.Run("routes to the matching trigger", func(t *testing.T) {
		f := newFixture(t)

		booking := newBooking()
		booking.Status = bookingModel.StatusRejected

		f.bookings.EXPECT().GetPrimary(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg delivery.Message) delivery.Result {
				assert.Equal(t, model.EmailTypeRejected, msg.Type)

				return delivery.Result{Sent: true}
			})

		err := f.svc.Handle(context.Background(), model.Event{Type: model.EventBookingRejected, BookingID: booking.ID})
		assert.NoError(t, err)
	})

	t.Run("new booking is read from the primary", func(t *testing.T) {
		f := newFixture(t)

		booking := newBooking()
		booking.MeetingType = bookingModel.MeetingTypeExternal
		booking.Status = bookingModel.StatusPending

		f.bookings.EXPECT().GetPrimary(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.users.EXPECT().ActiveAdminEmails(gomock.Any()).Return([]string{"a@example.com"}, nil)
		f.deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(delivery.Result{Sent: true})

		err := f.svc.Handle(context.Background(), model.Event{Type: model.EventBookingCreated, BookingID: booking.ID})
		assert.NoError(t, err)
	})

	t.Run("stale events send nothing", func(t *testing.T) {
		tests := []struct {
			event  model.EventType
			status string
		}{
			{model.EventBookingApproved, bookingModel.StatusCancelled},
			{model.EventBookingRejected, bookingModel.StatusPending},
			{model.EventBookingCancelled, bookingModel.StatusApproved},
		}

		for _, tt := range tests {
			f := newFixture(t)

			booking := newBooking()
			booking.Status = tt.status

			f.bookings.EXPECT().GetPrimary(gomock.Any(), gomock.Any()).Return(booking, nil)

			err := f.svc.Handle(context.Background(), model.Event{Type: tt.event, BookingID: booking.ID})
			assert.NoError(t, err, "event=%s status=%s", tt.event, tt.status)
		}
	})

	t.Run("missing booking is ignored", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().GetPrimary(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)

		err := f.svc.Handle(context.Background(), model.Event{Type: model.EventBookingApproved, BookingID: "gone"})
		assert.NoError(t, err)
	})

	t.Run("lookup failure is returned and traced", func(t *testing.T) {
		recorder := tracetest.NewSpanRecorder()
		provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

		f := newFixtureWithOtel(t, otel.NewWithProvider(provider))

		f.bookings.EXPECT().GetPrimary(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, errors.New("db down"))

		err := f.svc.Handle(context.Background(), model.Event{Type: model.EventBookingCreated, BookingID: "booking-1"})
		require.Error(t, err)

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Contains(t, spans[0].Status().Description, "db down")
	})
}

func TestDispatcher(t *testing.T) {
	event := model.Event{Type: model.EventBookingCreated, BookingID: "booking-1", OccurredAt: time.Now()}

	t.Run("direct dispatch runs the handler", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := notificationMocks.NewMockNotification(ctrl)

		done := make(chan struct{})

		notifier.EXPECT().Handle(gomock.Any(), event).DoAndReturn(func(context.Context, model.Event) error {
			close(done)

			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		service.NewDirectDispatcher(notifier).Dispatch(ctx, event)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler was not called")
		}
	})

	t.Run("kafka disabled falls back to direct", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		notifier := notificationMocks.NewMockNotification(ctrl)

		done := make(chan struct{})

		notifier.EXPECT().Handle(gomock.Any(), event).DoAndReturn(func(context.Context, model.Event) error {
			close(done)

			return nil
		})

		service.NewDispatcher(&config.Config{}, nil, notifier).Dispatch(context.Background(), event)

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler was not called")
		}
	})
}

func TestEventHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := notificationMocks.NewMockNotification(ctrl)
	handler := service.NewEventHandler(notifier)

	t.Run("malformed payload is dropped", func(t *testing.T) {
		assert.NoError(t, handler(context.Background(), kafkaGo.Message{Value: []byte("{")}))
	})

	t.Run("handler error keeps the offset", func(t *testing.T) {
		notifier.EXPECT().Handle(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event model.Event) error {
				assert.Equal(t, model.EventBookingCancelled, event.Type)
				assert.Equal(t, "booking-9", event.BookingID)

				return errors.New("smtp down")
			})

		payload := `{"type":"booking.cancelled","booking_id":"booking-9","occurred_at":"2026-03-02T09:00:00Z"}`
		assert.Error(t, handler(context.Background(), kafkaGo.Message{Value: []byte(payload)}))
	})
}

func ptr[T any](v T) *T {
	return &v
}

