package reminder

import (
	"context"
	"fmt"
	"time"

	"meetingbook/config"
	"meetingbook/infras/otel"
	bookingRepo "meetingbook/internal/domains/booking/repository"
	notificationService "meetingbook/internal/domains/notification/service"
	"meetingbook/shared/constant"
	"meetingbook/shared/metrics"
	"meetingbook/shared/timezone"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job scans approved bookings on a fixed cadence and sends one reminder per booking
// whose start falls inside the lead window.
type Job struct {
	cfg      *config.Config
	otel     otel.Otel
	bookings bookingRepo.Booking
	notifier notificationService.Notification
	now      func() time.Time
	cron     *cron.Cron
}

func New(
	cfg *config.Config,
	otel otel.Otel,
	bookings bookingRepo.Booking,
	notifier notificationService.Notification,
) *Job {
	return NewWithClock(cfg, otel, bookings, notifier, timezone.Now)
}

// NewWithClock is New with now in place of the wall clock used for the reminder window.
func NewWithClock(
	cfg *config.Config,
	otel otel.Otel,
	bookings bookingRepo.Booking,
	notifier notificationService.Notification,
	now func() time.Time,
) *Job {
	return &Job{
		cfg:      cfg,
		otel:     otel,
		bookings: bookings,
		notifier: notifier,
		now:      now,
	}
}

// Start schedules the scan. A tick that fires while the previous one is still running is skipped.
func (j *Job) Start(ctx context.Context) error {
	if !j.cfg.Reminder.Enable {
		log.Info().Msg("reminder job disabled")

		return nil
	}

	interval := j.cfg.Reminder.IntervalSeconds
	if interval <= 0 {
		interval = 60
	}

	logger := cronLogger{}
	j.cron = cron.New(
		cron.WithLocation(timezone.GetLocation()),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	_, err := j.cron.AddFunc(fmt.Sprintf("@every %ds", interval), func() {
		if _, err := j.Run(ctx); err != nil {
			log.Error().Err(err).Msg("reminder scan failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}

	j.cron.Start()

	log.Info().Int("interval_seconds", interval).Int("lead_minutes", j.cfg.Reminder.Minutes).Msg("reminder job started")

	return nil
}

// Stop waits for a running scan to finish or for ctx to expire.
func (j *Job) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}

	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		log.Warn().Msg("reminder job did not stop in time")
	}
}

// Run performs one scan and returns how many reminders were handed to the notifier.
func (j *Job) Run(ctx context.Context) (sent int, err error) {
	ctx, scope := j.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".reminder.Run")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	loc := timezone.GetLocation()
	now := j.now().In(loc).Truncate(time.Minute)
	until := now.Add(time.Duration(j.cfg.Reminder.Minutes) * time.Minute)

	dates := []string{now.Format(constant.BookingDate), now.AddDate(0, 0, 1).Format(constant.BookingDate)}

	bookings, err := j.bookings.DueReminders(ctx, dates)
	if err != nil {
		return 0, fmt.Errorf("failed to load due reminders: %w", err)
	}

	for _, booking := range bookings {
		startsAt, err := booking.StartsAt(loc)
		if err != nil {
			log.Warn().Err(err).Str("booking", booking.ID).Msg("skipping booking with unparseable start")

			continue
		}

		if startsAt.Before(now) || startsAt.After(until) {
			continue
		}

		if err := j.notifier.Reminder(ctx, booking); err != nil {
			log.Error().Err(err).Str("booking", booking.ID).Msg("failed to send reminder")

			continue
		}

		metrics.IncReminder()
		sent++
	}

	scope.SetAttribute("reminder.sent", sent)

	return sent, nil
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
