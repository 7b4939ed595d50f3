package di

import (
	"context"

	"meetingbook/config"
	"meetingbook/infras/kafka"
	"meetingbook/infras/otel"
	notificationService "meetingbook/internal/domains/notification/service"
	"meetingbook/internal/jobs/reminder"
	"meetingbook/transport/http"

	"github.com/rs/zerolog/log"
)

// App is everything cmd/app runs: the HTTP server plus the reminder job.
type App struct {
	Config   *config.Config
	HTTP     *http.HTTP
	Reminder *reminder.Job
	Otel     otel.Otel
	Kafka    kafka.Client
}

func NewApp(cfg *config.Config, server *http.HTTP, job *reminder.Job, ot otel.Otel, client kafka.Client) *App {
	app := &App{
		Config:   cfg,
		HTTP:     server,
		Reminder: job,
		Otel:     ot,
		Kafka:    client,
	}

	server.OnShutdown(app.stopJob, closeKafka(client), shutdownOtel(ot))

	return app
}

func (a *App) stopJob(ctx context.Context) {
	a.Reminder.Stop(ctx)
}

// Notifier is the standalone consumer that turns booking events into emails.
type Notifier struct {
	Config  *config.Config
	Kafka   kafka.Client
	Otel    otel.Otel
	Handler kafka.Handler
}

func NewNotifier(cfg *config.Config, client kafka.Client, ot otel.Otel, notifier notificationService.Notification) *Notifier {
	return &Notifier{
		Config:  cfg,
		Kafka:   client,
		Otel:    ot,
		Handler: notificationService.NewEventHandler(notifier),
	}
}

func closeKafka(client kafka.Client) func(context.Context) {
	return func(context.Context) {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka client")
		}
	}
}

func shutdownOtel(ot otel.Otel) func(context.Context) {
	return func(ctx context.Context) {
		if err := ot.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("failed to flush traces")
		}
	}
}
