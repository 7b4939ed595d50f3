package service

//go:generate go run go.uber.org/mock/mockgen -source=./dispatcher.go -destination=./mocks/dispatcher_mock.go -package=mocks

import (
	"context"

	"meetingbook/config"
	"meetingbook/infras/kafka"
	"meetingbook/internal/domains/notification/model"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Dispatcher hands a booking event to the notification pipeline without blocking the caller on email delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, event model.Event)
}

type directDispatcher struct {
	notifier Notification
}

// NewDirectDispatcher runs the trigger in a goroutine detached from the request context.
func NewDirectDispatcher(notifier Notification) Dispatcher {
	return &directDispatcher{notifier: notifier}
}

func (d *directDispatcher) Dispatch(ctx context.Context, event model.Event) {
	go func() {
		if err := d.notifier.Handle(context.WithoutCancel(ctx), event); err != nil {
			log.Error().Err(err).
				Str("event", string(event.Type)).
				Str("booking", event.BookingID).
				Msg("failed to handle booking notification")
		}
	}()
}

type kafkaDispatcher struct {
	client   kafka.Client
	topic    string
	fallback Dispatcher
}

// NewKafkaDispatcher publishes events keyed by booking id so one booking stays ordered on a partition.
// A failed publish is handed to fallback.
func NewKafkaDispatcher(client kafka.Client, topic string, fallback Dispatcher) Dispatcher {
	return &kafkaDispatcher{
		client:   client,
		topic:    topic,
		fallback: fallback,
	}
}

func (d *kafkaDispatcher) Dispatch(ctx context.Context, event model.Event) {
	err := d.client.Publish(context.WithoutCancel(ctx), d.topic, kafka.Message{
		Key:   event.BookingID,
		Value: event,
	})
	if err == nil {
		return
	}

	log.Warn().Err(err).
		Str("event", string(event.Type)).
		Str("booking", event.BookingID).
		Msg("failed to publish booking event, delivering in process")

	if d.fallback != nil {
		d.fallback.Dispatch(ctx, event)
	}
}

// NewDispatcher picks the kafka dispatcher when KAFKA_ENABLE is set.
func NewDispatcher(cfg *config.Config, client kafka.Client, notifier Notification) Dispatcher {
	direct := NewDirectDispatcher(notifier)

	if !cfg.Kafka.Enable || client == nil {
		return direct
	}

	return NewKafkaDispatcher(client, cfg.Kafka.Topics.BookingEvents, direct)
}

// NewEventHandler adapts the notifier to a kafka consumer. Undecodable messages are dropped so they
// do not block the partition; a failed trigger leaves the offset uncommitted.
func NewEventHandler(notifier Notification) kafka.Handler {
	return func(ctx context.Context, message kafkaGo.Message) error {
		event, err := kafka.Decode[model.Event](message)
		if err != nil {
			log.Error().Err(err).Str("key", string(message.Key)).Msg("dropping malformed booking event")

			return nil
		}

		return notifier.Handle(ctx, event)
	}
}
