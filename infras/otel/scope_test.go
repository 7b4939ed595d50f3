package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"meetingbook/infras/otel"
)

func record(t *testing.T, fn func(otel.Scope)) sdktrace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "op")
	scope := otel.NewScope(span)
	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func TestScope_Attributes(t *testing.T) {
	span := record(t, func(s otel.Scope) {
		s.SetAttribute("query", "SELECT 1")
		s.AddEvent("cache miss")
		s.SetAttributes(map[string]any{
			"rows":    3,
			"cached":  true,
			"elapsed": 2 * time.Second,
			"tags":    []string{"room", "booking"},
		})
	})

	got := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		got[kv.Key] = kv.Value
	}

	assert.Equal(t, "SELECT 1", got["query"].AsString())
	assert.Equal(t, int64(3), got["rows"].AsInt64())
	assert.True(t, got["cached"].AsBool())
	assert.Equal(t, "2s", got["elapsed"].AsString())
	assert.Equal(t, []string{"room", "booking"}, got["tags"].AsStringSlice())
	require.Len(t, span.Events(), 1)
	assert.Equal(t, "cache miss", span.Events()[0].Name)
}

func TestScope_TraceIfError(t *testing.T) {
	t.Run("nil leaves the span ok", func(t *testing.T) {
		span := record(t, func(s otel.Scope) { s.TraceIfError(nil) })

		assert.Equal(t, codes.Unset, span.Status().Code)
		assert.Empty(t, span.Events())
	})

	t.Run("error marks the span failed", func(t *testing.T) {
		span := record(t, func(s otel.Scope) { s.TraceIfError(errors.New("room is full")) })

		assert.Equal(t, codes.Error, span.Status().Code)
		assert.Equal(t, "room is full", span.Status().Description)
		assert.Len(t, span.Events(), 1)
	})
}
