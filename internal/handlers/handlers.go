// Package handlers holds what every HTTP handler shares: one span per request and
// a single way to turn an error into a response.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"meetingbook/infras/otel"
	"meetingbook/shared/constant"
	"meetingbook/shared/failure"
	"meetingbook/transport/http/response"
)

// Begin opens the handler span for name and returns r carrying its context.
func Begin(ot otel.Otel, r *http.Request, name string) (*http.Request, otel.Scope) {
	ctx, scope := ot.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)

	return r.WithContext(ctx), scope
}

// Fail records err on the span, logs it with msg and writes the error response.
func Fail(w http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)
	log.Error().Err(err).Msg(msg)
	response.WithError(w, err)
}

// CallerID is the authenticated user's id, or "" on public routes.
func CallerID(r *http.Request) string {
	id, _ := r.Context().Value(constant.ContextKeyUserID).(string)

	return id
}

// DecodeOptional decodes a JSON body into dst, leaving dst untouched when the
// request has no body. Malformed JSON is a 400.
func DecodeOptional(r *http.Request, dst any) error {
	if r.ContentLength == 0 {
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return nil
}
