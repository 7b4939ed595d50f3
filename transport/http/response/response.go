// Package response writes the API's JSON envelopes: {"data": ...} for payloads,
// {"message": ...} for acknowledgements and {"error": ...} for failures.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"meetingbook/shared/constant"
	"meetingbook/shared/failure"
	"meetingbook/shared/logger"
)

type Data[T any] struct {
	Data T `json:"data"`
}

type Error struct {
	Error string `json:"error"`
}

type Message struct {
	Message string `json:"message"`
}

func WithMessage(w http.ResponseWriter, code int, message string) {
	WithPlainJSON(w, code, Message{Message: message})
}

// WithJSON wraps payload in the data envelope.
func WithJSON(w http.ResponseWriter, code int, payload any) {
	WithPlainJSON(w, code, Data[any]{Data: payload})
}

// WithPlainJSON sends payload as-is, without an envelope.
func WithPlainJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	WithBytes(w, code, constant.ContentTypeJSON, body)
}

// WithError answers with the message of a *failure.Failure. Any other error is
// logged and hidden behind a generic 500.
func WithError(w http.ResponseWriter, err error) {
	var fail *failure.Failure
	if !errors.As(err, &fail) {
		logger.ErrorWithStack(err)
		WithInternalError(w)

		return
	}

	WithPlainJSON(w, fail.Code, Error{Error: fail.Message})
}

func WithInternalError(w http.ResponseWriter) {
	WithPlainJSON(w, http.StatusInternalServerError, Error{Error: constant.ResponseErrorInternal})
}

// WithBytes writes a raw payload under the given content type.
func WithBytes(w http.ResponseWriter, code int, contentType string, payload []byte) {
	w.Header().Set(constant.RequestHeaderContentType, contentType)
	w.WriteHeader(code)

	if _, err := w.Write(payload); err != nil {
		logger.ErrorWithStack(err)
	}
}

func WithRequestLimitExceeded(w http.ResponseWriter) {
	WithMessage(w, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}
