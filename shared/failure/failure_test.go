package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetingbook/shared/failure"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"bad request from error", failure.BadRequest(errors.New("end_time must be after start_time")), http.StatusBadRequest, "end_time must be after start_time"},
		{"bad request from string", failure.BadRequestFromString("room is inactive"), http.StatusBadRequest, "room is inactive"},
		{"unauthorized", failure.Unauthorized("token expired"), http.StatusUnauthorized, "token expired"},
		{"forbidden", failure.Forbidden("not your booking"), http.StatusForbidden, "not your booking"},
		{"predefined forbidden", failure.ForbiddenError, http.StatusForbidden, "You don't have the required permissions"},
		{"not found", failure.NotFound("booking not found"), http.StatusNotFound, "booking not found"},
		{"conflict", failure.Conflict("room already booked for this slot"), http.StatusConflict, "room already booked for this slot"},
		{"internal", failure.InternalError(errors.New("smtp dial failed")), http.StatusInternalServerError, "smtp dial failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure
			require.ErrorAs(t, tt.err, &f)

			assert.Equal(t, tt.wantCode, f.Code)
			assert.Equal(t, tt.wantMsg, f.Error())
		})
	}
}

func TestNilPassthrough(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"failure", failure.Conflict("taken"), http.StatusConflict},
		{"wrapped failure", fmt.Errorf("failed to approve booking: %w", failure.NotFound("booking not found")), http.StatusNotFound},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.GetCode(tt.err))
		})
	}
}
