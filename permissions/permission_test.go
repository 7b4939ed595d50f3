package permissions_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetingbook/permissions"
	"meetingbook/shared/constant"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.False(t, data.Skip)
	assert.NotEmpty(t, data.Endpoints)

	for _, endpoint := range data.Endpoints {
		assert.NotEmpty(t, endpoint.Path)
		assert.NotEmpty(t, endpoint.Method, endpoint.Path)
		assert.True(t, endpoint.Skip || len(endpoint.Permissions) > 0, "%s %s has no roles", endpoint.Method, endpoint.Path)
	}
}

func TestPermissionData_FindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name     string
		path     string
		method   string
		wantSkip bool
		wantRole []string
	}{
		{
			name:     "login is public",
			path:     "/api/auth/login",
			method:   http.MethodPost,
			wantSkip: true,
		},
		{
			name:     "check-in is public",
			path:     "/api/checkin/{token}",
			method:   http.MethodPost,
			wantSkip: true,
		},
		{
			name:     "approve is admin only",
			path:     "/api/bookings/{id}/approve",
			method:   http.MethodPut,
			wantRole: []string{constant.RoleAdmin},
		},
		{
			name:     "settings root with trailing slash",
			path:     "/api/settings/",
			method:   http.MethodPut,
			wantRole: []string{constant.RoleAdmin},
		},
		{
			name:     "any user can book",
			path:     "/api/bookings",
			method:   http.MethodPost,
			wantRole: []string{constant.RoleAdmin, constant.RoleUser},
		},
		{
			name:   "unknown route has no rule",
			path:   "/api/nope",
			method: http.MethodGet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.wantSkip, got.Skip)
			assert.Equal(t, tt.wantRole, got.Permissions)
		})
	}
}
