package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"meetingbook/shared/password"
)

func init() {
	password.Cost = bcrypt.MinCost
}

func TestHash(t *testing.T) {
	hashed, err := password.Hash("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hashed)
	assert.True(t, strings.HasPrefix(hashed, "$2a$"))

	again, err := password.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "salt must differ between hashes")

	_, err = password.Hash("")
	assert.ErrorIs(t, err, password.ErrEmptyPassword)

	_, err = password.Hash(strings.Repeat("x", 73))
	assert.Error(t, err, "bcrypt rejects inputs longer than 72 bytes")
}

func TestVerify(t *testing.T) {
	hashed, err := password.Hash("correct horse")
	require.NoError(t, err)

	tests := []struct {
		name    string
		plain   string
		hash    string
		wantErr error
		anyErr  bool
	}{
		{name: "match", plain: "correct horse", hash: hashed},
		{name: "mismatch", plain: "battery staple", hash: hashed, wantErr: password.ErrInvalidPassword},
		{name: "empty password", plain: "", hash: hashed, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", plain: "correct horse", hash: "", wantErr: password.ErrInvalidPassword},
		{name: "garbage hash", plain: "correct horse", hash: "not-a-bcrypt-hash", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.plain, tt.hash)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, password.ErrInvalidPassword)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
