package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"meetingbook/config"
	"meetingbook/infras/otel/mocks"
	userMocks "meetingbook/internal/domains/user/mocks"
	"meetingbook/internal/domains/user/model"
	"meetingbook/internal/domains/user/model/dto"
	"meetingbook/internal/domains/user/service"
	"meetingbook/shared/cache"
	cacheMocks "meetingbook/shared/cache/mocks"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	"meetingbook/shared/failure"
)

type fixture struct {
	repo  *userMocks.MockUser
	cache *cacheMocks.MockRedisCache
	svc   service.User
	wg    *sync.WaitGroup
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		repo:  userMocks.NewMockUser(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		wg:    &sync.WaitGroup{},
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel())

	t.Cleanup(f.wg.Wait)

	return f
}

// expectEviction counts the background Delete and Clear calls a write triggers.
func (f fixture) expectEviction(deletes, clears int) {
	f.wg.Add(deletes + clears)

	done := func(context.Context, string) error {
		f.wg.Done()

		return nil
	}

	if deletes > 0 {
		f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(deletes).DoAndReturn(done)
	}

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Times(clears).DoAndReturn(done)
}

func (f fixture) expectSave() {
	f.wg.Add(1)
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 60).DoAndReturn(func(context.Context, string, any, int) error {
		f.wg.Done()

		return nil
	})
}

func asAdmin(id string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, id+"@example.com")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func TestCreate(t *testing.T) {
	req := dto.CreateUserRequest{Name: "Dana", Email: "Dana@Example.com", Password: "s3cret-pass"}

	t.Run("stores a lowercased user with a hashed password", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u model.User) error {
			assert.Equal(t, "dana@example.com", u.Email)
			assert.Equal(t, constant.RoleUser, u.Role)
			assert.True(t, u.Active)
			assert.Equal(t, "admin@example.com", u.CreatedBy)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)))

			return nil
		})
		f.expectEviction(0, 2)

		require.NoError(t, f.svc.Create(asAdmin("admin"), req))
	})

	t.Run("email taken", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := f.svc.Create(asAdmin("admin"), req)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("unique violation on insert is a conflict", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		err := f.svc.Create(asAdmin("admin"), req)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("lookup failure", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))

		err := f.svc.Create(asAdmin("admin"), req)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestGet(t *testing.T) {
	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), "user:get:u1", gomock.Any()).Return(nil)

		_, err := f.svc.Get(context.Background(), "u1")
		require.NoError(t, err)
	})

	t.Run("miss loads and caches", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u1", Email: "u1@example.com", Role: constant.RoleUser}, nil)
		f.expectSave()

		got, err := f.svc.Get(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1@example.com", got.Email)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := f.svc.Get(context.Background(), "u1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestGetAll(t *testing.T) {
	f := newFixture(t)
	params := gDto.QueryParams{Page: 1, Limit: 1}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.User{{ID: "u1"}}, nil)
	f.expectSave()
	f.expectSave()

	got, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalData)
	assert.Equal(t, 3, got.TotalPage)
	assert.Len(t, got.Users, 1)
}

func TestUpdate(t *testing.T) {
	name := "Dana K"
	pass := "another-pass"

	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(asAdmin("admin"), dto.UpdateUserRequest{}, "u1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Update(asAdmin("admin"), dto.UpdateUserRequest{Name: &name}, "u1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("password is hashed", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, name, fields[model.FieldName])

			hashed, ok := fields[model.FieldPassword].(string)
			require.True(t, ok)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pass)))

			return nil
		})
		f.expectEviction(1, 2)

		require.NoError(t, f.svc.Update(asAdmin("admin"), dto.UpdateUserRequest{Name: &name, Password: &pass}, "u1"))
	})
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		exists    bool
		deleteErr error
		wantCode  int
	}{
		{name: "own account", id: "admin", wantCode: http.StatusBadRequest},
		{name: "unknown user", id: "u1", wantCode: http.StatusNotFound},
		{name: "user with bookings", id: "u1", exists: true, deleteErr: &pq.Error{Code: constant.PqErrorCodeFkViolation}, wantCode: http.StatusConflict},
		{name: "deleted", id: "u1", exists: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.id != "admin" {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(tt.exists, nil)
			}

			if tt.exists {
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(tt.deleteErr)
			}

			if tt.wantCode == 0 {
				f.expectEviction(1, 2)
			}

			err := f.svc.Delete(asAdmin("admin"), tt.id)

			if tt.wantCode == 0 {
				require.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}
