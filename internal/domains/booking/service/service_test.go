package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"meetingbook/config"
	"meetingbook/infras/otel/mocks"
	bookingMocks "meetingbook/internal/domains/booking/mocks"
	"meetingbook/internal/domains/booking/model"
	"meetingbook/internal/domains/booking/model/dto"
	"meetingbook/internal/domains/booking/service"
	notificationModel "meetingbook/internal/domains/notification/model"
	notificationMocks "meetingbook/internal/domains/notification/service/mocks"
	roomMocks "meetingbook/internal/domains/room/mocks"
	roomModel "meetingbook/internal/domains/room/model"
	"meetingbook/shared/cache"
	cacheMocks "meetingbook/shared/cache/mocks"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	"meetingbook/shared/failure"
)

type fixture struct {
	repo       *bookingMocks.MockBooking
	rooms      *roomMocks.MockRoom
	cache      *cacheMocks.MockRedisCache
	dispatcher *notificationMocks.MockDispatcher
	svc        service.Booking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       bookingMocks.NewMockBooking(ctrl),
		rooms:      roomMocks.NewMockRoom(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
		dispatcher: notificationMocks.NewMockDispatcher(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.URL = "http://rooms.example.com"

	f.svc = service.New(f.repo, f.rooms, cfg, f.cache, mocks.NewOtel(), f.dispatcher)

	return f
}

// expectInvalidation waits for the background cache clears so no mock call lands after the test ends.
func (f fixture) expectInvalidation(t *testing.T, n int) func() {
	t.Helper()

	var wg sync.WaitGroup

	wg.Add(n)
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Times(n).DoAndReturn(func(context.Context, string) error {
		wg.Done()

		return nil
	})

	return func() {
		done := make(chan struct{})

		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("cache invalidation did not run")
		}
	}
}

func asUser(id, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, id)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, id+"@example.com")
	ctx = context.WithValue(ctx, constant.ContextKeyUserName, "User "+id)

	return ctx
}

func createRequest(meetingType string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:      "room-1",
		Date:        "2026-10-20",
		StartTime:   "09:00",
		EndTime:     "10:00",
		MeetingType: meetingType,
		Purpose:     "Quarterly review",
		GuestEmails: []string{"guest@partner.com"},
	}
}

func TestBookingService_Create(t *testing.T) {
	activeRoom := roomModel.Room{ID: "room-1", Name: "Board Room", Floor: "3", Active: true}

	tests := []struct {
		name       string
		req        dto.CreateBookingRequest
		room       roomModel.Room
		roomErr    error
		insertErr  error
		wantStatus string
		wantCode   int
	}{
		{
			name:       "internal meeting is approved immediately",
			req:        createRequest(model.MeetingTypeInternal),
			room:       activeRoom,
			wantStatus: model.StatusApproved,
		},
		{
			name:       "external meeting waits for approval",
			req:        createRequest(model.MeetingTypeExternal),
			room:       activeRoom,
			wantStatus: model.StatusPending,
		},
		{
			name: "end before start",
			req: func() dto.CreateBookingRequest {
				r := createRequest(model.MeetingTypeInternal)
				r.EndTime = "08:00"

				return r
			}(),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "inactive room",
			req:      createRequest(model.MeetingTypeInternal),
			room:     roomModel.Room{ID: "room-1", Active: false},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown room",
			req:      createRequest(model.MeetingTypeInternal),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "room lookup fails",
			req:      createRequest(model.MeetingTypeInternal),
			roomErr:  errors.New("db down"),
			wantCode: http.StatusInternalServerError,
		},
		{
			name:      "insert fails",
			req:       createRequest(model.MeetingTypeInternal),
			room:      activeRoom,
			insertErr: errors.New("db down"),
			wantCode:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := asUser("u1", constant.RoleUser)

			if tt.req.Window() == nil {
				f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.room, tt.roomErr)
			}

			var inserted model.Booking

			wait := func() {}

			if tt.room.Active {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b model.Booking) error {
					inserted = b

					return tt.insertErr
				})
			}

			if tt.wantCode == 0 {
				wait = f.expectInvalidation(t, 2)
				f.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e notificationModel.Event) {
					assert.Equal(t, notificationModel.EventBookingCreated, e.Type)
					assert.Equal(t, inserted.ID, e.BookingID)
				})
			}

			res, err := f.svc.Create(ctx, tt.req)
			wait()

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, "Board Room", res.RoomName)
			assert.Equal(t, "u1", inserted.UserID)
			assert.Equal(t, "u1@example.com", inserted.UserEmail)
			assert.Equal(t, `["guest@partner.com"]`, inserted.GuestEmails)
			assert.NotEmpty(t, inserted.CheckinToken)
		})
	}
}

func TestBookingService_Approve(t *testing.T) {
	tests := []struct {
		name     string
		current  model.Booking
		affected int64
		wantCode int
	}{
		{
			name:     "pending booking is approved",
			current:  model.Booking{ID: "b1", Status: model.StatusPending},
			affected: 1,
		},
		{
			name:     "already approved",
			current:  model.Booking{ID: "b1", Status: model.StatusApproved},
			wantCode: http.StatusConflict,
		},
		{
			name:     "rejected cannot be approved",
			current:  model.Booking{ID: "b1", Status: model.StatusRejected},
			wantCode: http.StatusConflict,
		},
		{
			name:     "missing booking",
			wantCode: http.StatusNotFound,
		},
		{
			name:     "changed between read and write",
			current:  model.Booking{ID: "b1", Status: model.StatusPending},
			affected: 0,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := asUser("admin", constant.RoleAdmin)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil)

			if tt.current.Status == model.StatusPending {
				f.repo.EXPECT().
					UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) (int64, error) {
						assert.Equal(t, model.StatusApproved, fields["status"])
						assert.Len(t, filter.Filters, 2)

						return tt.affected, nil
					})
			}

			wait := func() {}
			if tt.wantCode == 0 {
				wait = f.expectInvalidation(t, 2)
				f.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e notificationModel.Event) {
					assert.Equal(t, notificationModel.EventBookingApproved, e.Type)
				})
			}

			err := f.svc.Approve(ctx, "b1")
			wait()

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_Reject(t *testing.T) {
	t.Run("stores the reason", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1", Status: model.StatusPending}, nil)
		f.repo.EXPECT().
			UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Equal(t, model.StatusRejected, fields["status"])

				assert.Equal(t, "Room under maintenance", fields["rejection_reason"])

				return 1, nil
			})

		wait := f.expectInvalidation(t, 2)
		f.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any())

		err := f.svc.Reject(asUser("admin", constant.RoleAdmin), "b1", dto.RejectBookingRequest{Reason: "Room under maintenance"})
		wait()

		assert.NoError(t, err)
	})

	t.Run("approved booking cannot be rejected", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1", Status: model.StatusApproved}, nil)

		err := f.svc.Reject(asUser("admin", constant.RoleAdmin), "b1", dto.RejectBookingRequest{})

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		current  model.Booking
		wantCode int
	}{
		{
			name:    "owner cancels pending",
			ctx:     asUser("u1", constant.RoleUser),
			current: model.Booking{ID: "b1", UserID: "u1", Status: model.StatusPending},
		},
		{
			name:    "admin cancels someone else's approved booking",
			ctx:     asUser("admin", constant.RoleAdmin),
			current: model.Booking{ID: "b1", UserID: "u1", Status: model.StatusApproved},
		},
		{
			name:     "other user is forbidden",
			ctx:      asUser("u2", constant.RoleUser),
			current:  model.Booking{ID: "b1", UserID: "u1", Status: model.StatusPending},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "rejected booking cannot be cancelled",
			ctx:      asUser("u1", constant.RoleUser),
			current:  model.Booking{ID: "b1", UserID: "u1", Status: model.StatusRejected},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.wantCode == http.StatusForbidden {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil)
			} else {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil).Times(2)
			}

			wait := func() {}
			if tt.wantCode == 0 {
				f.repo.EXPECT().UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				wait = f.expectInvalidation(t, 2)
				f.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e notificationModel.Event) {
					assert.Equal(t, notificationModel.EventBookingCancelled, e.Type)
				})
			}

			err := f.svc.Cancel(tt.ctx, "b1")
			wait()

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_GetAll(t *testing.T) {
	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.GetAll(asUser("admin", constant.RoleAdmin), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})

		assert.NoError(t, err)
	})

	t.Run("users only see their own bookings", func(t *testing.T) {
		f := newFixture(t)

		var wg sync.WaitGroup

		wg.Add(2)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(2).
			DoAndReturn(func(context.Context, string, any, int) error {
				wg.Done()

				return nil
			})

		ownerFilter := func(filter gDto.FilterGroup) {
			require.Len(t, filter.Filters, 1)

			owner, ok := filter.Filters[0].(gDto.Filter)
			require.True(t, ok)
			assert.Equal(t, model.FieldUserID, owner.Field)
			assert.Equal(t, "u1", owner.Value)
		}

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			ownerFilter(filter)

			return 1, nil
		})
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
				ownerFilter(filter)

				return []model.Booking{{ID: "b1", UserID: "u1"}}, nil
			})

		res, err := f.svc.GetAll(asUser("u1", constant.RoleUser), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{})
		wg.Wait()

		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Len(t, res.Bookings, 1)
	})
}

func TestBookingService_QRCode(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1", UserID: "u1", CheckinToken: "tok"}, nil)

	png, err := f.svc.QRCode(asUser("u1", constant.RoleUser), "b1")

	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestBookingService_CheckIn(t *testing.T) {
	checkedInAt := time.Date(2026, 10, 20, 9, 1, 0, 0, time.UTC)

	tests := []struct {
		name     string
		updated  bool
		current  model.Booking
		wantCode int
	}{
		{
			name:    "approved booking checks in",
			updated: true,
		},
		{
			name:     "second check-in conflicts",
			current:  model.Booking{ID: "b1", Status: model.StatusApproved, CheckedIn: true, CheckedInAt: &checkedInAt},
			wantCode: http.StatusConflict,
		},
		{
			name:     "pending booking cannot check in",
			current:  model.Booking{ID: "b1", Status: model.StatusPending},
			wantCode: http.StatusConflict,
		},
		{
			name:     "unknown token",
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().CheckIn(gomock.Any(), "tok").Return(tt.updated, nil)

			wait := func() {}
			if tt.updated {
				wait = f.expectInvalidation(t, 1)
			} else {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil)
			}

			err := f.svc.CheckIn(context.Background(), "tok")
			wait()

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
