package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"meetingbook/config"
	"meetingbook/infras/otel/mocks"
	s3Mocks "meetingbook/infras/s3/mocks"
	roomMocks "meetingbook/internal/domains/room/mocks"
	"meetingbook/internal/domains/room/model"
	"meetingbook/internal/domains/room/model/dto"
	"meetingbook/internal/domains/room/service"
	cacheMocks "meetingbook/shared/cache/mocks"
	"meetingbook/shared/constant"
	"meetingbook/shared/failure"
)

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func imageUpload() (*multipart.FileHeader, multipart.File) {
	header := &multipart.FileHeader{
		Filename: "Board.PNG",
		Header:   textproto.MIMEHeader{constant.RequestHeaderContentType: {"image/png"}},
		Size:     4,
	}

	return header, memoryFile{bytes.NewReader([]byte("\x89PNG"))}
}

func TestRoomService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockStorage := s3Mocks.NewMockStorage(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel(), mockStorage)

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name      string
		withImage bool
		setupMock func()
		wantErr   bool
	}{
		{
			name: "without image",
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, "Orion", room.Name)
						assert.Equal(t, "3rd", room.Floor)
						assert.True(t, room.Active)
						assert.Empty(t, room.Image)

						return nil
					})
			},
		},
		{
			name:      "with image",
			withImage: true,
			setupMock: func() {
				mockStorage.EXPECT().
					Put(gomock.Any(), "rooms", gomock.Any(), "image/png", []byte("\x89PNG")).
					DoAndReturn(func(_ context.Context, _, fileName, _ string, _ []byte) (string, error) {
						assert.Regexp(t, `\.png$`, fileName)

						return "https://cdn.example.com/rooms/" + fileName, nil
					})
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Contains(t, room.Image, "https://cdn.example.com/rooms/")

						return nil
					})
			},
		},
		{
			name:      "insert failure removes uploaded image",
			withImage: true,
			setupMock: func() {
				mockStorage.EXPECT().
					Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/rooms/x.png", nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
				mockStorage.EXPECT().Remove(gomock.Any(), "https://cdn.example.com/rooms/x.png").Return(nil)
			},
			wantErr: true,
		},
		{
			name:      "upload failure",
			withImage: true,
			setupMock: func() {
				mockStorage.EXPECT().
					Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("bucket unavailable"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			req := dto.CreateRoomRequest{Name: "Orion", Floor: "3rd", Capacity: 8}
			if tt.withImage {
				req.Image, req.ImageFile = imageUpload()
			}

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
			err := svc.Create(ctx, req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel(), s3Mocks.NewMockStorage(ctrl))

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	t.Run("cache miss loads from repository", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), "room:get:room-1", gomock.Any()).Return(errors.New("miss"))
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1", Name: "Orion", Floor: "3rd"}, nil)

		res, err := svc.Get(context.Background(), "room-1")

		assert.NoError(t, err)
		assert.Equal(t, "Orion", res.Name)
		assert.Equal(t, "3rd", res.Floor)
	})

	t.Run("not found", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), "room:get:missing", gomock.Any()).Return(errors.New("miss"))
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockStorage := s3Mocks.NewMockStorage(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel(), mockStorage)

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
		wantErr   bool
	}{
		{
			name: "deletes row and image",
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1", Image: "https://cdn/rooms/a.png"}, nil)
				mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				mockStorage.EXPECT().Remove(gomock.Any(), "https://cdn/rooms/a.png").Return(nil)
			},
		},
		{
			name: "room referenced by bookings",
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1"}, nil)
				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeFkViolation)})
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "room missing",
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(context.Background(), "room-1")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockStorage := s3Mocks.NewMockStorage(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel(), mockStorage)

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	existing := model.Room{ID: "room-1", Name: "Orion", Image: "https://cdn/rooms/old.png"}
	renamed := "Lyra"

	t.Run("new image replaces the old one after the update", func(t *testing.T) {
		req := dto.UpdateRoomRequest{Name: &renamed}
		req.Image, req.ImageFile = imageUpload()

		gomock.InOrder(
			mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil),
			mockStorage.EXPECT().Put(gomock.Any(), "rooms", gomock.Any(), "image/png", gomock.Any()).Return("https://cdn/rooms/new.png", nil),
			mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
					assert.Equal(t, "Lyra", fields[model.FieldName])
					assert.Equal(t, "https://cdn/rooms/new.png", fields[model.FieldImage])

					return nil
				}),
			mockStorage.EXPECT().Remove(gomock.Any(), "https://cdn/rooms/old.png").Return(nil),
		)

		assert.NoError(t, svc.Update(context.Background(), req, "room-1"))
	})

	t.Run("failed update keeps the old image", func(t *testing.T) {
		req := dto.UpdateRoomRequest{}
		req.Image, req.ImageFile = imageUpload()

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
		mockStorage.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn/rooms/new.png", nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
		mockStorage.EXPECT().Remove(gomock.Any(), "https://cdn/rooms/new.png").Return(nil)

		assert.Error(t, svc.Update(context.Background(), req, "room-1"))
	})

	t.Run("unknown room", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		err := svc.Update(context.Background(), dto.UpdateRoomRequest{Name: &renamed}, "room-1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
