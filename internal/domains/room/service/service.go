package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"meetingbook/config"
	"meetingbook/infras/otel"
	"meetingbook/infras/s3"
	"meetingbook/internal/domains/room/model"
	"meetingbook/internal/domains/room/model/dto"
	"meetingbook/internal/domains/room/repository"
	"meetingbook/shared"
	"meetingbook/shared/cache"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	"meetingbook/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

var errRoomNotFound = failure.NotFound("Room not found")

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo    repository.Room
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
	storage s3.Storage
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, storage s3.Storage) Room {
	return &serviceImpl{
		repo:    repo,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
		storage: storage,
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func (s *serviceImpl) evict(ctx context.Context, id string) {
	var keys []string
	if id != constant.Empty {
		keys = append(keys, shared.BuildCacheKey(cacheGetRoom, id))
	}

	shared.EvictAsync(ctx, s.cache, keys, cacheGetAllRoom, cacheCountRoom)
}

// find loads a room or returns the 404 failure.
func (s *serviceImpl) find(ctx context.Context, id string) (model.Room, error) {
	room, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Str("room_id", id).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, errRoomNotFound
	}

	return room, nil
}

// Create stores the room. When the insert fails the freshly uploaded image is removed again.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	imageURL, err := s.uploadImage(ctx, req.Image, req.ImageFile)
	if err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, req.ToModel(actor, imageURL)); err != nil {
		log.Error().Err(err).Msg("failed to create room")
		s.removeImage(ctx, imageURL)

		return fmt.Errorf("failed to create room: %w", err)
	}

	s.evict(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)
	if s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	rooms, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list rooms")

		return res, fmt.Errorf("failed to list rooms: %w", err)
	}

	res.FromModels(rooms, total, req.Limit)
	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)
	if s.cache.Get(ctx, cacheKey, &res) == nil {
		return res, nil
	}

	if res, err = s.repo.Count(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)
	if s.cache.Get(ctx, cacheKey, &res) == nil {
		return res, nil
	}

	room, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)
	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

// Update applies the sent fields. A new image replaces the stored one, and the old
// object is only removed once the row points at the new URL.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	fields := req.Fields()

	newImage, err := s.uploadImage(ctx, req.Image, req.ImageFile)
	if err != nil {
		return err
	}

	if newImage != constant.Empty {
		fields.Image = &newImage
	}

	actor, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	if err = s.repo.Update(ctx, shared.TransformFields(fields, actor), byID(id)); err != nil {
		log.Error().Err(err).Str("room_id", id).Msg("failed to update room")
		s.removeImage(ctx, newImage)

		return fmt.Errorf("failed to update room: %w", err)
	}

	if newImage != constant.Empty {
		s.removeImage(ctx, current.Image)
	}

	s.evict(ctx, id)

	return nil
}

// Delete removes a room and its image. Rooms referenced by bookings are kept; the
// caller is told to deactivate them instead.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	room, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.Delete(ctx, byID(id))

	switch {
	case shared.IsPqCode(err, constant.PqErrorCodeFkViolation):
		return failure.Conflict("Room has bookings, deactivate it instead") // nolint:wrapcheck
	case err != nil:
		log.Error().Err(err).Str("room_id", id).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.removeImage(ctx, room.Image)
	s.evict(ctx, id)

	return nil
}
