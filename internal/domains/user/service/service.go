package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"meetingbook/config"
	"meetingbook/infras/otel"
	"meetingbook/internal/domains/user/model"
	"meetingbook/internal/domains/user/model/dto"
	"meetingbook/internal/domains/user/repository"
	"meetingbook/shared"
	"meetingbook/shared/cache"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	"meetingbook/shared/failure"
	"meetingbook/shared/password"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:gets"
	cacheCountUser  = "user:count"
)

var errUserNotFound = failure.NotFound("User not found")

// User is the admin-facing account management service. Self-service account
// operations live in the auth domain.
type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Update(ctx context.Context, req dto.UpdateUserRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

// evict drops the cached user (when id is set) and every cached list and count.
func (s *serviceImpl) evict(ctx context.Context, id string) {
	var keys []string
	if id != "" {
		keys = append(keys, shared.BuildCacheKey(cacheGetUser, id))
	}

	shared.EvictAsync(ctx, s.cache, keys, cacheGetAllUser, cacheCountUser)
}

func (s *serviceImpl) mustExist(ctx context.Context, id string) error {
	exists, err := s.repo.Exist(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exists {
		return errUserNotFound
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	taken, err := s.repo.Exist(ctx, shared.FilterByField(model.FieldEmail, strings.ToLower(req.Email), model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check email")

		return fmt.Errorf("failed to check email: %w", err)
	}

	if taken {
		return failure.Conflict("Email already registered") // nolint:wrapcheck
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.repo.Insert(ctx, req.ToModel(actor, hashed))

	switch {
	case shared.IsPqCode(err, constant.PqErrorCodeUniqueViolation):
		return failure.Conflict("Email already registered") // nolint:wrapcheck
	case err != nil:
		log.Error().Err(err).Msg("failed to create user")

		return fmt.Errorf("failed to create user: %w", err)
	}

	s.evict(ctx, "")

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllUser, req, filter)
	if s.cache.Get(ctx, cacheKey, &res) == nil {
		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	users, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")

		return res, fmt.Errorf("failed to list users: %w", err)
	}

	res.FromModels(users, total, req.Limit)
	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountUser, req, filter)
	if s.cache.Get(ctx, cacheKey, &res) == nil {
		return res, nil
	}

	if res, err = s.repo.Count(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)
	if s.cache.Get(ctx, cacheKey, &res) == nil {
		return res, nil
	}

	user, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return res, errUserNotFound
	}

	res.FromModel(user)
	shared.SaveCacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

// Update applies the non-nil fields. A new password is hashed before it is stored.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateUserRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req == (dto.UpdateUserRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	if err = s.mustExist(ctx, id); err != nil {
		return err
	}

	if req.Password != nil {
		hashed, err := password.Hash(*req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		req.Password = &hashed
	}

	actor, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	if err = s.repo.Update(ctx, shared.TransformFields(req, actor), byID(id)); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	s.evict(ctx, id)

	return nil
}

// Delete removes an account. Admins cannot delete themselves, and users who still
// own bookings must be deactivated instead.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if self, _ := ctx.Value(constant.ContextKeyUserID).(string); self == id {
		return failure.BadRequestFromString("Cannot delete your own account") // nolint:wrapcheck
	}

	if err = s.mustExist(ctx, id); err != nil {
		return err
	}

	err = s.repo.Delete(ctx, byID(id))

	switch {
	case shared.IsPqCode(err, constant.PqErrorCodeFkViolation):
		return failure.Conflict("User has bookings, deactivate the account instead") // nolint:wrapcheck
	case err != nil:
		log.Error().Err(err).Str("user_id", id).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.evict(ctx, id)

	return nil
}
