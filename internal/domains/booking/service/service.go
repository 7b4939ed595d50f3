package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"

	"meetingbook/config"
	"meetingbook/infras/otel"
	"meetingbook/internal/domains/booking/model"
	"meetingbook/internal/domains/booking/model/dto"
	"meetingbook/internal/domains/booking/repository"
	notificationModel "meetingbook/internal/domains/notification/model"
	notificationService "meetingbook/internal/domains/notification/service"
	roomModel "meetingbook/internal/domains/room/model"
	roomRepo "meetingbook/internal/domains/room/repository"
	"meetingbook/shared"
	"meetingbook/shared/cache"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	"meetingbook/shared/failure"
	"meetingbook/shared/metrics"
	"meetingbook/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const (
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	qrCodeSize = 320
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string, req dto.RejectBookingRequest) error
	Cancel(ctx context.Context, id string) error
	QRCode(ctx context.Context, id string) ([]byte, error)
	GetByToken(ctx context.Context, token string) (dto.CheckinResponse, error)
	CheckIn(ctx context.Context, token string) error
}

type serviceImpl struct {
	repo       repository.Booking
	roomRepo   roomRepo.Room
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	dispatcher notificationService.Dispatcher
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	dispatcher notificationService.Dispatcher,
) Booking {
	return &serviceImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		dispatcher: dispatcher,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Window(); err != nil {
		return res, err
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if !room.Bookable() {
		return res, failure.BadRequestFromString("Room is not available") // nolint:wrapcheck
	}

	booking, err := req.ToModel(requesterFrom(ctx))
	if err != nil {
		log.Error().Err(err).Msg("failed to build booking")

		return res, fmt.Errorf("failed to build booking: %w", err)
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.RoomName = room.Name
	booking.RoomFloor = room.Floor

	metrics.IncBookingTransition("created_" + booking.Status)
	s.afterChange(ctx, notificationModel.EventBookingCreated, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter = scopeToRequester(ctx, filter)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.count(ctx, req, scopeToRequester(ctx, filter))
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.ownedBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Approve(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	update := dto.StatusUpdate{Status: model.StatusApproved}

	if err = s.transition(ctx, id, update, model.StatusPending); err != nil {
		return err
	}

	metrics.IncBookingTransition(model.StatusApproved)
	s.afterChange(ctx, notificationModel.EventBookingApproved, id)

	return nil
}

func (s *serviceImpl) Reject(ctx context.Context, id string, req dto.RejectBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	update := dto.StatusUpdate{Status: model.StatusRejected}
	if req.Reason != constant.Empty {
		update.RejectionReason = &req.Reason
	}

	if err = s.transition(ctx, id, update, model.StatusPending); err != nil {
		return err
	}

	metrics.IncBookingTransition(model.StatusRejected)
	s.afterChange(ctx, notificationModel.EventBookingRejected, id)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.ownedBooking(ctx, id); err != nil {
		return err
	}

	update := dto.StatusUpdate{Status: model.StatusCancelled}

	if err = s.transition(ctx, id, update, model.StatusPending, model.StatusApproved); err != nil {
		return err
	}

	metrics.IncBookingTransition(model.StatusCancelled)
	s.afterChange(ctx, notificationModel.EventBookingCancelled, id)

	return nil
}

func (s *serviceImpl) QRCode(ctx context.Context, id string) (res []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".QRCode")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.ownedBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err = qrcode.Encode(booking.CheckinURL(s.cfg.App.URL), qrcode.Medium, qrCodeSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode check-in QR code")

		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) GetByToken(ctx context.Context, token string) (res dto.CheckinResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.repo.Get(ctx, shared.FilterByField(model.FieldCheckinToken, token, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking by token")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("Booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) CheckIn(ctx context.Context, token string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	checkedIn, err := s.repo.CheckIn(ctx, token)
	if err != nil {
		log.Error().Err(err).Msg("failed to check in")

		return fmt.Errorf("failed to check in: %w", err)
	}

	if !checkedIn {
		booking, err := s.GetByToken(ctx, token)
		if err != nil {
			return err
		}

		if booking.CheckedIn {
			return failure.Conflict("Already checked in") // nolint:wrapcheck
		}

		return failure.Conflict("Only approved bookings can be checked in") // nolint:wrapcheck
	}

	metrics.IncBookingTransition("checked_in")

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	}()

	return nil
}

// transition moves a booking into a new status when its current status is one of from.
func (s *serviceImpl) transition(ctx context.Context, id string, update dto.StatusUpdate, from ...string) error {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("Booking not found") // nolint:wrapcheck
	}

	if !slices.Contains(from, booking.Status) {
		return failure.Conflict(fmt.Sprintf("Booking is already %s", booking.Status)) // nolint:wrapcheck
	}

	statuses := make([]any, len(from))
	for i, status := range from {
		statuses[i] = status
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: id, Table: model.TableName},
			gDto.Filter{
				ArgName:  "where_status",
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    statuses,
				Table:    model.TableName,
			},
		},
	}

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	affected, err := s.repo.UpdateAffected(ctx, shared.TransformFields(update, user), filter)
	if err != nil {
		log.Error().Err(err).Str("status", update.Status).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("Booking was modified concurrently, reload and retry") // nolint:wrapcheck
	}

	return nil
}

// ownedBooking loads a booking visible to the requester: admins see all, users see their own.
func (s *serviceImpl) ownedBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("Booking not found") // nolint:wrapcheck
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if role != constant.RoleAdmin && booking.UserID != userID {
		return booking, failure.Forbidden("You can only access your own bookings") // nolint:wrapcheck
	}

	return booking, nil
}

// afterChange invalidates list caches and hands the event to the notification dispatcher.
func (s *serviceImpl) afterChange(ctx context.Context, eventType notificationModel.EventType, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	s.dispatcher.Dispatch(ctx, notificationModel.Event{
		Type:       eventType,
		BookingID:  id,
		OccurredAt: timezone.Now(),
	})
}

func requesterFrom(ctx context.Context) dto.Requester {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	name, _ := ctx.Value(constant.ContextKeyUserName).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	return dto.Requester{ID: id, Name: name, Email: email}
}

// scopeToRequester restricts non-admin listings to the requester's own bookings.
func scopeToRequester(ctx context.Context, filter gDto.FilterGroup) gDto.FilterGroup {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role == constant.RoleAdmin {
		return filter
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	owner := gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterOperatorEq, Value: userID, Table: model.TableName}

	if len(filter.Filters) == 0 {
		return gDto.FilterGroup{Filters: []any{owner}}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{filter, owner},
	}
}
