//go:build wireinject
// +build wireinject

package di

import (
	"meetingbook/config"
	"meetingbook/infras/jwt"
	"meetingbook/infras/kafka"
	"meetingbook/infras/otel"
	"meetingbook/infras/postgres"
	"meetingbook/infras/redis"
	"meetingbook/infras/s3"
	"meetingbook/infras/smtp"
	"meetingbook/internal/jobs/reminder"
	"meetingbook/permissions"
	"meetingbook/shared/cache"
	"meetingbook/transport/http"
	"meetingbook/transport/http/middleware"
	"meetingbook/transport/http/router"

	"github.com/google/wire"

	authService "meetingbook/internal/domains/auth/service"
	bookingRepository "meetingbook/internal/domains/booking/repository"
	bookingService "meetingbook/internal/domains/booking/service"
	emailLogRepository "meetingbook/internal/domains/emaillog/repository"
	"meetingbook/internal/domains/notification/delivery"
	notificationService "meetingbook/internal/domains/notification/service"
	"meetingbook/internal/domains/notification/template"
	roomRepository "meetingbook/internal/domains/room/repository"
	roomService "meetingbook/internal/domains/room/service"
	settingRepository "meetingbook/internal/domains/setting/repository"
	settingService "meetingbook/internal/domains/setting/service"
	userRepository "meetingbook/internal/domains/user/repository"
	userService "meetingbook/internal/domains/user/service"
	authHandler "meetingbook/internal/handlers/auth"
	bookingHandler "meetingbook/internal/handlers/booking"
	checkinHandler "meetingbook/internal/handlers/checkin"
	healthHandler "meetingbook/internal/handlers/health"
	roomHandler "meetingbook/internal/handlers/room"
	settingHandler "meetingbook/internal/handlers/setting"
	userHandler "meetingbook/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	smtp.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var notificationDomain = wire.NewSet(
	emailLogRepository.New,
	delivery.New,
	template.New,
	notificationService.New,
	notificationService.NewDispatcher,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var settingDomain = wire.NewSet(
	settingRepository.New,
	settingService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	roomDomain,
	notificationDomain,
	bookingDomain,
	settingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	bookingHandler.New,
	settingHandler.New,
	checkinHandler.New,
	healthHandler.New,
	router.New,
)

var jobs = wire.NewSet(
	reminder.New,
)

func InitializeService() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		jobs,
		http.New,
		NewApp,
	)

	return &App{}
}

func InitializeNotifier() *Notifier {
	wire.Build(
		configurations,
		infrastructures,
		userRepository.New,
		bookingRepository.New,
		emailLogRepository.New,
		delivery.New,
		template.New,
		notificationService.New,
		NewNotifier,
	)

	return &Notifier{}
}
