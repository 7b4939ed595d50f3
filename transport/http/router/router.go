package router

import (
	"meetingbook/internal/handlers/auth"
	"meetingbook/internal/handlers/booking"
	"meetingbook/internal/handlers/checkin"
	"meetingbook/internal/handlers/health"
	"meetingbook/internal/handlers/room"
	"meetingbook/internal/handlers/setting"
	"meetingbook/internal/handlers/user"
	"meetingbook/shared/metrics"
	"meetingbook/transport/http/middleware"

	_ "meetingbook/docs" // swagger spec registration

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	APIPrefix  = "/api"
	HealthPath = APIPrefix + "/health"
)

type DomainHandlers struct {
	Auth    auth.Handler
	User    user.Handler
	Room    room.Handler
	Booking booking.Handler
	Setting setting.Handler
	Checkin checkin.Handler
	Health  health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.App.Recover, r.App.Tracing, r.App.CORS(), r.App.RateLimit())

	router.Handle("/metrics", metrics.Handler())
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	r.DomainHandlers.Checkin.PageRouter(router)

	router.Route(APIPrefix, func(api chi.Router) {
		api.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Health.Router(api)
		r.DomainHandlers.Auth.Router(api)
		r.DomainHandlers.User.Router(api)
		r.DomainHandlers.Room.Router(api)
		r.DomainHandlers.Booking.Router(api)
		r.DomainHandlers.Setting.Router(api)
		r.DomainHandlers.Checkin.Router(api)
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		AuthRole:       authRole,
	}
}
