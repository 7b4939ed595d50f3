package auth

import (
	"net/http"

	"meetingbook/infras/otel"
	"meetingbook/internal/domains/auth/model/dto"
	"meetingbook/internal/domains/auth/service"
	"meetingbook/internal/handlers"
	"meetingbook/shared/validator"
	"meetingbook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

// Handler serves /api/auth. Register, login and refresh are public; the rest
// act on the caller identified by the access token.
type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", handler.Register)
		auth.Post("/login", handler.Login)
		auth.Post("/refresh-token", handler.RefreshToken)
		auth.Get("/me", handler.Me)
		auth.Put("/change-password", handler.ChangePassword)
	})
}

// Register godoc
// @Summary Register an account
// @Description New accounts always get the user role.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "Email already registered"
// @Router /auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "Register")
	defer scope.End()

	var req dto.RegisterRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		handlers.Fail(w, scope, err, "invalid register request")

		return
	}

	if err := handler.service.Register(r.Context(), req); err != nil {
		handlers.Fail(w, scope, err, "failed to register")

		return
	}

	scope.AddEvent("registered")
	response.WithMessage(w, http.StatusCreated, "User registered successfully")
}

// Login godoc
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} response.Data[dto.LoginResponse]
// @Failure 401 {object} response.Error "Invalid email or password"
// @Failure 403 {object} response.Error "Account is deactivated"
// @Router /auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "Login")
	defer scope.End()

	var req dto.LoginRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		handlers.Fail(w, scope, err, "invalid login request")

		return
	}

	res, err := handler.service.Login(r.Context(), req)
	if err != nil {
		handlers.Fail(w, scope, err, "failed to login")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// RefreshToken godoc
// @Summary Rotate the token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse]
// @Failure 401 {object} response.Error
// @Router /auth/refresh-token [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "RefreshToken")
	defer scope.End()

	var req dto.RefreshTokenRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		handlers.Fail(w, scope, err, "invalid refresh request")

		return
	}

	res, err := handler.service.RefreshToken(r.Context(), req)
	if err != nil {
		handlers.Fail(w, scope, err, "failed to refresh token")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Me godoc
// @Summary Current account
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Data[dto.Profile]
// @Failure 401 {object} response.Error
// @Router /auth/me [get]
// @Security BearerAuth
func (handler *Handler) Me(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "Me")
	defer scope.End()

	res, err := handler.service.Me(r.Context(), handlers.CallerID(r))
	if err != nil {
		handlers.Fail(w, scope, err, "failed to get profile")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ChangePassword godoc
// @Summary Change own password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Router /auth/change-password [put]
// @Security BearerAuth
func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "ChangePassword")
	defer scope.End()

	var req dto.ChangePasswordRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		handlers.Fail(w, scope, err, "invalid change password request")

		return
	}

	if err := handler.service.ChangePassword(r.Context(), req, handlers.CallerID(r)); err != nil {
		handlers.Fail(w, scope, err, "failed to change password")

		return
	}

	response.WithMessage(w, http.StatusOK, "Password changed successfully")
}
