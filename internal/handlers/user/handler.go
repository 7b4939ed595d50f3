package user

import (
	"net/http"

	"meetingbook/infras/otel"
	"meetingbook/internal/domains/user/model"
	"meetingbook/internal/domains/user/model/dto"
	"meetingbook/internal/domains/user/service"
	"meetingbook/internal/handlers"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	"meetingbook/shared/validator"
	"meetingbook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

// Handler serves the admin user management endpoints under /api/users.
type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/users", func(users chi.Router) {
		users.Get("/", handler.GetUsers)
		users.Post("/", handler.CreateUser)
		users.Get("/{id}", handler.GetUserByID)
		users.Patch("/{id}", handler.UpdateUser)
		users.Delete("/{id}", handler.DeleteUser)
	})
}

// listFilter reads the optional email (substring) and role (exact) query filters.
func listFilter(r *http.Request) gDto.FilterGroup {
	query := r.URL.Query()
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if email := query.Get(model.FieldEmail); email != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldEmail, Operator: gDto.FilterOperatorLike, Value: email, Table: model.TableName})
	}

	if role := query.Get(model.FieldRole); role != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldRole, Operator: gDto.FilterOperatorEq, Value: role, Table: model.TableName})
	}

	return group
}

// CreateUser godoc
// @Summary Create a user
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "New account"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "Email already registered"
// @Router /users [post]
// @Security BearerAuth
func (handler *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "CreateUser")
	defer scope.End()

	var req dto.CreateUserRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		handlers.Fail(w, scope, err, "invalid create user request")

		return
	}

	if err := handler.service.Create(r.Context(), req); err != nil {
		handlers.Fail(w, scope, err, "failed to create user")

		return
	}

	response.WithMessage(w, http.StatusCreated, "User created successfully")
}

// GetUsers godoc
// @Summary List users
// @Tags User
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination and sorting"
// @Param email query string false "Email contains"
// @Param role query string false "admin or user"
// @Success 200 {object} response.Data[dto.GetUsersResponse]
// @Router /users [get]
// @Security BearerAuth
func (handler *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "GetUsers")
	defer scope.End()

	var params gDto.QueryParams
	params.FromRequest(r, true)

	users, err := handler.service.GetAll(r.Context(), params, listFilter(r))
	if err != nil {
		handlers.Fail(w, scope, err, "failed to list users")

		return
	}

	response.WithJSON(w, http.StatusOK, users)
}

// GetUserByID godoc
// @Summary Get a user
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 404 {object} response.Error
// @Router /users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "GetUserByID")
	defer scope.End()

	user, err := handler.service.Get(r.Context(), chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		handlers.Fail(w, scope, err, "failed to get user")

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Update a user
// @Description Only the fields present are changed. A new password is re-hashed.
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /users/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "UpdateUser")
	defer scope.End()

	var req dto.UpdateUserRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		handlers.Fail(w, scope, err, "invalid update user request")

		return
	}

	if err := handler.service.Update(r.Context(), req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		handlers.Fail(w, scope, err, "failed to update user")

		return
	}

	response.WithMessage(w, http.StatusOK, "User updated successfully")
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "User still has bookings"
// @Router /users/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "DeleteUser")
	defer scope.End()

	if err := handler.service.Delete(r.Context(), chi.URLParam(r, constant.RequestParamID)); err != nil {
		handlers.Fail(w, scope, err, "failed to delete user")

		return
	}

	response.WithMessage(w, http.StatusOK, "User deleted successfully")
}
