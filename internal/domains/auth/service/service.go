package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"meetingbook/infras/jwt"
	"meetingbook/infras/otel"
	"meetingbook/internal/domains/auth/model/dto"
	userModel "meetingbook/internal/domains/user/model"
	userRepo "meetingbook/internal/domains/user/repository"
	"meetingbook/shared"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	"meetingbook/shared/failure"
	"meetingbook/shared/password"

	"github.com/rs/zerolog/log"
)

// Login answers unknown email and wrong password identically.
var (
	errInvalidCredentials = failure.Unauthorized("Invalid email or password")
	errEmailTaken         = failure.Conflict("Email already registered")
	errUserNotFound       = failure.NotFound("User not found")
)

// Auth covers the self-service side of accounts: sign up, sign in and the
// caller's own profile and password.
type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
	Me(ctx context.Context, userID string) (dto.Profile, error)
}

type serviceImpl struct {
	users  userRepo.User
	otel   otel.Otel
	tokens jwt.JWT
}

func New(users userRepo.User, otel otel.Otel, tokens jwt.JWT) Auth {
	return &serviceImpl{
		users:  users,
		otel:   otel,
		tokens: tokens,
	}
}

func byEmail(email string) gDto.FilterGroup {
	return shared.FilterByField(userModel.FieldEmail, strings.ToLower(email), userModel.TableName)
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, userModel.FieldID, userModel.TableName)
}

// lookup reports found=false instead of an error when no row matches.
func (s *serviceImpl) lookup(ctx context.Context, filter gDto.FilterGroup) (user userModel.User, found bool, err error) {
	user, err = s.users.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, false, fmt.Errorf("failed to get user: %w", err)
	}

	return user, user.ID != constant.Empty, nil
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	taken, err := s.users.Exist(ctx, byEmail(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check email availability")

		return fmt.Errorf("failed to check email availability: %w", err)
	}

	if taken {
		return errEmailTaken
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.users.Insert(ctx, req.ToUserModel(hashed))

	switch {
	case shared.IsPqCode(err, constant.PqErrorCodeUniqueViolation):
		return errEmailTaken
	case err != nil:
		log.Error().Err(err).Msg("failed to create user")

		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, found, err := s.lookup(ctx, byEmail(req.Email))
	if err != nil {
		return res, err
	}

	if !found || password.Verify(req.Password, user.Password) != nil {
		log.Warn().Str("email", req.Email).Bool("known", found).Msg("rejected login")

		return res, errInvalidCredentials
	}

	if !user.Active {
		return res, failure.Forbidden("Account is deactivated") // nolint:wrapcheck
	}

	pair, err := s.tokens.GenerateTokenPair(jwt.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue tokens")

		return res, fmt.Errorf("failed to issue tokens: %w", err)
	}

	res.FromTokenPair(pair)
	res.User.FromModel(user)

	return res, nil
}

// RefreshToken trades a refresh token for a new pair. Any token problem is a 401.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	pair, err := s.tokens.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("rejected refresh token")

		return res, failure.Unauthorized("Invalid refresh token") // nolint:wrapcheck
	}

	res.FromTokenPair(pair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.CurrentPassword == req.NewPassword {
		return failure.BadRequestFromString("New password must differ from the current one") // nolint:wrapcheck
	}

	user, found, err := s.lookup(ctx, byID(userID))
	if err != nil {
		return err
	}

	if !found {
		return errUserNotFound
	}

	if password.Verify(req.CurrentPassword, user.Password) != nil {
		return failure.BadRequestFromString("Current password is incorrect") // nolint:wrapcheck
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashed}, user.Email)
	if err = s.users.Update(ctx, fields, byID(userID)); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *serviceImpl) Me(ctx context.Context, userID string) (res dto.Profile, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Me")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, found, err := s.lookup(ctx, byID(userID))
	if err != nil {
		return res, err
	}

	if !found {
		return res, errUserNotFound
	}

	res.FromModel(user)

	return res, nil
}
