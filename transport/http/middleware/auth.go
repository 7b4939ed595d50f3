package middleware

import (
	"context"
	"errors"
	"net/http"

	"meetingbook/config"
	"meetingbook/infras/jwt"
	"meetingbook/infras/otel"
	"meetingbook/permissions"
	"meetingbook/shared/constant"
	"meetingbook/shared/failure"
	"meetingbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type internalCallKey struct{}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole is the /api middleware chain: APIKey, then Auth, then RBAC.
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

var tokenErrorMessages = []struct {
	err     error
	message string
}{
	{jwt.ErrExpiredToken, "Token has expired"},
	{jwt.ErrInvalidToken, "Invalid token"},
	{jwt.ErrInvalidClaim, "Invalid token claims"},
}

func tokenErrorMessage(err error) string {
	for _, candidate := range tokenErrorMessages {
		if errors.Is(err, candidate.err) {
			return candidate.message
		}
	}

	return "Token validation failed"
}

func isInternalCall(ctx context.Context) bool {
	internal, _ := ctx.Value(internalCallKey{}).(bool)

	return internal
}

// routePattern resolves the request to the chi pattern it matched, e.g. /api/bookings/{id}.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path)
}

func (m *authRoleImpl) rule(r *http.Request) (permissions.Permission, bool) {
	if m.permission == nil {
		return permissions.Permission{}, false
	}

	return m.permission.FindPermissions(routePattern(r), r.Method), true
}

func deny(w http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	response.WithError(w, err)
}

// Auth validates the bearer token and puts the caller identity on the context.
// Public routes and internal calls pass through untouched.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		if isInternalCall(r.Context()) {
			next.ServeHTTP(w, r)

			return
		}

		if rule, ok := m.rule(r); ok && rule.Skip {
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       routePattern(r),
			"http.method":     r.Method,
		})

		header := r.Header.Get(constant.RequestHeaderAuthorization)
		if header == "" {
			deny(w, scope, failure.Unauthorized("Missing authorization header"))

			return
		}

		token, err := jwt.ExtractTokenFromHeader(header)
		if err != nil {
			deny(w, scope, failure.Unauthorized("Invalid authorization header format"))

			return
		}

		claims, err := m.jwtService.ValidateToken(token, jwt.AccessToken)
		if err != nil {
			deny(w, scope, failure.Unauthorized(tokenErrorMessage(err)))

			return
		}

		if claims.UserID == "" || claims.Email == "" {
			log.Error().Str("token_id", claims.TokenID).Msg("access token without user id or email")
			deny(w, scope, failure.Unauthorized("Invalid token claims"))

			return
		}

		ctx := r.Context()
		for k, v := range map[constant.ContextKey]string{
			constant.ContextKeyUserID:    claims.UserID,
			constant.ContextKeyUserEmail: claims.Email,
			constant.ContextKeyUserName:  claims.Name,
			constant.ContextKeyUserRole:  claims.Role,
			constant.ContextKeyTokenID:   claims.TokenID,
		} {
			ctx = context.WithValue(ctx, k, v)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RBAC admits the caller when the route rule lists their role. It must run after Auth.
// Without a route table every request is forbidden.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if isInternalCall(ctx) {
			next.ServeHTTP(w, r)

			return
		}

		rule, ok := m.rule(r)
		if !ok {
			deny(w, scope, failure.ForbiddenError)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		if !m.permission.Skip && !rule.Allows(role) {
			scope.SetAttributes(map[string]any{
				"user_role":     role,
				"allowed_roles": rule.Permissions,
				"reason":        "role_not_allowed",
			})
			deny(w, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// APIKey marks requests carrying the configured X-API-Key as internal so Auth and
// RBAC let them through. A wrong key is rejected outright; no key means a normal client.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		key := r.Header.Get(constant.RequestHeaderAPIKey)
		if key == "" {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if key != m.cfg.App.APIKey {
			deny(w, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), internalCallKey{}, true)))
	})
}
