package constant

import (
	"time"
)

type ContextKey string

// Caller identity placed on the request context by the auth middleware.
const (
	ContextKeyUserID    ContextKey = "user_id"
	ContextKeyUserEmail ContextKey = "user_email"
	ContextKeyUserName  ContextKey = "user_name"
	ContextKeyUserRole  ContextKey = "user_role"
	ContextKeyTokenID   ContextKey = "token_id"
)

// Roles carried in the access token and stored on users.role.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Route and query parameters. RequestMaxMemory caps the in-memory part of a multipart form.
const (
	RequestParamID      = "id"
	RequestParamToken   = "token"
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
	RequestMaxMemory    = 10 << 20
)

// List defaults when page or limit is absent.
const (
	DefaultValuePage  = 1
	DefaultValueLimit = 10
)

// Audit columns stamped on every update.
const (
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

// Postgres SQLSTATE codes mapped to 409s.
const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
)

// Bookings keep date and times as text in these layouts; DateFormat is for API timestamps.
const (
	DateFormat      = time.RFC3339
	BookingDate     = "2006-01-02"
	BookingTime     = "15:04"
	BookingDateTime = BookingDate + " " + BookingTime
)

// Tracer scope names per layer.
const (
	OtelHandlerScopeName    = "handler"
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelEventScopeName      = "event"
	OtelJobScopeName        = "job"
	OtelS3ScopeName         = "s3"
	OtelSMTPScopeName       = "smtp"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderAPIKey             = "X-API-Key"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
)

const (
	ContentTypeJSON            = "application/json"
	ContentTypeHTML            = "text/html; charset=utf-8"
	ContentTypePNG             = "image/png"
	ContentTypeXLSX            = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCalendarRequest = "text/calendar; method=REQUEST"
)

const (
	ResponseErrorInternal             = "Internal server error"
	ResponseErrorPrepareShutdown      = "Server is shutting down"
	ResponseErrorUnhealthy            = "Server is unhealthy"
	ResponseErrorRequestLimitExceeded = "Too many requests"
)

const ServerEnvDevelopment = "development"

const (
	CacheKeySeparator = ":"
	Asterix           = "*"
	Empty             = ""
)
