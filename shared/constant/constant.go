package constant

import (
	"time"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyOwnerID contextKey = "owner_id"
)

const (
	RequestParamID        = "id"
	RequestParamCompleted = "completed"
)

const (
	RequestHeaderOwnerID     = "X-Owner-ID"
	RequestHeaderContentType = "Content-Type"
	RequestHeaderRequestID   = "X-Request-ID"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	FieldID        = "id"
	FieldOwnerID   = "owner_id"
	FieldTitle     = "title"
	FieldCompleted = "completed"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

const (
	TitleMinLength = 1
	TitleMaxLength = 200
)

const (
	PqErrorCodeUniqueViolation  = "23505"
	PqErrorCodeFkViolation      = "23503"
	PqErrorCodeNotNullViolation = "23502"
	PqErrorCodeCheckViolation   = "23514"
)

const (
	DriverSqlite   = "sqlite3"
	DriverPostgres = "postgres"
)

const (
	DateFormat = time.RFC3339
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelMigrationScopeName  = "migration"

	OtelQueryAttributeKey = "query"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	ResponseErrorPrepareShutdown = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy       = "SERVER UNHEALTHY"
)

const (
	Empty = ""
)
