package apperrors

// ErrorCode is the stable machine-readable kind sent to clients.
type ErrorCode string

const (
	// System
	CodeInternalError       ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError       ErrorCode = "DATABASE_ERROR"
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"

	// Business rules
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeAlreadyExists        ErrorCode = "ALREADY_EXISTS"
	CodeConflict             ErrorCode = "CONFLICT"
	CodeJobClosed            ErrorCode = "JOB_CLOSED"
	CodeInvalidStatus        ErrorCode = "INVALID_STATUS"
	CodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	CodePayloadTooLarge      ErrorCode = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	CodeRateLimited          ErrorCode = "RATE_LIMITED"

	// Auth
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)
