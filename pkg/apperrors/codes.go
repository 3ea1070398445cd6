package apperrors

// Error codes grouped by domain.
const (
	// Authentication and tokens
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	CodeTokenNotFound      ErrorCode = "TOKEN_NOT_FOUND"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"

	// Resources
	CodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	CodeRobotNotFound   ErrorCode = "ROBOT_NOT_FOUND"
	CodeProductNotFound ErrorCode = "PRODUCT_NOT_FOUND"
	CodeSlotNotFound    ErrorCode = "SLOT_NOT_FOUND"
	CodeTaskNotFound    ErrorCode = "TASK_NOT_FOUND"
	CodeInsightNotFound ErrorCode = "INSIGHT_NOT_FOUND"
	CodeNotFound        ErrorCode = "NOT_FOUND"

	// Business rules
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodePasswordRequired   ErrorCode = "PASSWORD_REQUIRED"

	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)
