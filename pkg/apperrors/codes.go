package apperrors

type Code string

const (
	CodeInternal          Code = "INTERNAL_ERROR"
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeNoFieldsProvided  Code = "NO_FIELDS_PROVIDED"
	CodeIllegalTransition Code = "ILLEGAL_TRANSITION"
	CodeRateLimited       Code = "RATE_LIMITED"

	// credentials
	CodeMissingToken       Code = "MISSING_TOKEN"
	CodeTokenInvalid       Code = "TOKEN_INVALID"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeAccountInactive    Code = "ACCOUNT_INACTIVE"
	CodeNotVerified        Code = "NOT_VERIFIED"

	// authorization
	CodeRoleDenied Code = "ROLE_DENIED"
	CodeNotOwner   Code = "NOT_OWNER"

	// lookups
	CodeNotFound        Code = "NOT_FOUND"
	CodeProfileNotFound Code = "PROFILE_NOT_FOUND"
	CodeJobNotFound     Code = "JOB_NOT_FOUND"

	// application engine
	CodeAlreadyPlaced        Code = "ALREADY_PLACED"
	CodeJobClosed            Code = "JOB_CLOSED"
	CodeDeadlinePassed       Code = "DEADLINE_PASSED"
	CodeNotEligible          Code = "NOT_ELIGIBLE"
	CodeDuplicateApplication Code = "DUPLICATE_APPLICATION"

	// accounts and profiles
	CodeDuplicateKey    Code = "DUPLICATE_KEY"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeAlreadyVerified Code = "ALREADY_VERIFIED"
	CodeAlreadyActive   Code = "ALREADY_ACTIVE"
	CodeAlreadyInactive Code = "ALREADY_INACTIVE"
	CodeWrongRole       Code = "WRONG_ROLE"
	CodeInvalidFile     Code = "INVALID_FILE"
	CodeFileTooLarge    Code = "FILE_TOO_LARGE"
)
