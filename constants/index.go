package constants

// Roles
const (
	ROLE_ADMIN    = "ADMIN"
	ROLE_GATE     = "GATE"
	ROLE_CUSTOMER = "CUSTOMER"
)

// Booking status
const (
	BOOKING_PENDING   = "PENDING"
	BOOKING_VALIDATED = "VALIDATED"
	BOOKING_CANCELLED = "CANCELLED"
)

// Messages
const (
	ERROR_INPUT              = "Invalid input"
	ERROR_INTERNAL_ERROR     = "Internal error"
	DATA_INPUT_IS_NOT_NUMBER = "Parameter must be a number"
	MISSING_LOGIN_INPUT      = "Username and password are required"
	INVALID_USERNAME         = "Username does not exist"
	INVALID_PASSWORD         = "Wrong password"
	ACCOUNT_NOT_ACTIVE       = "Account is not active"
	NOT_PERMITTED            = "Not permitted"
	MISSING_TOKEN            = "Missing token"
	INVALID_TOKEN            = "Invalid or expired token"
)
