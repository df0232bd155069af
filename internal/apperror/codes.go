package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Odds-source error codes. Callers pick their retry policy per kind:
// back off and retry on SOURCE_RATE_LIMITED, abort on SOURCE_UNAUTHORIZED.
const (
	CodeSourceUnauthorized  Code = "SOURCE_UNAUTHORIZED"
	CodeSourceRateLimited   Code = "SOURCE_RATE_LIMITED"
	CodeSourceNetworkError  Code = "SOURCE_NETWORK_ERROR"
	CodeSourceMalformedData Code = "SOURCE_MALFORMED_DATA"
	CodeOddsFetchFailed     Code = "ODDS_FETCH_FAILED"
	CodeEventNotFound       Code = "EVENT_NOT_FOUND"
	CodeNoEventsAvailable   Code = "NO_EVENTS_AVAILABLE"

	// Scraper errors
	CodeScraperNavigationFailed Code = "SCRAPER_NAVIGATION_FAILED"
	CodeScraperParseFailed      Code = "SCRAPER_PARSE_FAILED"
)

// Arbitrage engine and scan error codes
const (
	// CodeNotArbitrage signals the stake-allocation precondition violation:
	// stakes were requested for an outcome set whose S value is >= 1.0.
	CodeNotArbitrage Code = "NOT_ARBITRAGE"

	CodeStakeMismatch  Code = "STAKE_MISMATCH"
	CodeScanInProgress Code = "SCAN_IN_PROGRESS"
	CodeNoScanResult   Code = "NO_SCAN_RESULT"
)

// Gateway errors
const (
	CodeWebSocketSendError Code = "WEBSOCKET_SEND_ERROR"
	CodeWebSocketClosed    Code = "WEBSOCKET_CLOSED"
)

// Circuit breaker errors
const (
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
