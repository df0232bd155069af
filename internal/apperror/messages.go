package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Odds-source errors
	CodeSourceUnauthorized:  "Odds source rejected credentials",
	CodeSourceRateLimited:   "Odds source rate limit exceeded",
	CodeSourceNetworkError:  "Odds source network error",
	CodeSourceMalformedData: "Odds source returned malformed data",
	CodeOddsFetchFailed:     "Failed to fetch odds",
	CodeEventNotFound:       "Event not found at odds source",
	CodeNoEventsAvailable:   "No events available from any source",

	// Scraper errors
	CodeScraperNavigationFailed: "Scraper failed to load bookmaker page",
	CodeScraperParseFailed:      "Scraper failed to parse odds from page",

	// Arbitrage engine and scan errors
	CodeNotArbitrage:   "Cannot allocate stakes for a non-arbitrage outcome set",
	CodeStakeMismatch:  "Stake list does not match outcome list",
	CodeScanInProgress: "A scan is already in progress",
	CodeNoScanResult:   "No completed scan result available",

	// Gateway errors
	CodeWebSocketSendError: "Failed to send WebSocket message",
	CodeWebSocketClosed:    "WebSocket connection closed",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
