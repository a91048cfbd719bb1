package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidCount    ErrorCode = "invalid_count"
	ErrInvalidFormat   ErrorCode = "invalid_output_format"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Sampling errors
	ErrUnavailable    ErrorCode = "source_unavailable"
	ErrInitSampler    ErrorCode = "init_sampler_failed"
	ErrSamplingLoop   ErrorCode = "sampling_loop_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Telemetry errors
	ErrInitTelemetry  ErrorCode = "init_telemetry_failed"
	ErrRecordSnapshot ErrorCode = "record_snapshot_failed"
	ErrCloseTelemetry ErrorCode = "close_telemetry_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrInvalidConfig:   "Invalid configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read configuration",
	ErrInvalidInterval: "Invalid interval value",
	ErrInvalidCount:    "Invalid sample count",
	ErrInvalidFormat:   "Invalid output format",
	ErrInvalidLogLevel: "Invalid log level",
	ErrUnavailable:     "Counter source unavailable",
	ErrInitSampler:     "Failed to initialize sampler",
	ErrSamplingLoop:    "Error in sampling loop",
	ErrShutdownFailed:  "Shutdown failed",
	ErrInitTelemetry:   "Failed to initialize telemetry",
	ErrRecordSnapshot:  "Failed to record snapshot",
	ErrCloseTelemetry:  "Failed to close telemetry storage",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
