package errors

// PlatformError extends the standard error interface with structured information.
//
// Every error produced by the storage packages implements PlatformError. The
// code tells callers which kind of failure occurred, the classification hints
// at whether a retry could help, and the cause keeps the native failure
// reachable through errors.Unwrap.
type PlatformError interface {
	error

	// Code returns the error code identifying the type of error.
	Code() ErrorCode

	// Classification returns whether the error is retryable or permanent.
	Classification() ErrorClassification

	// Message returns the human-readable error message.
	Message() string

	// Context returns attached metadata as a read-only map.
	// Returns nil if no context has been attached.
	Context() map[string]interface{}

	// Unwrap returns the wrapped error for errors.Is and errors.As compatibility.
	// Returns nil if this error does not wrap another error.
	Unwrap() error
}
