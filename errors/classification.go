package errors

// ErrorClassification indicates whether an error should trigger a retry.
// The storage layer never retries on its own; the classification is a hint
// for callers that implement their own retry policy.
type ErrorClassification string

const (
	// ClassificationRetryable indicates temporary failures that may succeed on retry.
	// Examples: timeouts, throttled object store requests, dropped connections.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent indicates failures that will not succeed on retry.
	// Examples: invalid paths, missing items, permission denials.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps error codes to their default classification.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeTimeout: ClassificationRetryable,

	CodeStorage:         ClassificationPermanent,
	CodeItemNotFound:    ClassificationPermanent,
	CodeInvalidPath:     ClassificationPermanent,
	CodeInvalidArgument: ClassificationPermanent,
	CodeInvalidConfig:   ClassificationPermanent,
	CodeCanceled:        ClassificationPermanent,
	CodeUnknown:         ClassificationPermanent,
}

// getDefaultClassification returns the default classification for an error code.
// Returns ClassificationPermanent if the code is not in the map.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
