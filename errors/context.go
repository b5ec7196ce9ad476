package errors

import "errors"

// WithContext adds a single context field to an error and returns a new
// PlatformError. Existing fields are preserved. Like WithContextMap, it
// keeps only the outermost PlatformError of err.
//
// If err is not a PlatformError, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err := errors.ItemNotFound(cause)
//	err = errors.WithContext(err, "path", "photos/2024")
func WithContext(err error, key string, value interface{}) PlatformError {
	return WithContextMap(err, map[string]interface{}{key: value})
}

// WithContextMap merges fields into the context of an error and returns a new
// PlatformError. New fields override existing ones with the same key.
//
// The result is rebuilt from the outermost PlatformError in err's chain, so
// the messages of non-platform wrappers around it, such as those added with
// fmt.Errorf("...: %w", pe), are dropped. Pass the PlatformError itself.
//
// If err is not a PlatformError, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
func WithContextMap(err error, fields map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}

	base := asPlatform(err)
	merged := base.Context()
	if merged == nil {
		merged = make(map[string]interface{}, len(fields))
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &platformError{
		code:           base.Code(),
		classification: base.Classification(),
		message:        base.Message(),
		context:        merged,
		cause:          base.Unwrap(),
	}
}

// WithClassification overrides the classification of an error and returns a
// new PlatformError.
//
// If err is not a PlatformError, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	// A dropped connection to the object store is worth retrying.
//	err = errors.WithClassification(err, errors.ClassificationRetryable)
func WithClassification(err error, classification ErrorClassification) PlatformError {
	if err == nil {
		return nil
	}

	base := asPlatform(err)
	return &platformError{
		code:           base.Code(),
		classification: classification,
		message:        base.Message(),
		context:        base.Context(),
		cause:          base.Unwrap(),
	}
}

// asPlatform returns the outermost PlatformError in err's chain, or wraps err
// as CodeUnknown when there is none.
func asPlatform(err error) PlatformError {
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		return platformErr
	}
	return &platformError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
