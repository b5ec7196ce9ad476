package errors

import (
	"context"
	"errors"
	"fmt"
)

// Wrap wraps an error with a code and message while preserving the original error.
// The wrapped error is accessible via Unwrap() and compatible with errors.Is and errors.As.
//
// If the wrapped error is a PlatformError, its classification is preserved.
// Otherwise, the default classification for the error code is used. An empty
// message is replaced by the default message for the code.
//
// Returns nil if err is nil.
//
// Example:
//
//	entries, err := os.ReadDir(dir)
//	if err != nil {
//	    return nil, errors.Wrap(err, errors.CodeStorage, "failed to list directory")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	return WrapWithContext(err, code, message, nil)
}

// Wrapf wraps an error with a formatted message while preserving the original error.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) PlatformError {
	if err == nil {
		return nil
	}

	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps an error and attaches context metadata in a single operation.
// The context map is copied to prevent external mutation.
//
// Returns nil if err is nil.
//
// Example:
//
//	return errors.WrapWithContext(err, errors.CodeStorage, "file already exists", map[string]interface{}{
//	    "path": c.Path().String(),
//	    "file": name,
//	})
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}
	if message == "" {
		message = DefaultMessage(code)
	}

	classification := getDefaultClassification(code)
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		classification = platformErr.Classification()
	}

	var contextCopy map[string]interface{}
	if ctx != nil {
		contextCopy = make(map[string]interface{}, len(ctx))
		for k, v := range ctx {
			contextCopy[k] = v
		}
	}

	return &platformError{
		code:           code,
		classification: classification,
		message:        message,
		context:        contextCopy,
		cause:          err,
	}
}

// FromContext converts the error of a finished context into a PlatformError.
// context.DeadlineExceeded becomes CodeTimeout and anything else becomes
// CodeCanceled. The original error stays in the chain, so
// errors.Is(err, context.Canceled) keeps working.
//
// Returns nil if err is nil.
func FromContext(err error) PlatformError {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, CodeTimeout, "")
	}
	return Wrap(err, CodeCanceled, "")
}
