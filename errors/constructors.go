package errors

import "fmt"

// Sentinels for matching error kinds with errors.Is.
//
//	if errors.Is(err, errors.ErrItemNotFound) {
//	    // the file or its container is missing
//	}
//
// ErrStorage matches any storage error, including ErrItemNotFound and
// ErrInvalidPath. ErrInvalidArgument is not part of the storage family.
var (
	ErrStorage         PlatformError = sentinel(CodeStorage)
	ErrItemNotFound    PlatformError = sentinel(CodeItemNotFound)
	ErrInvalidPath     PlatformError = sentinel(CodeInvalidPath)
	ErrInvalidArgument PlatformError = sentinel(CodeInvalidArgument)
	ErrCanceled        PlatformError = sentinel(CodeCanceled)
	ErrTimeout         PlatformError = sentinel(CodeTimeout)
)

func sentinel(code ErrorCode) *platformError {
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        DefaultMessage(code),
		kind:           true,
	}
}

// New creates a new PlatformError with the given code and message.
// An empty message is replaced by the default message for the code.
//
// Example:
//
//	err := errors.New(errors.CodeInvalidPath, "segment contains a separator")
func New(code ErrorCode, message string) PlatformError {
	if message == "" {
		message = DefaultMessage(code)
	}
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a new PlatformError with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeInvalidArgument, "segment %d is empty", i)
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}

// Storage returns a generic storage error with the default message wrapping
// cause. cause may be nil.
func Storage(cause error) PlatformError {
	return withDefault(CodeStorage, cause)
}

// ItemNotFound returns an item-not-found error with the default message
// wrapping cause. cause may be nil.
func ItemNotFound(cause error) PlatformError {
	return withDefault(CodeItemNotFound, cause)
}

// InvalidPath returns an invalid-path error with the default message
// wrapping cause. cause may be nil.
func InvalidPath(cause error) PlatformError {
	return withDefault(CodeInvalidPath, cause)
}

func withDefault(code ErrorCode, cause error) PlatformError {
	if cause == nil {
		return New(code, "")
	}
	return Wrap(cause, code, "")
}
