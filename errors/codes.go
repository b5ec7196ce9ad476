package errors

// ErrorCode identifies an error condition.
// Codes are strings so they read well in logs, metric labels and JSON.
type ErrorCode string

const (
	// Storage errors. Every code in this group is a kind of CodeStorage.

	// CodeStorage indicates a failure of the storage medium that has no more
	// specific classification (permission denied, disk full, I/O fault,
	// write conflicts).
	CodeStorage ErrorCode = "STORAGE_ERROR"

	// CodeItemNotFound indicates that a file or one of its parent containers
	// does not exist.
	CodeItemNotFound ErrorCode = "ITEM_NOT_FOUND"

	// CodeInvalidPath indicates that a container path cannot be mapped onto
	// the addressing scheme of a storage backend.
	CodeInvalidPath ErrorCode = "INVALID_CONTAINER_PATH"

	// Caller errors.

	// CodeInvalidArgument indicates a missing or structurally invalid value
	// supplied by the caller, such as an empty file name or path segment.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// CodeInvalidConfig indicates that a backend configuration is incomplete
	// or inconsistent.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Control flow errors.

	// CodeCanceled indicates the operation was abandoned because its context
	// was canceled.
	CodeCanceled ErrorCode = "CANCELED"

	// CodeTimeout indicates the operation exceeded its deadline.
	CodeTimeout ErrorCode = "TIMEOUT"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// storageCodes lists the codes that belong to the storage error family.
var storageCodes = map[ErrorCode]struct{}{
	CodeStorage:      {},
	CodeItemNotFound: {},
	CodeInvalidPath:  {},
}

// IsStorageCode reports whether code belongs to the storage error family.
func IsStorageCode(code ErrorCode) bool {
	_, ok := storageCodes[code]
	return ok
}

// defaultMessages holds the message used when an error is created without one.
var defaultMessages = map[ErrorCode]string{
	CodeStorage:         "A storage error occurred.",
	CodeItemNotFound:    "The storage item or one of its parent containers does not exist.",
	CodeInvalidPath:     "The specified storage path is invalid.",
	CodeInvalidArgument: "An invalid argument was supplied.",
	CodeInvalidConfig:   "The storage configuration is invalid.",
	CodeCanceled:        "The operation was canceled.",
	CodeTimeout:         "The operation timed out.",
	CodeUnknown:         "An unknown error occurred.",
}

// DefaultMessage returns the message used for code when none is given.
func DefaultMessage(code ErrorCode) string {
	if msg, ok := defaultMessages[code]; ok {
		return msg
	}
	return string(code)
}
