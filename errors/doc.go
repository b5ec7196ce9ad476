// Package errors provides the error taxonomy shared by every storage backend.
//
// Errors carry a code, a retry classification, a message, optional context
// metadata and an optional cause. They work with the standard library
// errors.Is, errors.As and errors.Unwrap.
//
// # Kinds
//
// Three codes form the storage family:
//
//   - CodeStorage: any medium failure with no more specific kind (permission
//     denied, disk full, I/O fault, an existing file under overwrite=false)
//   - CodeItemNotFound: a file or one of its parent containers does not exist
//   - CodeInvalidPath: a container path cannot be mapped onto a backend
//
// CodeInvalidArgument is reported for caller mistakes such as empty file
// names or empty path segments. It is not a storage error. CodeCanceled and
// CodeTimeout are reported when a context ends an operation.
//
// # Matching
//
// Match kinds with the sentinels. ErrStorage is the broad catch:
//
//	switch {
//	case errors.Is(err, errors.ErrItemNotFound):
//	    // narrow: missing item
//	case errors.Is(err, errors.ErrStorage):
//	    // broad: any storage failure, including invalid paths
//	}
//
// The native cause stays reachable, so errors.Is(err, fs.ErrExist) and
// errors.Is(err, context.Canceled) keep working on wrapped errors.
//
// # Creating errors
//
//	err := errors.ItemNotFound(pathErr)
//	err := errors.New(errors.CodeInvalidPath, "segment contains a separator")
//	err := errors.Wrap(pathErr, errors.CodeStorage, "failed to open file")
//	err = errors.WithContext(err, "file", name)
//
// # Serialization
//
// ToJSON flattens any error into an ErrorResponse without its cause chain.
package errors
