package disk

import (
	"errors"
	"io/fs"
	"syscall"

	platformerrors "github.com/jmgilman/go/storage/errors"
)

// isNotFound reports whether err means that the target or one of its parent
// directories is missing. A parent that is a regular file counts as missing.
func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// fail translates a native error from operation op into the storage taxonomy.
func (c *Container) fail(op, name string, err error) error {
	fields := c.fields(op, name)

	switch {
	case isNotFound(err):
		return platformerrors.WithContextMap(platformerrors.ItemNotFound(err), fields)
	case errors.Is(err, fs.ErrExist):
		fields["reason"] = "already_exists"
		return platformerrors.WrapWithContext(err, platformerrors.CodeStorage, "the file already exists", fields)
	default:
		return platformerrors.WithContextMap(platformerrors.Storage(err), fields)
	}
}

func (c *Container) fields(op, name string) map[string]interface{} {
	fields := map[string]interface{}{
		"op":   op,
		"path": c.path.String(),
	}
	if name != "" {
		fields["file"] = name
	}
	return fields
}
