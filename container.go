package storage

import (
	"context"
	"io"
)

// Container is a node in the storage hierarchy that holds files and other
// containers.
//
// A Container is a handle: it keeps no state besides its provider and path,
// and every method queries the medium. Methods taking a context stop
// waiting and return a CodeCanceled or CodeTimeout error once the context
// ends; side effects already applied to the medium are not rolled back.
//
// File names address direct children of the container. An empty name fails
// with CodeInvalidArgument before any I/O is performed.
type Container interface {
	// Provider returns the provider that resolved this container.
	Provider() Provider

	// Path returns the path identifying this container.
	Path() Path

	// Exists reports whether the container exists. A missing container is
	// not an error.
	Exists(ctx context.Context) (bool, error)

	// FileExists reports whether the named file exists in this container.
	// A missing container reports false.
	FileExists(ctx context.Context, name string) (bool, error)

	// CreateIfNotExists creates the container and any missing ancestors.
	// It succeeds if the container already exists.
	CreateIfNotExists(ctx context.Context) error

	// ListFiles returns the names of the files directly inside the container,
	// sorted. It fails with CodeItemNotFound if the container does not exist.
	ListFiles(ctx context.Context) ([]string, error)

	// ListContainers returns the names of the containers directly inside the
	// container, sorted. It fails with CodeItemNotFound if the container does
	// not exist.
	ListContainers(ctx context.Context) ([]string, error)

	// OpenRead opens the named file for reading. It fails with
	// CodeItemNotFound if the file or the container does not exist. The
	// caller must close the returned stream.
	OpenRead(ctx context.Context, name string) (io.ReadCloser, error)

	// OpenWrite creates or truncates the named file and opens it for
	// writing. With overwrite set to false an existing file fails with
	// CodeStorage wrapping fs.ErrExist. It fails with CodeItemNotFound if the
	// container does not exist. The caller must close the returned stream;
	// some backends only report write failures from Close.
	OpenWrite(ctx context.Context, name string, overwrite bool) (io.WriteCloser, error)

	// Delete removes the container and everything beneath it. A missing
	// container is not an error.
	Delete(ctx context.Context) error

	// DeleteFile removes the named file. A missing file or container is not
	// an error.
	DeleteFile(ctx context.Context, name string) error
}

// Join returns the container at c's path extended by segments, resolved by
// c's provider. It performs no I/O.
func Join(c Container, segments ...string) (Container, error) {
	path, err := c.Path().Append(segments...)
	if err != nil {
		return nil, err
	}
	return c.Provider().Container(path)
}
