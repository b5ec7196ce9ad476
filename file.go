package storage

import (
	"bytes"
	"context"
	"io"

	platformerrors "github.com/jmgilman/go/storage/errors"
)

// ReadFile reads the named file of c and returns its contents.
func ReadFile(ctx context.Context, c Container, name string) ([]byte, error) {
	r, err := c.OpenRead(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, platformerrors.WithContext(
			platformerrors.Wrap(err, platformerrors.CodeStorage, "failed to read file"),
			"file", name,
		)
	}
	return data, nil
}

// WriteFile writes data to the named file of c. The error from closing the
// stream is reported, since some backends only commit on Close.
func WriteFile(ctx context.Context, c Container, name string, data []byte, overwrite bool) error {
	w, err := c.OpenWrite(ctx, name, overwrite)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, bytes.NewReader(data))
	closeErr := w.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		if platformerrors.GetCode(err) != platformerrors.CodeUnknown {
			return err
		}
		return platformerrors.WithContext(
			platformerrors.Wrap(err, platformerrors.CodeStorage, "failed to write file"),
			"file", name,
		)
	}
	return nil
}
