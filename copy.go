package storage

import (
	"context"
	"io"
	"reflect"

	platformerrors "github.com/jmgilman/go/storage/errors"
	"golang.org/x/sync/errgroup"
)

const defaultCopyConcurrency = 4

type copyOptions struct {
	concurrency int
	overwrite   bool
}

// CopyOption configures Copy.
type CopyOption func(*copyOptions)

// WithCopyConcurrency sets how many files Copy transfers at once.
// Values below 1 are ignored.
func WithCopyConcurrency(n int) CopyOption {
	return func(o *copyOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithCopyOverwrite allows Copy to replace files that already exist in the
// destination.
func WithCopyOverwrite(overwrite bool) CopyOption {
	return func(o *copyOptions) {
		o.overwrite = overwrite
	}
}

// Copy copies every file and container beneath src into dst, creating dst if
// needed. src and dst may belong to different providers.
//
// Copy is not atomic. If it fails, dst holds whatever was copied before the
// failure. Without WithCopyOverwrite an existing destination file fails the
// copy with CodeStorage.
//
// A dst that is src or lies beneath src in the same provider fails with
// CodeInvalidArgument before anything is written.
func Copy(ctx context.Context, src, dst Container, opts ...CopyOption) error {
	o := copyOptions{concurrency: defaultCopyConcurrency}
	for _, opt := range opts {
		opt(&o)
	}

	if sameProvider(src.Provider(), dst.Provider()) && dst.Path().HasPrefix(src.Path(), Ordinal) {
		return platformerrors.WithContextMap(
			platformerrors.New(platformerrors.CodeInvalidArgument, "cannot copy a container into itself"),
			map[string]interface{}{"src": src.Path().String(), "dst": dst.Path().String()},
		)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(o.concurrency)

	base := src.Path().Len()
	walkErr := Walk(egCtx, src, func(c Container, name string) error {
		if err := egCtx.Err(); err != nil {
			return platformerrors.FromContext(err)
		}

		target, err := Join(dst, c.Path().Segments()[base:]...)
		if err != nil {
			return err
		}

		if name == "" {
			return target.CreateIfNotExists(egCtx)
		}

		eg.Go(func() error {
			return copyFile(egCtx, c, target, name, o.overwrite)
		})
		return nil
	})

	// Wait for started transfers even when the walk failed.
	if err := eg.Wait(); err != nil {
		return err
	}
	return walkErr
}

func copyFile(ctx context.Context, src, dst Container, name string, overwrite bool) error {
	r, err := src.OpenRead(ctx, name)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	w, err := dst.OpenWrite(ctx, name, overwrite)
	if err != nil {
		return err
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return platformerrors.WithContextMap(
			platformerrors.Wrap(err, platformerrors.CodeStorage, "failed to copy file"),
			map[string]interface{}{"file": name, "path": src.Path().String()},
		)
	}
	return w.Close()
}

// sameProvider reports whether a and b are the same provider value.
// Providers of non-comparable types are never considered the same.
func sameProvider(a, b Provider) bool {
	if a == nil || b == nil {
		return a == b
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}
