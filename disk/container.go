package disk

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/jmgilman/go/storage/internal/pathutil"
)

// Container is a directory below the provider's base directory.
type Container struct {
	provider *Provider
	path     storage.Path
	native   string
	logger   *slog.Logger
}

// Provider returns the provider that resolved this container.
func (c *Container) Provider() storage.Provider {
	return c.provider
}

// Path returns the path identifying this container.
func (c *Container) Path() storage.Path {
	return c.path
}

// NativePath returns the absolute directory this container maps to.
func (c *Container) NativePath() string {
	return c.native
}

// Exists reports whether the container's directory exists.
func (c *Container) Exists(ctx context.Context) (bool, error) {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return false, err
	}

	info, err := os.Stat(c.native)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, c.fail("exists", "", err)
	}
	return info.IsDir(), nil
}

// FileExists reports whether name is a file in this container.
func (c *Container) FileExists(ctx context.Context, name string) (bool, error) {
	file, err := pathutil.ResolveFile(c.native, name)
	if err != nil {
		return false, err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return false, err
	}

	info, err := os.Stat(file)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, c.fail("file_exists", name, err)
	}
	return !info.IsDir(), nil
}

// CreateIfNotExists creates the container's directory and its parents.
func (c *Container) CreateIfNotExists(ctx context.Context) error {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return err
	}

	// A file in the way surfaces as ENOTDIR, which must not read as missing.
	if err := os.MkdirAll(c.native, c.provider.dirMode); err != nil {
		return platformerrors.WithContextMap(platformerrors.Storage(err), c.fields("create", ""))
	}
	c.logger.DebugContext(ctx, "created container")
	return nil
}

// ListFiles returns the names of the files in the container's directory.
func (c *Container) ListFiles(ctx context.Context) ([]string, error) {
	return c.list(ctx, false)
}

// ListContainers returns the names of the directories in the container's
// directory.
func (c *Container) ListContainers(ctx context.Context) ([]string, error) {
	return c.list(ctx, true)
}

func (c *Container) list(ctx context.Context, dirs bool) ([]string, error) {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return nil, err
	}

	// os.ReadDir returns entries sorted by name.
	entries, err := os.ReadDir(c.native)
	if err != nil {
		return nil, c.fail("list", "", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			// Follow links so they are listed as what they point to.
			info, err := os.Stat(filepath.Join(c.native, entry.Name()))
			if err != nil {
				// Skip dangling links
				continue
			}
			isDir = info.IsDir()
		}
		if isDir == dirs {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// OpenRead opens the named file for reading.
func (c *Container) OpenRead(ctx context.Context, name string) (io.ReadCloser, error) {
	file, err := pathutil.ResolveFile(c.native, name)
	if err != nil {
		return nil, err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return nil, err
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, c.fail("open_read", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, c.fail("open_read", name, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, platformerrors.WithContextMap(
			platformerrors.New(platformerrors.CodeStorage, "cannot read a container as a file"),
			c.fields("open_read", name),
		)
	}
	return f, nil
}

// OpenWrite creates or truncates the named file and opens it for writing.
// With overwrite set to false the file is created exclusively, so of two
// concurrent creators one fails.
func (c *Container) OpenWrite(ctx context.Context, name string, overwrite bool) (io.WriteCloser, error) {
	file, err := pathutil.ResolveFile(c.native, name)
	if err != nil {
		return nil, err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return nil, err
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(file, flag, c.provider.fileMode)
	if err != nil {
		return nil, c.fail("open_write", name, err)
	}
	return f, nil
}

// Delete removes the container's directory and everything in it.
func (c *Container) Delete(ctx context.Context) error {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return err
	}

	info, err := os.Lstat(c.native)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return c.fail("delete", "", err)
	}
	if info.Mode().IsRegular() {
		// A file occupying the path is not this container.
		return nil
	}

	if err := os.RemoveAll(c.native); err != nil && !isNotFound(err) {
		return c.fail("delete", "", err)
	}
	c.logger.DebugContext(ctx, "deleted container")
	return nil
}

// DeleteFile removes the named file.
func (c *Container) DeleteFile(ctx context.Context, name string) error {
	file, err := pathutil.ResolveFile(c.native, name)
	if err != nil {
		return err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return err
	}

	info, err := os.Lstat(file)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return c.fail("delete_file", name, err)
	}
	if info.IsDir() {
		return platformerrors.WithContextMap(
			platformerrors.New(platformerrors.CodeStorage, "cannot delete a container as a file"),
			c.fields("delete_file", name),
		)
	}

	if err := os.Remove(file); err != nil && !isNotFound(err) {
		return c.fail("delete_file", name, err)
	}
	return nil
}

// Compile-time interface check.
var _ storage.Container = (*Container)(nil)
