package memory

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/jmgilman/go/storage/internal/pathutil"
)

// Container is a directory of the provider's in-memory filesystem.
type Container struct {
	provider *Provider
	path     storage.Path
	dir      string
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

// Exists reports whether the container's directory exists.
func (c *Container) Exists(ctx context.Context) (bool, error) {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return false, err
	}

	c.provider.mu.RLock()
	defer c.provider.mu.RUnlock()
	return c.isDir(c.dir), nil
}

// FileExists reports whether name is a file in this container.
func (c *Container) FileExists(ctx context.Context, name string) (bool, error) {
	file, err := c.file(name)
	if err != nil {
		return false, err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return false, err
	}

	c.provider.mu.RLock()
	defer c.provider.mu.RUnlock()

	info, err := c.provider.bfs.Stat(file)
	if err != nil {
		return false, nil
	}
	return !info.IsDir(), nil
}

// CreateIfNotExists creates the container's directory and its parents.
func (c *Container) CreateIfNotExists(ctx context.Context) error {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return err
	}

	c.provider.mu.Lock()
	defer c.provider.mu.Unlock()

	// memfs silently places a directory below a file, so check every level.
	for dir := c.dir; dir != "/"; dir = path.Dir(dir) {
		info, err := c.provider.bfs.Stat(dir)
		if err == nil && !info.IsDir() {
			return platformerrors.WithContextMap(
				platformerrors.Storage(&fs.PathError{Op: "mkdir", Path: dir, Err: errors.New("not a directory")}),
				c.fields("create", ""),
			)
		}
	}

	if err := c.provider.bfs.MkdirAll(c.dir, 0o755); err != nil {
		return c.fail("create", "", err)
	}
	c.logger.DebugContext(ctx, "created container")
	return nil
}

// ListFiles returns the names of the files in the container.
func (c *Container) ListFiles(ctx context.Context) ([]string, error) {
	return c.list(ctx, false)
}

// ListContainers returns the names of the child containers.
func (c *Container) ListContainers(ctx context.Context) ([]string, error) {
	return c.list(ctx, true)
}

func (c *Container) list(ctx context.Context, dirs bool) ([]string, error) {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return nil, err
	}

	c.provider.mu.RLock()
	defer c.provider.mu.RUnlock()

	if !c.isDir(c.dir) {
		return nil, c.fail("list", "", &fs.PathError{Op: "readdir", Path: c.dir, Err: fs.ErrNotExist})
	}

	// ReadDir sorts by name.
	infos, err := c.provider.bfs.ReadDir(c.dir)
	if err != nil {
		return nil, c.fail("list", "", err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() == dirs {
			names = append(names, info.Name())
		}
	}
	return names, nil
}

// OpenRead opens the named file for reading.
func (c *Container) OpenRead(ctx context.Context, name string) (io.ReadCloser, error) {
	file, err := c.file(name)
	if err != nil {
		return nil, err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return nil, err
	}

	c.provider.mu.RLock()
	defer c.provider.mu.RUnlock()

	f, err := c.provider.bfs.Open(file)
	if err != nil {
		return nil, c.fail("open_read", name, err)
	}
	return f, nil
}

// OpenWrite creates or truncates the named file and opens it for writing.
func (c *Container) OpenWrite(ctx context.Context, name string, overwrite bool) (io.WriteCloser, error) {
	file, err := c.file(name)
	if err != nil {
		return nil, err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return nil, err
	}

	c.provider.mu.Lock()
	defer c.provider.mu.Unlock()

	// memfs creates missing parents on O_CREATE.
	if !c.isDir(c.dir) {
		return nil, c.fail("open_write", name, &fs.PathError{Op: "open", Path: file, Err: fs.ErrNotExist})
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := c.provider.bfs.OpenFile(file, flag, c.provider.fileMode)
	if err != nil {
		return nil, c.fail("open_write", name, err)
	}
	return f, nil
}

// Delete removes the container and everything in it.
func (c *Container) Delete(ctx context.Context) error {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return err
	}

	c.provider.mu.Lock()
	defer c.provider.mu.Unlock()

	if !c.isDir(c.dir) {
		return nil
	}
	if err := util.RemoveAll(c.provider.bfs, c.dir); err != nil {
		return c.fail("delete", "", err)
	}
	c.logger.DebugContext(ctx, "deleted container")
	return nil
}

// DeleteFile removes the named file.
func (c *Container) DeleteFile(ctx context.Context, name string) error {
	file, err := c.file(name)
	if err != nil {
		return err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return err
	}

	c.provider.mu.Lock()
	defer c.provider.mu.Unlock()

	info, err := c.provider.bfs.Lstat(file)
	if err != nil {
		return nil
	}
	if info.IsDir() {
		return platformerrors.WithContextMap(
			platformerrors.New(platformerrors.CodeStorage, "cannot delete a container as a file"),
			c.fields("delete_file", name),
		)
	}
	if err := c.provider.bfs.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c.fail("delete_file", name, err)
	}
	return nil
}

func (c *Container) file(name string) (string, error) {
	if err := pathutil.CheckName(name); err != nil {
		return "", platformerrors.WithContext(
			platformerrors.Wrap(err, platformerrors.CodeInvalidArgument, "invalid file name"),
			"file", name,
		)
	}
	return path.Join(c.dir, name), nil
}

// isDir must be called with the provider lock held.
func (c *Container) isDir(dir string) bool {
	info, err := c.provider.bfs.Stat(dir)
	return err == nil && info.IsDir()
}

func (c *Container) fail(op, name string, err error) error {
	fields := c.fields(op, name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
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

// Compile-time interface check.
var _ storage.Container = (*Container)(nil)
