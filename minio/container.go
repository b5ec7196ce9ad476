package minio

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/jmgilman/go/storage/internal/pathutil"
	"github.com/minio/minio-go/v7"
)

// Container is a key prefix of the provider's bucket. A zero-byte marker
// object named after the prefix records that the container was created.
type Container struct {
	provider *Provider
	path     storage.Path
	key      string // Ends with "/" unless the container is an unprefixed root
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

// Key returns the key prefix of the container's objects.
func (c *Container) Key() string {
	return c.key
}

// Exists reports whether the container's marker or any object below it
// exists. The unprefixed root exists when the bucket does.
func (c *Container) Exists(ctx context.Context) (bool, error) {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return false, err
	}
	return c.exists(ctx)
}

func (c *Container) exists(ctx context.Context) (bool, error) {
	client, bucket := c.provider.client, c.provider.bucket

	if c.key == "" {
		ok, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return false, translate(err, c.fields("exists", ""))
		}
		return ok, nil
	}

	// Stop the lister after the first object.
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for object := range client.ListObjects(listCtx, bucket, minio.ListObjectsOptions{
		Prefix:    c.key,
		Recursive: true,
		MaxKeys:   1,
	}) {
		if object.Err != nil {
			if isNotFound(object.Err) {
				return false, nil
			}
			return false, translate(object.Err, c.fields("exists", ""))
		}
		return true, nil
	}
	return false, nil
}

// FileExists reports whether the object for name exists.
func (c *Container) FileExists(ctx context.Context, name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return false, err
	}

	_, err := c.provider.client.StatObject(ctx, c.provider.bucket, c.fileKey(name), minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, translate(err, c.fields("file_exists", name))
	}
	return true, nil
}

// CreateIfNotExists creates the bucket if needed and writes the markers of
// the container and all of its ancestors.
func (c *Container) CreateIfNotExists(ctx context.Context) error {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return err
	}

	if err := c.ensureBucket(ctx); err != nil {
		return err
	}

	for _, key := range c.markerKeys() {
		_, err := c.provider.client.PutObject(ctx, c.provider.bucket, key, bytes.NewReader(nil), 0, minio.PutObjectOptions{})
		if err != nil {
			return translate(err, c.fields("create", ""))
		}
	}
	c.logger.DebugContext(ctx, "created container")
	return nil
}

func (c *Container) ensureBucket(ctx context.Context) error {
	client, bucket := c.provider.client, c.provider.bucket

	ok, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return translate(err, c.fields("create", ""))
	}
	if ok {
		return nil
	}

	err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != codeBucketOwned {
		return translate(err, c.fields("create", ""))
	}
	c.logger.DebugContext(ctx, "created bucket")
	return nil
}

// markerKeys returns the marker keys from the outermost ancestor down to the
// container itself.
func (c *Container) markerKeys() []string {
	var keys []string
	key := ""
	if c.provider.prefix != "" {
		key = c.provider.prefix + "/"
		keys = append(keys, key)
	}
	for _, s := range c.path.Segments() {
		key += s + "/"
		keys = append(keys, key)
	}
	return keys
}

// ListFiles returns the names of the objects directly below the container.
func (c *Container) ListFiles(ctx context.Context) ([]string, error) {
	return c.list(ctx, false)
}

// ListContainers returns the names of the prefixes directly below the
// container.
func (c *Container) ListContainers(ctx context.Context) ([]string, error) {
	return c.list(ctx, true)
}

func (c *Container) list(ctx context.Context, containers bool) ([]string, error) {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return nil, err
	}

	var names []string
	found := false
	for object := range c.provider.client.ListObjects(ctx, c.provider.bucket, minio.ListObjectsOptions{
		Prefix:    c.key,
		Recursive: false,
	}) {
		if object.Err != nil {
			return nil, translate(object.Err, c.fields("list", ""))
		}
		found = true

		name, isContainer := pathutil.ChildName(c.key, object.Key)
		if name != "" && isContainer == containers {
			names = append(names, name)
		}
	}

	if !found {
		exists, err := c.exists(ctx)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, platformerrors.WithContextMap(
				platformerrors.ItemNotFound(&fs.PathError{Op: "list", Path: c.key, Err: fs.ErrNotExist}),
				c.fields("list", ""),
			)
		}
	}

	sort.Strings(names)
	return names, nil
}

// OpenRead opens a streaming reader over the named object. The stream is not
// bound to ctx once it is open.
func (c *Container) OpenRead(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return nil, err
	}

	key := c.fileKey(name)
	// StatObject first so a missing key fails here rather than on Read.
	if _, err := c.provider.client.StatObject(ctx, c.provider.bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, translate(err, c.fields("open_read", name))
	}

	obj, err := c.provider.client.GetObject(context.WithoutCancel(ctx), c.provider.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(err, c.fields("open_read", name))
	}
	return obj, nil
}

// OpenWrite returns a writer that uploads the named object on Close.
func (c *Container) OpenWrite(ctx context.Context, name string, overwrite bool) (io.WriteCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return nil, err
	}

	exists, err := c.exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, platformerrors.WithContextMap(
			platformerrors.ItemNotFound(&fs.PathError{Op: "open", Path: c.fileKey(name), Err: fs.ErrNotExist}),
			c.fields("open_write", name),
		)
	}

	if !overwrite {
		ok, err := c.FileExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if ok {
			fields := c.fields("open_write", name)
			fields["reason"] = "already_exists"
			return nil, platformerrors.WrapWithContext(
				&fs.PathError{Op: "open", Path: c.fileKey(name), Err: fs.ErrExist},
				platformerrors.CodeStorage, "the file already exists", fields,
			)
		}
	}

	return newWriter(context.WithoutCancel(ctx), c, name, overwrite), nil
}

// Delete removes every object below the container, including its marker.
func (c *Container) Delete(ctx context.Context) error {
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return err
	}

	client, bucket := c.provider.client, c.provider.bucket
	objectsCh := make(chan minio.ObjectInfo, 100)

	var listErr error
	go func() {
		defer close(objectsCh)
		for object := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
			Prefix:    c.key,
			Recursive: true,
		}) {
			if object.Err != nil {
				listErr = object.Err
				return
			}
			objectsCh <- object
		}
	}()

	// RemoveObjects only reports failures.
	var removeErr error
	for result := range client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if result.Err != nil && removeErr == nil && !isNotFound(result.Err) {
			removeErr = result.Err
		}
	}

	if listErr != nil && !isNotFound(listErr) {
		return translate(listErr, c.fields("delete", ""))
	}
	if removeErr != nil {
		return translate(removeErr, c.fields("delete", ""))
	}
	c.logger.DebugContext(ctx, "deleted container")
	return nil
}

// DeleteFile removes the named object. Removing a missing object succeeds.
func (c *Container) DeleteFile(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := platformerrors.FromContext(ctx.Err()); err != nil {
		return err
	}

	err := c.provider.client.RemoveObject(ctx, c.provider.bucket, c.fileKey(name), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return translate(err, c.fields("delete_file", name))
	}
	return nil
}

func (c *Container) fileKey(name string) string {
	return pathutil.FileKey(c.key, name)
}

func (c *Container) fields(op, name string) map[string]interface{} {
	fields := map[string]interface{}{
		"op":     op,
		"path":   c.path.String(),
		"bucket": c.provider.bucket,
	}
	if name != "" {
		fields["file"] = name
	}
	return fields
}

func checkName(name string) error {
	if err := pathutil.CheckKeyName(name); err != nil {
		return platformerrors.WithContext(
			platformerrors.Wrap(err, platformerrors.CodeInvalidArgument, "invalid file name"),
			"file", name,
		)
	}
	return nil
}

// Compile-time interface check.
var _ storage.Container = (*Container)(nil)
