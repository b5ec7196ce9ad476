package instrument

import (
	"context"
	"io"
	"time"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation names used for the op label and span names.
const (
	OpExists            = "exists"
	OpFileExists        = "file_exists"
	OpCreateIfNotExists = "create"
	OpListFiles         = "list_files"
	OpListContainers    = "list_containers"
	OpOpenRead          = "open_read"
	OpOpenWrite         = "open_write"
	OpCloseWrite        = "close_write"
	OpDelete            = "delete"
	OpDeleteFile        = "delete_file"
)

// Container forwards to the wrapped container and records every call.
type Container struct {
	provider *Provider
	inner    storage.Container
}

// Provider returns the instrumented provider, so containers derived with
// storage.Join stay instrumented.
func (c *Container) Provider() storage.Provider {
	return c.provider
}

// Path returns the path identifying this container.
func (c *Container) Path() storage.Path {
	return c.inner.Path()
}

// Unwrap returns the wrapped container.
func (c *Container) Unwrap() storage.Container {
	return c.inner
}

// Exists records the wrapped Exists call as exists.
func (c *Container) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := c.observe(ctx, OpExists, "", func(ctx context.Context) (err error) {
		exists, err = c.inner.Exists(ctx)
		return err
	})
	return exists, err
}

// FileExists records the wrapped FileExists call as file_exists.
func (c *Container) FileExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := c.observe(ctx, OpFileExists, name, func(ctx context.Context) (err error) {
		exists, err = c.inner.FileExists(ctx, name)
		return err
	})
	return exists, err
}

// CreateIfNotExists records the wrapped CreateIfNotExists call as create.
func (c *Container) CreateIfNotExists(ctx context.Context) error {
	return c.observe(ctx, OpCreateIfNotExists, "", c.inner.CreateIfNotExists)
}

// ListFiles records the wrapped ListFiles call as list_files.
func (c *Container) ListFiles(ctx context.Context) ([]string, error) {
	var names []string
	err := c.observe(ctx, OpListFiles, "", func(ctx context.Context) (err error) {
		names, err = c.inner.ListFiles(ctx)
		return err
	})
	return names, err
}

// ListContainers records the wrapped ListContainers call as list_containers.
func (c *Container) ListContainers(ctx context.Context) ([]string, error) {
	var names []string
	err := c.observe(ctx, OpListContainers, "", func(ctx context.Context) (err error) {
		names, err = c.inner.ListContainers(ctx)
		return err
	})
	return names, err
}

// OpenRead records the wrapped OpenRead call as open_read.
func (c *Container) OpenRead(ctx context.Context, name string) (io.ReadCloser, error) {
	var r io.ReadCloser
	err := c.observe(ctx, OpOpenRead, name, func(ctx context.Context) (err error) {
		r, err = c.inner.OpenRead(ctx, name)
		return err
	})
	return r, err
}

// OpenWrite opens the file through the wrapped container. Closing the
// returned writer is recorded as a separate close_write operation, since
// some backends only report upload failures from Close.
func (c *Container) OpenWrite(ctx context.Context, name string, overwrite bool) (io.WriteCloser, error) {
	var w io.WriteCloser
	err := c.observe(ctx, OpOpenWrite, name, func(ctx context.Context) (err error) {
		w, err = c.inner.OpenWrite(ctx, name, overwrite)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &writer{ctx: context.WithoutCancel(ctx), container: c, name: name, inner: w}, nil
}

// Delete records the wrapped Delete call as delete.
func (c *Container) Delete(ctx context.Context) error {
	return c.observe(ctx, OpDelete, "", c.inner.Delete)
}

// DeleteFile records the wrapped DeleteFile call as delete_file.
func (c *Container) DeleteFile(ctx context.Context, name string) error {
	return c.observe(ctx, OpDeleteFile, name, func(ctx context.Context) error {
		return c.inner.DeleteFile(ctx, name)
	})
}

// observe runs fn inside a span and records its outcome.
func (c *Container) observe(ctx context.Context, op, name string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	p := c.provider
	path := c.inner.Path().String()

	attrs = append(attrs,
		attribute.String("storage.backend", p.backend),
		attribute.String("storage.path", path),
	)
	if name != "" {
		attrs = append(attrs, attribute.String("storage.file", name))
	}

	ctx, span := p.tracer.Start(ctx, "storage."+op, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	result := "ok"
	if err != nil {
		result = string(platformerrors.GetCode(err))
	}
	p.operations.WithLabelValues(op, p.backend, result).Inc()
	p.duration.WithLabelValues(op, p.backend).Observe(elapsed.Seconds())

	fields := []any{"op", op, "path", path, "duration", elapsed}
	if name != "" {
		fields = append(fields, "file", name)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.WarnContext(ctx, "storage operation failed", append(fields, "error", err)...)
		return err
	}
	p.logger.DebugContext(ctx, "storage operation", fields...)
	return nil
}

// writer counts the bytes written and records Close.
type writer struct {
	ctx       context.Context
	container *Container
	name      string
	inner     io.WriteCloser
	written   int64
}

func (w *writer) Write(p []byte) (int, error) {
	n, err := w.inner.Write(p)
	w.written += int64(n)
	return n, err
}

func (w *writer) Close() error {
	return w.container.observe(w.ctx, OpCloseWrite, w.name, func(context.Context) error {
		return w.inner.Close()
	}, attribute.Int64("storage.bytes", w.written))
}

// Compile-time interface checks.
var (
	_ storage.Container = (*Container)(nil)
	_ io.WriteCloser    = (*writer)(nil)
)
