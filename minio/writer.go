package minio

import (
	"bytes"
	"context"
	"io"
	"io/fs"

	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/minio/minio-go/v7"
)

// streamPartSize bounds the memory a streaming upload holds per part.
const streamPartSize = 16 * 1024 * 1024

// writer uploads an object when it is closed. Small objects are buffered and
// sent with a single PutObject; once the buffer would exceed the threshold
// the writer switches to streaming the remaining bytes through a pipe.
type writer struct {
	ctx       context.Context
	container *Container
	name      string
	key       string
	opts      minio.PutObjectOptions
	threshold int64

	buffer *bytes.Buffer
	pipeW  *io.PipeWriter
	putRes chan error
	closed bool
}

func newWriter(ctx context.Context, c *Container, name string, overwrite bool) *writer {
	opts := minio.PutObjectOptions{ContentType: "application/octet-stream"}
	if !overwrite {
		// The server rejects the upload if another writer created the key
		// in the meantime.
		opts.SetMatchETagExcept("*")
	}
	return &writer{
		ctx:       ctx,
		container: c,
		name:      name,
		key:       c.fileKey(name),
		opts:      opts,
		threshold: c.provider.multipartThreshold,
		buffer:    new(bytes.Buffer),
	}
}

// Write buffers p or forwards it to the running upload.
func (w *writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, w.fail(&fs.PathError{Op: "write", Path: w.name, Err: fs.ErrClosed})
	}

	if w.pipeW != nil {
		n, err := w.pipeW.Write(p)
		if err != nil {
			return n, w.fail(err)
		}
		return n, nil
	}

	if int64(w.buffer.Len()+len(p)) <= w.threshold {
		return w.buffer.Write(p)
	}

	return w.stream(p)
}

// stream starts a background upload of unknown size, flushes the buffer into
// it and then writes p.
func (w *writer) stream(p []byte) (int, error) {
	pr, pw := io.Pipe()
	w.pipeW = pw
	w.opts.PartSize = streamPartSize
	w.putRes = make(chan error, 1)

	go func() {
		_, err := w.container.provider.client.PutObject(w.ctx, w.container.provider.bucket, w.key, pr, -1, w.opts)
		_ = pr.CloseWithError(err)
		w.putRes <- err
		close(w.putRes)
	}()

	if w.buffer.Len() > 0 {
		if _, err := pw.Write(w.buffer.Bytes()); err != nil {
			return 0, w.fail(err)
		}
	}
	w.buffer = nil

	n, err := pw.Write(p)
	if err != nil {
		return n, w.fail(err)
	}
	return n, nil
}

// Close finishes the upload and reports its result. Closing twice is a
// no-op.
func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.pipeW != nil {
		_ = w.pipeW.Close()
		return w.fail(<-w.putRes)
	}

	_, err := w.container.provider.client.PutObject(
		w.ctx,
		w.container.provider.bucket,
		w.key,
		bytes.NewReader(w.buffer.Bytes()),
		int64(w.buffer.Len()),
		w.opts,
	)
	if err != nil {
		return w.fail(err)
	}
	w.container.logger.DebugContext(w.ctx, "uploaded object", "file", w.name, "bytes", w.buffer.Len())
	return nil
}

func (w *writer) fail(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(platformerrors.PlatformError); ok {
		return err
	}
	return translate(err, w.container.fields("write", w.name))
}

// Compile-time interface check.
var _ io.WriteCloser = (*writer)(nil)
