package instrument

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/jmgilman/go/storage/memory"
	"github.com/jmgilman/go/storage/storagetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConformance(t *testing.T) {
	storagetest.TestSuite(t, func(t *testing.T) storage.Provider {
		return Wrap(memory.New())
	})
}

func TestWrap_BackendName(t *testing.T) {
	assert.Equal(t, "memory", Wrap(memory.New()).Backend())
	assert.Equal(t, "custom", Wrap(memory.New(), WithBackend("custom")).Backend())
}

func TestWrap_SharedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	a := Wrap(memory.New(), WithRegistry(registry), WithBackend("a"))
	b := Wrap(memory.New(), WithRegistry(registry), WithBackend("b"))

	ctx := context.Background()
	for _, p := range []*Provider{a, b} {
		root, err := storage.RootContainer(p)
		require.NoError(t, err)
		_, err = root.Exists(ctx)
		require.NoError(t, err)
	}

	assert.Same(t, registry, a.Registry())
	assert.Equal(t, 2, testutil.CollectAndCount(registry, "storage_operations_total"))
}

func TestContainer_Metrics(t *testing.T) {
	ctx := context.Background()
	p := Wrap(memory.New())

	c, err := p.Container(storage.MustPath("a"))
	require.NoError(t, err)
	require.NoError(t, c.CreateIfNotExists(ctx))
	require.NoError(t, storage.WriteFile(ctx, c, "f.txt", []byte("x"), false))
	_, err = c.OpenRead(ctx, "missing")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(p.operations.WithLabelValues(OpCreateIfNotExists, "memory", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.operations.WithLabelValues(OpOpenWrite, "memory", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.operations.WithLabelValues(OpCloseWrite, "memory", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.operations.WithLabelValues(OpOpenRead, "memory", "ITEM_NOT_FOUND")))

	expected := `
# HELP storage_operations_total Total number of storage operations by result
# TYPE storage_operations_total counter
storage_operations_total{backend="memory",op="close_write",result="ok"} 1
storage_operations_total{backend="memory",op="create",result="ok"} 1
storage_operations_total{backend="memory",op="open_read",result="ITEM_NOT_FOUND"} 1
storage_operations_total{backend="memory",op="open_write",result="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(p.Registry(), strings.NewReader(expected), "storage_operations_total"))
	assert.Equal(t, 4, testutil.CollectAndCount(p.Registry(), "storage_operation_duration_seconds"))
}

func TestContainer_Tracing(t *testing.T) {
	ctx := context.Background()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	p := Wrap(memory.New(), WithTracerProvider(tp))
	c, err := p.Container(storage.MustPath("docs"))
	require.NoError(t, err)

	_, err = c.FileExists(ctx, "a.txt")
	require.NoError(t, err)
	_, err = c.ListFiles(ctx)
	require.ErrorIs(t, err, platformerrors.ErrItemNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "storage.file_exists", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	attrs := map[attribute.Key]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	assert.Equal(t, "docs", attrs["storage.path"])
	assert.Equal(t, "a.txt", attrs["storage.file"])
	assert.Equal(t, "memory", attrs["storage.backend"])

	assert.Equal(t, "storage.list_files", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	require.NotEmpty(t, spans[1].Events())
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestContainer_Logging(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := Wrap(memory.New(), WithLogger(logger))
	c, err := p.Container(storage.MustPath("a"))
	require.NoError(t, err)

	require.NoError(t, c.CreateIfNotExists(ctx))
	require.Error(t, c.DeleteFile(ctx, ""))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "level=DEBUG")
	assert.Contains(t, lines[0], "op=create")
	assert.Contains(t, lines[0], "backend=memory")

	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[1], `msg="storage operation failed"`)
	assert.Contains(t, lines[1], "op=delete_file")
	assert.Contains(t, lines[1], "INVALID_ARGUMENT")
}

func TestJoin_StaysInstrumented(t *testing.T) {
	ctx := context.Background()
	p := Wrap(memory.New())

	root, err := storage.RootContainer(p)
	require.NoError(t, err)
	child, err := storage.Join(root, "a", "b")
	require.NoError(t, err)

	require.IsType(t, &Container{}, child)
	require.NoError(t, child.CreateIfNotExists(ctx))

	assert.Equal(t, 1.0, testutil.ToFloat64(p.operations.WithLabelValues(OpCreateIfNotExists, "memory", "ok")))

	inner, ok := child.(*Container)
	require.True(t, ok)
	exists, err := inner.Unwrap().Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProvider_InvalidPath(t *testing.T) {
	p := Wrap(memory.New())
	_, err := p.Container(storage.MustPath(".."))
	require.ErrorIs(t, err, platformerrors.ErrInvalidPath)
	assert.Same(t, p.Unwrap(), p.inner)
}
