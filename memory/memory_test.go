package memory

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/jmgilman/go/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConformance(t *testing.T) {
	storagetest.TestSuite(t, func(t *testing.T) storage.Provider {
		return New()
	})
}

func TestNew_RootExists(t *testing.T) {
	root, err := storage.RootContainer(New())
	require.NoError(t, err)

	exists, err := root.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestContainer_DeleteRoot(t *testing.T) {
	ctx := context.Background()
	p := New()

	root, err := storage.RootContainer(p)
	require.NoError(t, err)
	a, err := storage.Join(root, "a")
	require.NoError(t, err)
	require.NoError(t, a.CreateIfNotExists(ctx))
	require.NoError(t, storage.WriteFile(ctx, root, "f.txt", []byte("x"), true))

	require.NoError(t, root.Delete(ctx))

	exists, err := root.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = root.ListFiles(ctx)
	require.ErrorIs(t, err, platformerrors.ErrItemNotFound)

	require.NoError(t, a.CreateIfNotExists(ctx))
	exists, err = root.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestContainer_PathOccupiedByFile(t *testing.T) {
	ctx := context.Background()
	p := New()
	require.NoError(t, util.WriteFile(p.Unwrap(), "/file", []byte("x"), 0o644))

	c, err := p.Container(storage.MustPath("file", "below"))
	require.NoError(t, err)

	err = c.CreateIfNotExists(ctx)
	require.ErrorIs(t, err, platformerrors.ErrStorage)
	require.NotErrorIs(t, err, platformerrors.ErrItemNotFound)

	exists, err := c.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnwrap(t *testing.T) {
	ctx := context.Background()
	p := New()

	c, err := p.Container(storage.MustPath("a"))
	require.NoError(t, err)
	require.NoError(t, c.CreateIfNotExists(ctx))
	require.NoError(t, storage.WriteFile(ctx, c, "f.txt", []byte("hello"), true))

	data, err := util.ReadFile(p.Unwrap(), "/a/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
