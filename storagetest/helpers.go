package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/stretchr/testify/require"
)

// TestHelpers tests the package-level helpers of storage against a backend.
func TestHelpers(t *testing.T, newProvider Factory, config Config) {
	ctx := context.Background()

	// tree builds a/{1.txt, b/{2.txt, c/3.txt}, d/}.
	tree := func(t *testing.T, p storage.Provider) storage.Container {
		a := created(t, p, "a")
		writeString(t, a, "1.txt", "one")
		writeString(t, created(t, p, "a", "b"), "2.txt", "two")
		writeString(t, created(t, p, "a", "b", "c"), "3.txt", "three")
		created(t, p, "a", "d")
		return a
	}

	runAll(t, "Helpers", config, map[string]func(t *testing.T){
		"ReadWriteFile": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			require.NoError(t, storage.WriteFile(ctx, c, "f.bin", []byte{0, 1, 2}, false))

			data, err := storage.ReadFile(ctx, c, "f.bin")
			require.NoError(t, err)
			require.Equal(t, []byte{0, 1, 2}, data)

			_, err = storage.ReadFile(ctx, c, "missing")
			require.ErrorIs(t, err, platformerrors.ErrItemNotFound)
		},
		"WriteEmptyFile": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			require.NoError(t, storage.WriteFile(ctx, c, "empty", nil, true))

			data, err := storage.ReadFile(ctx, c, "empty")
			require.NoError(t, err)
			require.Empty(t, data)
		},
		"Walk": func(t *testing.T) {
			a := tree(t, newProvider(t))

			var visited []string
			err := storage.Walk(ctx, a, func(c storage.Container, name string) error {
				if name == "" {
					visited = append(visited, c.Path().String()+"/")
				} else {
					visited = append(visited, c.Path().String()+"/"+name)
				}
				return nil
			})
			require.NoError(t, err)
			require.Equal(t, []string{
				"a/", "a/1.txt",
				"a/b/", "a/b/2.txt",
				"a/b/c/", "a/b/c/3.txt",
				"a/d/",
			}, visited)
		},
		"WalkSkipContainer": func(t *testing.T) {
			a := tree(t, newProvider(t))

			var visited []string
			err := storage.Walk(ctx, a, func(c storage.Container, name string) error {
				if name == "" && c.Path().Name() == "b" {
					return storage.SkipContainer
				}
				visited = append(visited, c.Path().String()+"/"+name)
				return nil
			})
			require.NoError(t, err)
			require.Equal(t, []string{"a/", "a/1.txt", "a/d/"}, visited)
		},
		"WalkStopsOnError": func(t *testing.T) {
			a := tree(t, newProvider(t))
			stop := errors.New("stop")

			err := storage.Walk(ctx, a, func(storage.Container, string) error { return stop })
			require.ErrorIs(t, err, stop)
		},
		"WalkMissingContainer": func(t *testing.T) {
			c := container(t, newProvider(t), "missing")
			err := storage.Walk(ctx, c, func(storage.Container, string) error { return nil })
			require.ErrorIs(t, err, platformerrors.ErrItemNotFound)
		},
		"Copy": func(t *testing.T) {
			p := newProvider(t)
			a := tree(t, p)
			dst := container(t, p, "copy")

			require.NoError(t, storage.Copy(ctx, a, dst, storage.WithCopyConcurrency(2)))

			require.Equal(t, "one", readString(t, dst, "1.txt"))
			require.Equal(t, "two", readString(t, container(t, p, "copy", "b"), "2.txt"))
			require.Equal(t, "three", readString(t, container(t, p, "copy", "b", "c"), "3.txt"))

			exists, err := container(t, p, "copy", "d").Exists(ctx)
			require.NoError(t, err)
			require.True(t, exists)
		},
		"CopyIntoOwnSubtree": func(t *testing.T) {
			p := newProvider(t)
			a := tree(t, p)

			for _, dst := range []storage.Container{
				a,
				container(t, p, "a", "backup"),
				container(t, p, "a", "b", "c", "backup"),
			} {
				err := storage.Copy(ctx, a, dst)
				require.ErrorIs(t, err, platformerrors.ErrInvalidArgument, dst.Path().String())
			}

			names, err := a.ListContainers(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"b", "d"}, names)

			// A sibling sharing a name prefix is not beneath the source.
			sibling := container(t, p, "ab")
			require.NoError(t, storage.Copy(ctx, a, sibling))
			require.Equal(t, "one", readString(t, sibling, "1.txt"))
		},
		"CopyConflict": func(t *testing.T) {
			p := newProvider(t)
			a := tree(t, p)
			dst := created(t, p, "copy")
			writeString(t, dst, "1.txt", "existing")

			err := storage.Copy(ctx, a, dst)
			require.ErrorIs(t, err, platformerrors.ErrStorage)
			require.Equal(t, "existing", readString(t, dst, "1.txt"))

			require.NoError(t, storage.Copy(ctx, a, dst, storage.WithCopyOverwrite(true)))
			require.Equal(t, "one", readString(t, dst, "1.txt"))
		},
	})
}

// TestCancellation tests that operations refuse to start on a finished
// context.
func TestCancellation(t *testing.T, newProvider Factory, config Config) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	runAll(t, "Cancellation", config, map[string]func(t *testing.T){
		"CanceledContext": func(t *testing.T) {
			p := newProvider(t)
			c := created(t, p, "a")
			writeString(t, c, "f.txt", "x")
			missing := container(t, p, "missing")

			ops := map[string]func() error{
				"Exists":            func() error { _, err := c.Exists(canceled); return err },
				"FileExists":        func() error { _, err := c.FileExists(canceled, "f.txt"); return err },
				"CreateIfNotExists": func() error { return missing.CreateIfNotExists(canceled) },
				"ListFiles":         func() error { _, err := c.ListFiles(canceled); return err },
				"ListContainers":    func() error { _, err := c.ListContainers(canceled); return err },
				"OpenRead":          func() error { _, err := c.OpenRead(canceled, "f.txt"); return err },
				"OpenWrite":         func() error { _, err := c.OpenWrite(canceled, "g.txt", true); return err },
				"Delete":            func() error { return c.Delete(canceled) },
				"DeleteFile":        func() error { return c.DeleteFile(canceled, "f.txt") },
			}

			for _, name := range sortedKeys(ops) {
				err := ops[name]()
				require.ErrorIs(t, err, context.Canceled, name)
				require.ErrorIs(t, err, platformerrors.ErrCanceled, name)
			}

			// Nothing changed.
			require.Equal(t, "x", readString(t, c, "f.txt"))
			exists, err := missing.Exists(context.Background())
			require.NoError(t, err)
			require.False(t, exists)
		},
	})
}
