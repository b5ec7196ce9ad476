package storagetest

import (
	"context"
	"io"
	"io/fs"
	"sync"
	"testing"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContainer tests every Container operation.
func TestContainer(t *testing.T, newProvider Factory, config Config) {
	ctx := context.Background()

	runAll(t, "Container", config, map[string]func(t *testing.T){
		"ExistsFalseForMissingContainer": func(t *testing.T) {
			c := container(t, newProvider(t), "missing")
			exists, err := c.Exists(ctx)
			require.NoError(t, err)
			require.False(t, exists)
		},
		"ExistsTrueAfterCreate": func(t *testing.T) {
			c := created(t, newProvider(t), "a", "b")
			exists, err := c.Exists(ctx)
			require.NoError(t, err)
			require.True(t, exists)
		},
		"CreateIfNotExistsCreatesAncestors": func(t *testing.T) {
			p := newProvider(t)
			created(t, p, "a", "b", "c")

			for _, segments := range [][]string{{"a"}, {"a", "b"}} {
				exists, err := container(t, p, segments...).Exists(ctx)
				require.NoError(t, err)
				require.True(t, exists, "%v", segments)
			}
		},
		"CreateIfNotExistsIsIdempotent": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			writeString(t, c, "f.txt", "kept")

			require.NoError(t, c.CreateIfNotExists(ctx))
			require.Equal(t, "kept", readString(t, c, "f.txt"))
		},
		"FileExistsFalseForMissingFile": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			exists, err := c.FileExists(ctx, "missing.txt")
			require.NoError(t, err)
			require.False(t, exists)
		},
		"FileExistsFalseForMissingContainer": func(t *testing.T) {
			c := container(t, newProvider(t), "missing")
			exists, err := c.FileExists(ctx, "f.txt")
			require.NoError(t, err)
			require.False(t, exists)
		},
		"FileExistsTrueForExistingFile": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			writeString(t, c, "f.txt", "x")

			exists, err := c.FileExists(ctx, "f.txt")
			require.NoError(t, err)
			require.True(t, exists)
		},
		"FileExistsFalseForChildContainer": func(t *testing.T) {
			p := newProvider(t)
			c := created(t, p, "a")
			created(t, p, "a", "child")

			exists, err := c.FileExists(ctx, "child")
			require.NoError(t, err)
			require.False(t, exists)
		},
		"InvalidFileNames": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			names := append([]string{""}, config.InvalidNames...)

			for _, name := range names {
				_, err := c.FileExists(ctx, name)
				assert.ErrorIs(t, err, platformerrors.ErrInvalidArgument, "FileExists(%q)", name)

				_, err = c.OpenRead(ctx, name)
				assert.ErrorIs(t, err, platformerrors.ErrInvalidArgument, "OpenRead(%q)", name)

				for _, overwrite := range []bool{true, false} {
					_, err = c.OpenWrite(ctx, name, overwrite)
					assert.ErrorIs(t, err, platformerrors.ErrInvalidArgument, "OpenWrite(%q, %v)", name, overwrite)
				}

				err = c.DeleteFile(ctx, name)
				assert.ErrorIs(t, err, platformerrors.ErrInvalidArgument, "DeleteFile(%q)", name)
			}
		},
		"ListFiles": func(t *testing.T) {
			p := newProvider(t)
			c := created(t, p, "a")
			writeString(t, c, "b.txt", "b")
			writeString(t, c, "a.txt", "a")
			created(t, p, "a", "child")
			writeString(t, container(t, p, "a", "child"), "nested.txt", "n")

			files, err := c.ListFiles(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"a.txt", "b.txt"}, files)
		},
		"ListFilesEmpty": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			files, err := c.ListFiles(ctx)
			require.NoError(t, err)
			require.Empty(t, files)
		},
		"ListFilesMissingContainer": func(t *testing.T) {
			c := container(t, newProvider(t), "missing")
			_, err := c.ListFiles(ctx)
			require.ErrorIs(t, err, platformerrors.ErrItemNotFound)
			require.ErrorIs(t, err, platformerrors.ErrStorage)
		},
		"ListContainers": func(t *testing.T) {
			p := newProvider(t)
			c := created(t, p, "a")
			created(t, p, "a", "y")
			created(t, p, "a", "x", "deep")
			writeString(t, c, "f.txt", "f")

			children, err := c.ListContainers(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"x", "y"}, children)
		},
		"ListContainersEmpty": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			children, err := c.ListContainers(ctx)
			require.NoError(t, err)
			require.Empty(t, children)
		},
		"ListContainersMissingContainer": func(t *testing.T) {
			c := container(t, newProvider(t), "missing")
			_, err := c.ListContainers(ctx)
			require.ErrorIs(t, err, platformerrors.ErrItemNotFound)
		},
		"OpenRead": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			writeString(t, c, "f.txt", "hello")

			r, err := c.OpenRead(ctx, "f.txt")
			require.NoError(t, err)
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			require.Equal(t, "hello", string(data))
		},
		"OpenReadMissingFile": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			_, err := c.OpenRead(ctx, "missing.txt")
			require.ErrorIs(t, err, platformerrors.ErrItemNotFound)
		},
		"OpenReadMissingContainer": func(t *testing.T) {
			c := container(t, newProvider(t), "missing")
			_, err := c.OpenRead(ctx, "f.txt")
			require.ErrorIs(t, err, platformerrors.ErrItemNotFound)
		},
		"OpenWriteCreatesFile": func(t *testing.T) {
			for _, overwrite := range []bool{true, false} {
				c := created(t, newProvider(t), "a")
				require.NoError(t, storage.WriteFile(ctx, c, "f.txt", []byte("new"), overwrite))
				require.Equal(t, "new", readString(t, c, "f.txt"))
			}
		},
		"OpenWriteTruncatesOnOverwrite": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			writeString(t, c, "f.txt", "a much longer original content")
			writeString(t, c, "f.txt", "short")

			require.Equal(t, "short", readString(t, c, "f.txt"))
		},
		"OpenWriteConflictWithoutOverwrite": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			writeString(t, c, "f.txt", "original")

			err := storage.WriteFile(ctx, c, "f.txt", []byte("replacement"), false)
			require.ErrorIs(t, err, platformerrors.ErrStorage)
			require.NotErrorIs(t, err, platformerrors.ErrItemNotFound)
			require.ErrorIs(t, err, fs.ErrExist)
			require.Equal(t, platformerrors.CodeStorage, platformerrors.GetCode(err))

			require.Equal(t, "original", readString(t, c, "f.txt"))
		},
		"OpenWriteMissingContainer": func(t *testing.T) {
			for _, overwrite := range []bool{true, false} {
				c := container(t, newProvider(t), "missing")
				_, err := c.OpenWrite(ctx, "f.txt", overwrite)
				require.ErrorIs(t, err, platformerrors.ErrItemNotFound, "overwrite=%v", overwrite)

				exists, err := c.Exists(ctx)
				require.NoError(t, err)
				require.False(t, exists)
			}
		},
		"OpenWriteConcurrentCreate": func(t *testing.T) {
			c := created(t, newProvider(t), "a")

			var wg sync.WaitGroup
			errs := make([]error, 2)
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = storage.WriteFile(ctx, c, "race.txt", []byte("x"), false)
				}(i)
			}
			wg.Wait()

			failed := 0
			for _, err := range errs {
				if err != nil {
					require.ErrorIs(t, err, platformerrors.ErrStorage)
					failed++
				}
			}
			require.Equal(t, 1, failed)
		},
		"Delete": func(t *testing.T) {
			p := newProvider(t)
			c := created(t, p, "a")
			writeString(t, c, "f.txt", "x")
			nested := created(t, p, "a", "b", "c")
			writeString(t, nested, "g.txt", "y")
			sibling := created(t, p, "sibling")

			require.NoError(t, c.Delete(ctx))

			for _, gone := range []storage.Container{c, nested} {
				exists, err := gone.Exists(ctx)
				require.NoError(t, err)
				require.False(t, exists, gone.Path().String())
			}
			exists, err := c.FileExists(ctx, "f.txt")
			require.NoError(t, err)
			require.False(t, exists)

			exists, err = sibling.Exists(ctx)
			require.NoError(t, err)
			require.True(t, exists)
		},
		"DeleteMissingContainer": func(t *testing.T) {
			c := container(t, newProvider(t), "missing")
			require.NoError(t, c.Delete(ctx))

			exists, err := c.Exists(ctx)
			require.NoError(t, err)
			require.False(t, exists)
		},
		"DeleteFile": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			writeString(t, c, "f.txt", "x")
			writeString(t, c, "g.txt", "y")

			require.NoError(t, c.DeleteFile(ctx, "f.txt"))

			files, err := c.ListFiles(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"g.txt"}, files)
		},
		"DeleteFileMissingFile": func(t *testing.T) {
			c := created(t, newProvider(t), "a")
			require.NoError(t, c.DeleteFile(ctx, "missing.txt"))

			exists, err := c.FileExists(ctx, "missing.txt")
			require.NoError(t, err)
			require.False(t, exists)
		},
		"DeleteFileMissingContainer": func(t *testing.T) {
			c := container(t, newProvider(t), "missing")
			require.NoError(t, c.DeleteFile(ctx, "f.txt"))
		},
		"EndToEnd": func(t *testing.T) {
			c := created(t, newProvider(t), "docs")

			w, err := c.OpenWrite(ctx, "file.txt", true)
			require.NoError(t, err)
			_, err = io.WriteString(w, "hello")
			require.NoError(t, err)
			require.NoError(t, w.Close())

			require.Equal(t, "hello", readString(t, c, "file.txt"))

			_, err = c.OpenWrite(ctx, "file.txt", false)
			require.ErrorIs(t, err, platformerrors.ErrStorage)

			files, err := c.ListFiles(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"file.txt"}, files)
		},
	})
}
