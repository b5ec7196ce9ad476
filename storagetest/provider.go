package storagetest

import (
	"context"
	"testing"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/stretchr/testify/require"
)

// TestProvider tests path resolution.
func TestProvider(t *testing.T, newProvider Factory, config Config) {
	runAll(t, "Provider", config, map[string]func(t *testing.T){
		"InvalidPaths": func(t *testing.T) {
			p := newProvider(t)
			for _, path := range config.InvalidPaths {
				_, err := p.Container(path)
				require.ErrorIs(t, err, platformerrors.ErrInvalidPath, "path %q", path.String())
				require.ErrorIs(t, err, platformerrors.ErrStorage, "path %q", path.String())
			}
		},
		"ResolvesWithoutIO": func(t *testing.T) {
			p := newProvider(t)
			c := container(t, p, "never", "created")

			require.True(t, c.Path().Equal(storage.MustPath("never", "created")))
			require.Same(t, p, c.Provider())

			exists, err := c.Exists(context.Background())
			require.NoError(t, err)
			require.False(t, exists)
		},
		"RootContainer": func(t *testing.T) {
			p := newProvider(t)
			root, err := storage.RootContainer(p)
			require.NoError(t, err)
			require.True(t, root.Path().IsRoot())
		},
		"ContainerFunc": func(t *testing.T) {
			p := newProvider(t)
			c, err := storage.ContainerFunc(p, func(root storage.Path) (storage.Path, error) {
				return root.Append("a", "b")
			})
			require.NoError(t, err)
			require.Equal(t, "a/b", c.Path().String())

			_, err = storage.ContainerFunc(p, nil)
			require.ErrorIs(t, err, platformerrors.ErrInvalidArgument)

			_, err = storage.ContainerFunc(p, func(root storage.Path) (storage.Path, error) {
				return root.Append(" ")
			})
			require.ErrorIs(t, err, platformerrors.ErrInvalidArgument)
		},
		"Join": func(t *testing.T) {
			p := newProvider(t)
			parent := container(t, p, "a")

			child, err := storage.Join(parent, "b", "c")
			require.NoError(t, err)
			require.Equal(t, "a/b/c", child.Path().String())
			require.Same(t, p, child.Provider())

			_, err = storage.Join(parent, "")
			require.ErrorIs(t, err, platformerrors.ErrInvalidArgument)
		},
	})
}
