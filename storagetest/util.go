package storagetest

import (
	"context"
	"sort"
	"testing"

	"github.com/jmgilman/go/storage"
	"github.com/stretchr/testify/require"
)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// container resolves the container at segments.
func container(t *testing.T, p storage.Provider, segments ...string) storage.Container {
	t.Helper()
	path, err := storage.NewPath(segments...)
	require.NoError(t, err)
	c, err := p.Container(path)
	require.NoError(t, err)
	return c
}

// created resolves and creates the container at segments.
func created(t *testing.T, p storage.Provider, segments ...string) storage.Container {
	t.Helper()
	c := container(t, p, segments...)
	require.NoError(t, c.CreateIfNotExists(context.Background()))
	return c
}

func writeString(t *testing.T, c storage.Container, name, content string) {
	t.Helper()
	require.NoError(t, storage.WriteFile(context.Background(), c, name, []byte(content), true))
}

func readString(t *testing.T, c storage.Container, name string) string {
	t.Helper()
	data, err := storage.ReadFile(context.Background(), c, name)
	require.NoError(t, err)
	return string(data)
}
