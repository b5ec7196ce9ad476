package pathutil

import (
	"testing"

	"github.com/jmgilman/go/storage"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{".", ""},
		{"/", ""},
		{"tenant", "tenant"},
		{"/tenant/", "tenant"},
		{"a\\b", "a/b"},
		{"a//b/", "a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePrefix(tt.input))
		})
	}
}

func TestContainerKey(t *testing.T) {
	assert.Equal(t, "", ContainerKey("", storage.Root))
	assert.Equal(t, "p/", ContainerKey("p", storage.Root))
	assert.Equal(t, "a/b/", ContainerKey("", storage.MustPath("a", "b")))
	assert.Equal(t, "p/a/", ContainerKey("p", storage.MustPath("a")))
	assert.Equal(t, "p/a/f.txt", FileKey(ContainerKey("p", storage.MustPath("a")), "f.txt"))
}

func TestChildName(t *testing.T) {
	tests := []struct {
		key           string
		wantName      string
		wantContainer bool
	}{
		{"a/f.txt", "f.txt", false},
		{"a/b/", "b", true},
		{"a/b/c/f.txt", "b", true},
		{"a/", "", false},
		{"other/f.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			name, isContainer := ChildName("a/", tt.key)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantContainer, isContainer)
		})
	}
}

func TestCheckKeyName(t *testing.T) {
	assert.NoError(t, CheckKeyName("f.txt"))
	assert.NoError(t, CheckKeyName("a:b"))
	assert.Error(t, CheckKeyName(""))
	assert.Error(t, CheckKeyName(".."))
	assert.Error(t, CheckKeyName("a/b"))
}
