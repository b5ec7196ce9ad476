package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/jmgilman/go/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type result struct {
	stdout string
	stderr string
	code   int
}

func run(t *testing.T, stdin string, args []string, opts ...Option) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr, opts...)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// runDisk runs storagectl against the disk backend rooted at base.
func runDisk(t *testing.T, base, stdin string, args ...string) result {
	t.Helper()
	return run(t, stdin, append([]string{"--base", base}, args...))
}

func TestRoundTrip(t *testing.T) {
	base := t.TempDir()

	r := runDisk(t, base, "", "mkdir", "docs/2024")
	require.Equal(t, 0, r.code, r.stderr)

	r = runDisk(t, base, "hello world", "put", "docs/2024", "note.txt")
	require.Equal(t, 0, r.code, r.stderr)

	data, err := os.ReadFile(filepath.Join(base, "docs", "2024", "note.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	r = runDisk(t, base, "", "cat", "docs/2024", "note.txt")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "hello world", r.stdout)

	r = runDisk(t, base, "", "ls", "docs")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "2024/\n", r.stdout)

	r = runDisk(t, base, "", "rm", "docs/2024", "note.txt")
	require.Equal(t, 0, r.code, r.stderr)

	r = runDisk(t, base, "", "rmdir", "docs")
	require.Equal(t, 0, r.code, r.stderr)
	_, err = os.Stat(filepath.Join(base, "docs"))
	assert.True(t, os.IsNotExist(err))
}

func TestLs_Root(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "a.txt"), []byte("a"), 0o644))

	for _, arg := range [][]string{{}, {"/"}, {""}} {
		r := runDisk(t, base, "", append([]string{"ls"}, arg...)...)
		require.Equal(t, 0, r.code, r.stderr)
		assert.Equal(t, "b/\na.txt\n", r.stdout)
	}
}

func TestLs_Formats(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "a", "child"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "a", "f.txt"), []byte("f"), 0o644))

	r := runDisk(t, base, "", "ls", "a", "--output", "json")
	require.Equal(t, 0, r.code, r.stderr)
	var fromJSON Listing
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &fromJSON))
	assert.Equal(t, Listing{Path: "a", Containers: []string{"child"}, Files: []string{"f.txt"}}, fromJSON)

	r = runDisk(t, base, "", "ls", "a", "-o", "yaml")
	require.Equal(t, 0, r.code, r.stderr)
	var fromYAML Listing
	require.NoError(t, yaml.Unmarshal([]byte(r.stdout), &fromYAML))
	assert.Equal(t, fromJSON, fromYAML)
}

func TestTree(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "a", "1.txt"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "a", "b", "2.txt"), []byte("2"), 0o644))

	r := runDisk(t, base, "", "tree")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "./\n  a/\n    1.txt\n    b/\n      2.txt\n", r.stdout)

	r = runDisk(t, base, "", "tree", "a", "-o", "json")
	require.Equal(t, 0, r.code, r.stderr)
	var node Node
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &node))
	assert.Equal(t, "a", node.Name)
	assert.Equal(t, []string{"1.txt"}, node.Files)
	require.Len(t, node.Containers, 1)
	assert.Equal(t, "b", node.Containers[0].Name)
	assert.Equal(t, []string{"2.txt"}, node.Containers[0].Files)
}

func TestPut_FromFileAndOverwrite(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("from disk"), 0o644))

	require.Equal(t, 0, runDisk(t, base, "", "mkdir", "a").code)

	r := runDisk(t, base, "", "put", "a", "f.txt", "--from", src)
	require.Equal(t, 0, r.code, r.stderr)

	r = runDisk(t, base, "again", "put", "a", "f.txt")
	assert.Equal(t, ExitError, r.code)
	assert.Contains(t, r.stderr, "[STORAGE_ERROR]")

	r = runDisk(t, base, "again", "put", "a", "f.txt", "--overwrite")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "again", runDisk(t, base, "", "cat", "a", "f.txt").stdout)

	r = runDisk(t, base, "", "put", "a", "g.txt", "--from", filepath.Join(base, "missing"))
	assert.Equal(t, ExitError, r.code)
	assert.Contains(t, r.stderr, "[INVALID_ARGUMENT]")
}

func TestCp(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "src", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "src", "nested", "f.txt"), []byte("f"), 0o644))

	r := runDisk(t, base, "", "cp", "src", "dst", "--concurrency", "2")
	require.Equal(t, 0, r.code, r.stderr)

	data, err := os.ReadFile(filepath.Join(base, "dst", "nested", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "f", string(data))

	r = runDisk(t, base, "", "cp", "src", "src/backup")
	assert.Equal(t, ExitError, r.code)
	assert.Contains(t, r.stderr, "[INVALID_ARGUMENT]")
	_, err = os.Stat(filepath.Join(base, "src", "backup"))
	assert.True(t, os.IsNotExist(err))
}

func TestErrors(t *testing.T) {
	base := t.TempDir()

	t.Run("text", func(t *testing.T) {
		r := runDisk(t, base, "", "cat", "missing", "f.txt")
		assert.Equal(t, ExitError, r.code)
		assert.True(t, strings.HasPrefix(r.stderr, "[ITEM_NOT_FOUND]"), r.stderr)
		assert.Empty(t, r.stdout)
	})

	t.Run("json", func(t *testing.T) {
		r := runDisk(t, base, "", "ls", "missing", "--output", "json")
		assert.Equal(t, ExitError, r.code)

		var resp platformerrors.ErrorResponse
		require.NoError(t, json.Unmarshal([]byte(r.stderr), &resp))
		assert.Equal(t, "ITEM_NOT_FOUND", resp.Code)
		assert.Equal(t, "PERMANENT", resp.Classification)
		assert.Equal(t, "missing", resp.Context["path"])
	})

	t.Run("invalid path", func(t *testing.T) {
		r := runDisk(t, base, "", "ls", "a/../b")
		assert.Equal(t, ExitError, r.code)
		assert.Contains(t, r.stderr, "[INVALID_CONTAINER_PATH]")
	})

	t.Run("empty segment", func(t *testing.T) {
		r := runDisk(t, base, "", "ls", "a//b")
		assert.Equal(t, ExitError, r.code)
		assert.Contains(t, r.stderr, "[INVALID_ARGUMENT]")
	})

	t.Run("unknown backend", func(t *testing.T) {
		r := run(t, "", []string{"ls", "--backend", "tape"})
		assert.Equal(t, ExitError, r.code)
		assert.Contains(t, r.stderr, "[INVALID_CONFIGURATION]")
	})

	t.Run("unknown output", func(t *testing.T) {
		r := runDisk(t, base, "", "ls", "--output", "xml")
		assert.Equal(t, ExitError, r.code)
		assert.Contains(t, r.stderr, "[INVALID_CONFIGURATION]")
	})

	t.Run("usage", func(t *testing.T) {
		r := runDisk(t, base, "", "cat", "only-one-arg")
		assert.Equal(t, ExitError, r.code)
		assert.Contains(t, r.stderr, "accepts 2 arg(s)")
	})
}

func TestConfig_File(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "from-config"), 0o755))

	file := filepath.Join(t.TempDir(), "storagectl.yaml")
	require.NoError(t, os.WriteFile(file, []byte("backend: disk\noutput: json\ndisk:\n  base: "+base+"\n"), 0o644))

	r := run(t, "", []string{"ls", "--config", file})
	require.Equal(t, 0, r.code, r.stderr)

	var listing Listing
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &listing))
	assert.Equal(t, []string{"from-config"}, listing.Containers)

	// Flags win over the file.
	r = run(t, "", []string{"ls", "--config", file, "--output", "text"})
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "from-config/\n", r.stdout)

	r = run(t, "", []string{"ls", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Equal(t, ExitError, r.code)
	assert.Contains(t, r.stderr, "[INVALID_CONFIGURATION]")
}

func TestConfig_Env(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "from-env"), 0o755))

	t.Setenv("STORAGECTL_DISK_BASE", base)
	t.Setenv("STORAGECTL_OUTPUT", "yaml")

	r := run(t, "", []string{"ls"})
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "- from-env")
}

func TestWithProvider(t *testing.T) {
	ctx := context.Background()
	p := memory.New()

	r := run(t, "", []string{"mkdir", "x/y"}, WithProvider(p))
	require.Equal(t, 0, r.code, r.stderr)
	r = run(t, "data", []string{"put", "x/y", "f.bin"}, WithProvider(p))
	require.Equal(t, 0, r.code, r.stderr)

	c, err := p.Container(storage.MustPath("x", "y"))
	require.NoError(t, err)
	data, err := storage.ReadFile(ctx, c, "f.bin")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestVerbose(t *testing.T) {
	base := t.TempDir()

	r := runDisk(t, base, "", "mkdir", "a", "--verbose")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "storage operation")
	assert.Contains(t, r.stderr, "op=create")

	r = runDisk(t, base, "", "mkdir", "b")
	require.Equal(t, 0, r.code)
	assert.Empty(t, r.stderr)
}
