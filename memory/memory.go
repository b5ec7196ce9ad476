package memory

import (
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/jmgilman/go/storage/internal/pathutil"
)

// Provider keeps containers and files in an in-memory go-billy filesystem.
type Provider struct {
	// mu guards the directory tree of bfs. memfs only synchronizes file
	// contents.
	mu       sync.RWMutex
	bfs      billy.Filesystem
	logger   *slog.Logger
	fileMode fs.FileMode
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates an empty in-memory provider. Its root container exists.
func New(opts ...Option) *Provider {
	p := &Provider{
		bfs:      memfs.New(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		fileMode: 0o644,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Unwrap returns the underlying billy.Filesystem.
// Changes made through it bypass the provider's locking.
func (p *Provider) Unwrap() billy.Filesystem {
	return p.bfs
}

// Container returns the container at path. Segments follow the same rules
// as the disk backend so that trees can move between the two.
func (p *Provider) Container(path storage.Path) (storage.Container, error) {
	for _, s := range path.Segments() {
		if err := pathutil.CheckName(s); err != nil {
			return nil, platformerrors.WithContext(platformerrors.InvalidPath(err), "path", path.String())
		}
	}
	return &Container{
		provider: p,
		path:     path,
		dir:      "/" + strings.Join(path.Segments(), "/"),
		logger:   p.logger.With("path", path.String()),
	}, nil
}

// Compile-time interface check.
var _ storage.Provider = (*Provider)(nil)
