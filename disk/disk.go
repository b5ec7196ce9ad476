package disk

import (
	"io"
	"io/fs"
	"log/slog"

	"github.com/jmgilman/go/storage"
	"github.com/jmgilman/go/storage/internal/pathutil"
)

const (
	defaultDirMode  fs.FileMode = 0o755
	defaultFileMode fs.FileMode = 0o644
)

// Provider stores containers as directories below a base directory.
type Provider struct {
	resolver *pathutil.Resolver
	logger   *slog.Logger
	dirMode  fs.FileMode
	fileMode fs.FileMode
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for debug output.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDirMode sets the permission bits of created directories (before umask).
// The default is 0755.
func WithDirMode(mode fs.FileMode) Option {
	return func(p *Provider) {
		p.dirMode = mode.Perm()
	}
}

// WithFileMode sets the permission bits of created files (before umask).
// The default is 0644.
func WithFileMode(mode fs.FileMode) Option {
	return func(p *Provider) {
		p.fileMode = mode.Perm()
	}
}

// New returns a Provider rooted at basePath. basePath is made absolute and
// cleaned; it does not need to exist yet.
//
// New fails with CodeInvalidArgument when basePath is empty or cannot be
// made absolute.
func New(basePath string, opts ...Option) (*Provider, error) {
	resolver, err := pathutil.NewResolver(basePath)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		dirMode:  defaultDirMode,
		fileMode: defaultFileMode,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// BasePath returns the canonical base directory.
func (p *Provider) BasePath() string {
	return p.resolver.Base()
}

// Container returns the container at path. It fails with CodeInvalidPath
// when a segment contains a separator character or is "." or "..".
func (p *Provider) Container(path storage.Path) (storage.Container, error) {
	return p.container(path)
}

func (p *Provider) container(path storage.Path) (*Container, error) {
	native, err := p.resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	return &Container{
		provider: p,
		path:     path,
		native:   native,
		logger:   p.logger.With("path", path.String()),
	}, nil
}

// Compile-time interface check.
var _ storage.Provider = (*Provider)(nil)
