package minio

import (
	"io"
	"log/slog"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/jmgilman/go/storage/internal/pathutil"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Provider maps containers onto key prefixes of a single bucket.
type Provider struct {
	client             *minio.Client
	bucket             string
	prefix             string // Normalized, without slashes at either end
	multipartThreshold int64
	logger             *slog.Logger
}

// New creates a MinIO-backed provider.
// Returns an error if the configuration is invalid or the client cannot be
// created. No request is sent to the server.
func New(cfg Config) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "invalid minio config")
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "failed to create minio client")
		}
	}

	threshold := cfg.MultipartThreshold
	if threshold == 0 {
		threshold = DefaultMultipartThreshold
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Provider{
		client:             client,
		bucket:             cfg.Bucket,
		prefix:             pathutil.NormalizePrefix(cfg.Prefix),
		multipartThreshold: threshold,
		logger:             logger.With("bucket", cfg.Bucket),
	}, nil
}

// Client returns the underlying MinIO client.
func (p *Provider) Client() *minio.Client {
	return p.client
}

// Bucket returns the bucket holding the provider's objects.
func (p *Provider) Bucket() string {
	return p.bucket
}

// Container returns the container at path. Every segment must be usable as
// a single key element.
func (p *Provider) Container(path storage.Path) (storage.Container, error) {
	for _, s := range path.Segments() {
		if err := pathutil.CheckKeyName(s); err != nil {
			return nil, platformerrors.WithContext(platformerrors.InvalidPath(err), "path", path.String())
		}
	}
	return &Container{
		provider: p,
		path:     path,
		key:      pathutil.ContainerKey(p.prefix, path),
		logger:   p.logger.With("path", path.String()),
	}, nil
}

// Compile-time interface check.
var _ storage.Provider = (*Provider)(nil)
