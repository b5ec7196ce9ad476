package minio

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"testing"

	"github.com/jmgilman/go/storage"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Endpoint:  "localhost:9000",
		Bucket:    "bucket",
		AccessKey: "access",
		SecretKey: "secret",
	}
}

func TestConfig_Validate(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds: credentials.NewStaticV4("access", "secret", ""),
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing bucket", mutate: func(c *Config) { c.Bucket = "" }, wantErr: "bucket is required"},
		{name: "missing endpoint", mutate: func(c *Config) { c.Endpoint = "" }, wantErr: "endpoint is required"},
		{name: "missing access key", mutate: func(c *Config) { c.AccessKey = "" }, wantErr: "access key is required"},
		{name: "missing secret key", mutate: func(c *Config) { c.SecretKey = "" }, wantErr: "secret key is required"},
		{name: "negative threshold", mutate: func(c *Config) { c.MultipartThreshold = -1 }, wantErr: "must not be negative"},
		{
			name: "client replaces credentials",
			mutate: func(c *Config) {
				*c = Config{Bucket: "bucket", Client: client}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		cfg := validConfig()
		cfg.Bucket = ""

		_, err := New(cfg)
		require.Error(t, err)
		assert.Equal(t, platformerrors.CodeInvalidConfig, platformerrors.GetCode(err))
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := validConfig()
		cfg.Prefix = "/tenant/data/"

		p, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, "bucket", p.Bucket())
		assert.Equal(t, "tenant/data", p.prefix)
		assert.Equal(t, int64(DefaultMultipartThreshold), p.multipartThreshold)
		assert.NotNil(t, p.Client())
	})
}

func TestProvider_Container(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		path   storage.Path
		key    string
	}{
		{name: "root without prefix", path: storage.Root, key: ""},
		{name: "root with prefix", prefix: "p", path: storage.Root, key: "p/"},
		{name: "nested", path: storage.MustPath("a", "b"), key: "a/b/"},
		{name: "nested with prefix", prefix: "p/q", path: storage.MustPath("a"), key: "p/q/a/"},
		{name: "spaces kept", path: storage.MustPath(" a "), key: " a /"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Prefix = tt.prefix
			p, err := New(cfg)
			require.NoError(t, err)

			c, err := p.Container(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.key, c.(*Container).Key())
			assert.Same(t, p, c.Provider())
		})
	}
}

func TestProvider_Container_Invalid(t *testing.T) {
	p, err := New(validConfig())
	require.NoError(t, err)

	for _, path := range []storage.Path{
		storage.MustPath("a/b"),
		storage.MustPath("a", ".."),
		storage.MustPath("."),
		storage.MustPath("a\x00"),
	} {
		_, err := p.Container(path)
		assert.ErrorIs(t, err, platformerrors.ErrInvalidPath, path.String())
	}
}

func TestContainer_MarkerKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Prefix = "p"
	p, err := New(cfg)
	require.NoError(t, err)

	c, err := p.Container(storage.MustPath("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"p/", "p/a/", "p/a/b/"}, c.(*Container).markerKeys())

	p.prefix = ""
	root, err := storage.RootContainer(p)
	require.NoError(t, err)
	assert.Empty(t, root.(*Container).markerKeys())
}

func TestContainer_InvalidNames(t *testing.T) {
	ctx := context.Background()
	p, err := New(validConfig())
	require.NoError(t, err)
	c, err := p.Container(storage.MustPath("a"))
	require.NoError(t, err)

	// Name validation runs before any request is sent.
	for _, name := range []string{"", ".", "..", "a/b", "a\x00"} {
		_, err := c.OpenRead(ctx, name)
		assert.ErrorIs(t, err, platformerrors.ErrInvalidArgument, name)

		_, err = c.OpenWrite(ctx, name, true)
		assert.ErrorIs(t, err, platformerrors.ErrInvalidArgument, name)

		err = c.DeleteFile(ctx, name)
		assert.ErrorIs(t, err, platformerrors.ErrInvalidArgument, name)
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestTranslate(t *testing.T) {
	fields := func() map[string]interface{} {
		return map[string]interface{}{"op": "test", "path": "a"}
	}

	tests := []struct {
		name      string
		err       error
		code      platformerrors.ErrorCode
		retryable bool
		exist     bool
	}{
		{name: "no such key", err: minio.ErrorResponse{Code: "NoSuchKey"}, code: platformerrors.CodeItemNotFound},
		{name: "no such bucket", err: minio.ErrorResponse{Code: "NoSuchBucket"}, code: platformerrors.CodeItemNotFound},
		{name: "precondition failed", err: minio.ErrorResponse{Code: "PreconditionFailed"}, code: platformerrors.CodeStorage, exist: true},
		{name: "access denied", err: minio.ErrorResponse{Code: "AccessDenied"}, code: platformerrors.CodeStorage},
		{name: "slow down", err: minio.ErrorResponse{Code: "SlowDown"}, code: platformerrors.CodeStorage, retryable: true},
		{name: "network timeout", err: &net.OpError{Op: "dial", Err: timeoutError{}}, code: platformerrors.CodeStorage, retryable: true},
		{name: "canceled", err: context.Canceled, code: platformerrors.CodeCanceled},
		{name: "deadline", err: context.DeadlineExceeded, code: platformerrors.CodeTimeout, retryable: true},
		{name: "other", err: errors.New("boom"), code: platformerrors.CodeStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(tt.err, fields())
			require.Error(t, err)
			assert.Equal(t, tt.code, platformerrors.GetCode(err))
			assert.Equal(t, tt.retryable, platformerrors.IsRetryable(err))
			assert.Equal(t, tt.exist, errors.Is(err, fs.ErrExist))

			var perr platformerrors.PlatformError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "a", perr.Context()["path"])
		})
	}

	assert.NoError(t, translate(nil, fields()))
}
