package minio

import (
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
)

// DefaultMultipartThreshold is the number of bytes a writer buffers before
// it switches to a streaming upload.
const DefaultMultipartThreshold = 5 * 1024 * 1024

// Config holds MinIO provider configuration.
type Config struct {
	// Endpoint is the MinIO server address (e.g., "localhost:9000")
	Endpoint string

	// Bucket is the S3 bucket name
	Bucket string

	// AccessKey is the access key ID for authentication
	AccessKey string

	// SecretKey is the secret access key for authentication
	SecretKey string

	// UseSSL enables HTTPS connections
	UseSSL bool

	// Prefix is an optional prefix for all object keys (for namespacing)
	Prefix string

	// Client is an optional pre-configured MinIO client
	// If provided, Endpoint/AccessKey/SecretKey are ignored
	Client *minio.Client

	// MultipartThreshold is the number of bytes buffered in memory before a
	// writer streams the rest of the object.
	// Default: DefaultMultipartThreshold
	MultipartThreshold int64

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *slog.Logger
}

// validate checks if the configuration is valid.
// Either Client OR (Endpoint + AccessKey + SecretKey) must be provided.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if c.MultipartThreshold < 0 {
		return fmt.Errorf("multipart threshold must not be negative")
	}

	// If Client is provided, we're done (other fields are ignored)
	if c.Client != nil {
		return nil
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required when client is not provided")
	}

	return nil
}
