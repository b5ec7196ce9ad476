package minio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"

	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/minio/minio-go/v7"
)

// S3 error codes with a dedicated translation.
const (
	codeNoSuchKey          = "NoSuchKey"
	codeNoSuchBucket       = "NoSuchBucket"
	codeNotFound           = "NotFound"
	codePreconditionFailed = "PreconditionFailed"
	codeBucketOwned        = "BucketAlreadyOwnedByYou"
)

// retryableCodes are S3 error codes that describe a transient server state.
var retryableCodes = map[string]bool{
	"SlowDown":           true,
	"RequestTimeout":     true,
	"ServiceUnavailable": true,
	"InternalError":      true,
}

// isNotFound reports whether err says the key or bucket does not exist.
func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case codeNoSuchKey, codeNoSuchBucket, codeNotFound:
		return true
	}
	return false
}

// translate converts a MinIO client error into a platform error carrying
// fields as context.
func translate(err error, fields map[string]interface{}) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return platformerrors.WithContextMap(platformerrors.FromContext(err), fields)
	}

	code := minio.ToErrorResponse(err).Code
	switch {
	case isNotFound(err):
		return platformerrors.WithContextMap(platformerrors.ItemNotFound(err), fields)
	case code == codePreconditionFailed:
		fields["reason"] = "already_exists"
		return platformerrors.WrapWithContext(
			fmt.Errorf("%w: %w", fs.ErrExist, err),
			platformerrors.CodeStorage, "the file already exists", fields,
		)
	case retryableCodes[code] || isTimeout(err):
		return platformerrors.WithClassification(
			platformerrors.WithContextMap(platformerrors.Storage(err), fields),
			platformerrors.ClassificationRetryable,
		)
	default:
		return platformerrors.WithContextMap(platformerrors.Storage(err), fields)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
