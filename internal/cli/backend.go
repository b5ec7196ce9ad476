package cli

import (
	"log/slog"

	"github.com/jmgilman/go/storage"
	"github.com/jmgilman/go/storage/disk"
	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/jmgilman/go/storage/instrument"
	"github.com/jmgilman/go/storage/memory"
	"github.com/jmgilman/go/storage/minio"
)

// openProvider builds the provider selected by cfg. Every provider is
// instrumented, so --verbose shows one record per storage operation.
func openProvider(cfg *Config, logger *slog.Logger) (storage.Provider, error) {
	var (
		p   storage.Provider
		err error
	)

	switch cfg.Backend {
	case BackendDisk:
		p, err = disk.New(cfg.Disk.Base, disk.WithLogger(logger))
	case BackendMemory:
		p = memory.New(memory.WithLogger(logger))
	case BackendMinio:
		p, err = minio.New(minio.Config{
			Endpoint:  cfg.Minio.Endpoint,
			Bucket:    cfg.Minio.Bucket,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			Prefix:    cfg.Minio.Prefix,
			Logger:    logger,
		})
	default:
		err = platformerrors.Newf(platformerrors.CodeInvalidConfig, "unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	return instrument.Wrap(p, instrument.WithLogger(logger), instrument.WithBackend(cfg.Backend)), nil
}
