package cli

import (
	"errors"
	"fmt"
	"strings"

	platformerrors "github.com/jmgilman/go/storage/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables overriding configuration keys,
// e.g. STORAGECTL_MINIO_BUCKET for minio.bucket.
const EnvPrefix = "STORAGECTL"

// Backend names accepted by the backend key.
const (
	BackendDisk   = "disk"
	BackendMemory = "memory"
	BackendMinio  = "minio"
)

// Output formats accepted by the output key.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config is the resolved configuration of one storagectl invocation.
type Config struct {
	Backend string      `mapstructure:"backend"`
	Output  string      `mapstructure:"output"`
	Verbose bool        `mapstructure:"verbose"`
	Disk    DiskConfig  `mapstructure:"disk"`
	Minio   MinioConfig `mapstructure:"minio"`
}

// DiskConfig configures the disk backend.
type DiskConfig struct {
	Base string `mapstructure:"base"`
}

// MinioConfig configures the minio backend.
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

// flagKeys maps persistent flags to the configuration keys they override.
var flagKeys = map[string]string{
	"backend": "backend",
	"base":    "disk.base",
	"output":  "output",
	"verbose": "verbose",
}

// loadConfig resolves the configuration from, in increasing priority,
// defaults, the config file, STORAGECTL_* environment variables and flags.
// Without an explicit file, storagectl.yaml is looked up in the working
// directory and $HOME/.config/storagectl; a missing file is not an error.
func loadConfig(v *viper.Viper, file string, cmd *cobra.Command) (*Config, error) {
	v.SetDefault("backend", BackendDisk)
	v.SetDefault("output", OutputText)
	v.SetDefault("verbose", false)
	v.SetDefault("disk.base", ".")
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.bucket", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.prefix", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, configError(err, "failed to bind flag")
			}
		}
	}

	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("storagectl")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/storagectl")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, platformerrors.WithContext(configError(err, "failed to read config file"), "file", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configError(err, "failed to decode config")
	}
	if err := cfg.validate(); err != nil {
		return nil, configError(err, "invalid config")
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendDisk, BackendMemory, BackendMinio:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	if c.Backend == BackendDisk && c.Disk.Base == "" {
		return fmt.Errorf("disk.base is required for the disk backend")
	}
	return nil
}

func configError(err error, message string) error {
	return platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, message)
}
