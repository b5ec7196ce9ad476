// Package cli implements the storagectl command line tool.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/jmgilman/go/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitError is the exit code of a failed command.
const ExitError = 1

// app holds the state shared by the commands of one invocation.
type app struct {
	viper      *viper.Viper
	configFile string
	cfg        *Config
	logger     *slog.Logger
	provider   storage.Provider
}

// Option configures an invocation.
type Option func(*app)

// WithProvider makes every command use p instead of the configured backend.
func WithProvider(p storage.Provider) Option {
	return func(a *app) {
		a.provider = p
	}
}

// Execute runs storagectl with args and returns the process exit code.
// Failures are printed to stderr in the selected output format.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, opts ...Option) int {
	a := &app{viper: viper.New()}
	for _, opt := range opts {
		opt(a)
	}

	cmd := a.rootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(stderr, a.output(), err)
		return ExitError
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "storagectl",
		Short: "Inspect and modify hierarchical storage",
		Long: `storagectl works with containers and files on a storage backend.

Containers are addressed by '/'-separated paths relative to the backend
root; an empty path or "/" is the root container.

Configuration is read from storagectl.yaml (or --config), then from
STORAGECTL_* environment variables, then from flags:

  backend: minio
  minio:
    endpoint: localhost:9000
    bucket: data
    access_key: minioadmin
    secret_key: minioadmin`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./storagectl.yaml)")
	flags.String("backend", BackendDisk, "storage backend: disk, memory or minio")
	flags.String("base", ".", "base directory of the disk backend")
	flags.BoolP("verbose", "v", false, "log every storage operation to stderr")
	flags.StringP("output", "o", OutputText, "output format: text, json or yaml")

	root.AddCommand(
		a.lsCommand(),
		a.treeCommand(),
		a.mkdirCommand(),
		a.rmdirCommand(),
		a.catCommand(),
		a.putCommand(),
		a.rmCommand(),
		a.cpCommand(),
	)
	return root
}

// setup resolves the configuration and opens the provider before any
// command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.viper, a.configFile, cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelError
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if a.provider == nil {
		p, err := openProvider(cfg, a.logger)
		if err != nil {
			return err
		}
		a.provider = p
	}
	a.logger.Debug("resolved configuration", "backend", cfg.Backend, "output", cfg.Output)
	return nil
}

func (a *app) output() string {
	if a.cfg == nil {
		return OutputText
	}
	return a.cfg.Output
}

func (a *app) printer(cmd *cobra.Command) printer {
	return printer{w: cmd.OutOrStdout(), format: a.output()}
}
