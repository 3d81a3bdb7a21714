package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/geldautomat/ledger/internal/buildinfo"
	"github.com/geldautomat/ledger/internal/config"
)

// rootOptions holds the persistent flags shared by all subcommands.
type rootOptions struct {
	configPath string
	logLevel   string
}

// env is what a subcommand needs after flags are parsed.
type env struct {
	cfg    *config.Config
	logger *log.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "ledger",
		Short:   "Multi-bank account ledger with CSV import validation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultFileName, "config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(
		newValidateCommand(opts),
		newListCommand(opts),
		newRunCommand(opts),
		newInitConfigCommand(),
	)

	return rootCmd
}

// load reads the config and builds the stderr logger. A missing config file
// is only an error when --config was given explicitly.
func (o *rootOptions) load(cmd *cobra.Command) (*env, error) {
	var (
		cfg *config.Config
		err error
	)
	if f := cmd.Flag("config"); f != nil && f.Changed {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOrDefault(o.configPath)
	}
	if err != nil {
		return nil, err
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix:          "ledger",
		ReportTimestamp: true,
		Level:           level,
	})

	return &env{cfg: cfg, logger: logger}, nil
}
