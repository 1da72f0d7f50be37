package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/iyunix/go-chatsync/internal/config"
	"github.com/iyunix/go-chatsync/internal/services"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	LogLevel   string

	// loadConfig is swapped in tests.
	loadConfig func() (*config.Config, error)
}

// NewRootCommand creates the root command for the chatsync server.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{loadConfig: config.Load})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "chatsync",
		Short:         "chatsync - offline-first chat sync server",
		Long:          "Stores chats, messages and memories per owner and reconciles them across devices.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "YAML config file (overrides CONFIG_FILE)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

// load resolves configuration with flag overrides applied.
func (o *RootOptions) load() (*config.Config, error) {
	if o.ConfigFile != "" {
		if err := os.Setenv("CONFIG_FILE", o.ConfigFile); err != nil {
			return nil, err
		}
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	return cfg, nil
}

func (o *RootOptions) logger(cfg *config.Config) services.Logger {
	return services.NewLogger("chatsync", cfg.Environment, cfg.LogLevel)
}
