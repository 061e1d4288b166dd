// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"fjacquet/statement-sorter/internal/config"
	"fjacquet/statement-sorter/internal/container"
	"fjacquet/statement-sorter/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// AppConfig is the validated configuration, set before any subcommand runs.
	AppConfig *config.Config

	v       = config.NewViper()
	cfgFile string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-sorter",
		Short: "A CLI tool to organize bank statement files into a dated folder structure.",
		Long: `statement-sorter is a CLI tool that finds the month, year and account number
in bank statement file names (PDF and OFX) and copies each file to a standardized
folder structure. It can also ask a language model for names of generic documents.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to statement-sorter!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup()
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default is ./config.yaml or $HOME/.statement-sorter/config.yaml)")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text or json)")
	flags.Bool("ai", false, "Use the external classifier")
	flags.String("ai-provider", "", "External classifier provider (gemini or openai)")
	flags.String("ai-model", "", "Model name (defaults to the provider's default)")
	flags.String("ai-mode", "", "When to ask the classifier (fallback or primary)")

	bindPersistent("log.level", "log-level")
	bindPersistent("log.format", "log-format")
	bindPersistent("ai.enabled", "ai")
	bindPersistent("ai.provider", "ai-provider")
	bindPersistent("ai.model", "ai-model")
	bindPersistent("ai.mode", "ai-mode")
}

func bindPersistent(key, name string) {
	_ = v.BindPFlag(key, Cmd.PersistentFlags().Lookup(name))
}

// BindFlag binds a subcommand flag to a configuration key so the flag
// overrides the config file and environment when set.
func BindFlag(cmd *cobra.Command, key, name string) {
	_ = v.BindPFlag(key, cmd.Flags().Lookup(name))
}

// Viper exposes the configuration registry commands bind to.
func Viper() *viper.Viper {
	return v
}

// Setup loads .env, reads and validates the configuration and configures
// logging from it.
func Setup() error {
	envFile, err := config.LoadEnv()
	if err != nil {
		return err
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	AppConfig = cfg
	Log = config.ConfigureLoggingFromConfig(cfg)

	if envFile != "" {
		Log.Debug("Loaded environment file", logging.Field{Key: "file", Value: envFile})
	}
	if used := v.ConfigFileUsed(); used != "" {
		Log.Debug("Using config file", logging.Field{Key: "file", Value: used})
	}
	return nil
}

// NewContainer wires the application dependencies from AppConfig.
func NewContainer(ctx context.Context) (*container.Container, error) {
	if AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return container.NewContainer(ctx, AppConfig, container.WithLogger(Log))
}
