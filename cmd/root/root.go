// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/osp-migrate/internal/config"
	"fjacquet/osp-migrate/internal/container"
	"fjacquet/osp-migrate/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by every command
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	InputDir   string
	OutputDir  string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer holds the dependencies built from the configuration.
	// It is set by the persistent pre-run hook.
	AppContainer *container.Container

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "osp-migrate",
		Short: "Convert legacy subaward and invoice exports into SAP migration files.",
		Long: `osp-migrate reads the legacy subaward and invoice exports together with
their reference files and produces the four SAP load files: subaward
summaries, budget details, invoice summaries and invoice cost details.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to osp-migrate!")
			Log.Info("Use --help to see available commands")
		},
	}
)

// Init registers the persistent flags. It must be called once before Execute.
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches ./config.yaml, .osp-migrate/, $HOME/.osp-migrate/)")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
	flags.StringVarP(&SharedFlags.InputDir, "input-dir", "i", "", "Directory holding the input files")
	flags.StringVarP(&SharedFlags.OutputDir, "output-dir", "o", "", "Directory receiving the output files")
}

// LoadConfig loads .env, the configuration and applies the flag overrides.
func LoadConfig(flags CommonFlags) (*config.Config, error) {
	if _, err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.InitializeConfigFromFile(flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	if flags.LogLevel != "" {
		if _, err := logrus.ParseLevel(flags.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid log level: %s", flags.LogLevel)
		}
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		if flags.LogFormat != "text" && flags.LogFormat != "json" {
			return nil, fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", flags.LogFormat)
		}
		cfg.Log.Format = flags.LogFormat
	}
	if flags.InputDir != "" {
		cfg.Input.Dir = flags.InputDir
	}
	if flags.OutputDir != "" {
		cfg.Output.Dir = flags.OutputDir
	}
	return cfg, nil
}

func initialize(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(SharedFlags)
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}

	AppContainer = c
	Log = c.GetLogger()
	Log.Debug("Configuration loaded",
		logging.F("command", cmd.Name()),
		logging.F("input_dir", cfg.Input.Dir),
		logging.F("output_dir", cfg.Output.Dir))
	return nil
}
