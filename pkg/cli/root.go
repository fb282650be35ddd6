package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"songlake/internal/app"
	"songlake/internal/config"
	"songlake/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = PrintJSON(os.Stdout, errorObject(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// errorObject renders err for JSON output, exposing the error kind and the
// failing source or table when known.
func errorObject(err error) map[string]interface{} {
	errObj := map[string]interface{}{
		"error": err.Error(),
	}
	var (
		vErr   *domain.ValidationError
		srcErr *domain.SourceReadError
		snkErr *domain.SinkWriteError
	)
	switch {
	case errors.As(err, &vErr):
		errObj["kind"] = "validation"
	case errors.As(err, &srcErr):
		errObj["kind"] = "source_read"
		errObj["source"] = srcErr.Source
	case errors.As(err, &snkErr):
		errObj["kind"] = "sink_write"
		errObj["table"] = snkErr.Table
		errObj["destination"] = snkErr.Destination
	}
	return errObj
}

// rootOptions holds the persistent flags and the configuration resolved
// from them before a subcommand runs.
type rootOptions struct {
	configFile string
	envFile    string
	dlConfig   string
	output     string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "songlake",
		Short: "Song play analytics ETL",
		Long: "Builds a star schema of song plays from song metadata and user event logs,\n" +
			"written as Parquet tables to a local directory or object storage.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(opts.output); err != nil {
				return err
			}
			return opts.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "KEY=VALUE file read if present")
	rootCmd.PersistentFlags().StringVar(&opts.dlConfig, "dl-cfg", "", "INI-style credentials file (e.g. dl.cfg)")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newScheduleCmd(opts))
	rootCmd.AddCommand(newInspectCmd(opts))
	rootCmd.AddCommand(newTablesCmd())

	return rootCmd
}

// load resolves the configuration. Precedence: flag > env > .env > dl.cfg >
// config file > default.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Files{
		Config:   o.configFile,
		DotEnv:   o.envFile,
		DLConfig: o.dlConfig,
	})
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	o.cfg = cfg
	o.logger = app.NewLogger(cfg, os.Stderr)
	return nil
}

// deps validates the configuration, logs its warnings, and returns the
// application dependencies.
func (o *rootOptions) deps() (app.Deps, error) {
	if err := o.cfg.Validate(); err != nil {
		return app.Deps{}, err
	}
	for _, w := range o.cfg.Warnings {
		o.logger.Warn(w)
	}
	return app.Deps{Cfg: o.cfg, Logger: o.logger}, nil
}
