package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/arrowplan/internal/config"
	"github.com/papapumpkin/arrowplan/internal/ctxlog"
	"github.com/papapumpkin/arrowplan/internal/dag"
	"github.com/papapumpkin/arrowplan/internal/pipeline"
	"github.com/papapumpkin/arrowplan/internal/reader"
	"github.com/papapumpkin/arrowplan/internal/telemetry"
	"github.com/papapumpkin/arrowplan/internal/ui"
	"github.com/papapumpkin/arrowplan/internal/writer"
)

var rootCmd = &cobra.Command{
	Use:   "arrowplan",
	Short: "Activity-on-arrow diagrams and critical path schedules",
	Long: `arrowplan reads a project's activities and their predecessors, computes the
critical path schedule and converts the precedence network into a reduced
activity-on-arrow diagram written as Graphviz dot, GraphML or JSON.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .arrowplan.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text, json")
	flags.String("unresolved", "implicit", "unresolved predecessor ids: implicit, strict")
	flags.Bool("seed-all-sinks", false, "schedule every sink against the project finish")
	flags.String("telemetry", "", "append JSONL run events to this file")

	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("unresolved", flags.Lookup("unresolved"))
	_ = viper.BindPFlag("seed_all_sinks", flags.Lookup("seed-all-sinks"))
	_ = viper.BindPFlag("telemetry_path", flags.Lookup("telemetry"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".arrowplan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("ARROWPLAN")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// commandContext builds the logger from cfg and returns a context carrying
// it that is cancelled on SIGINT or SIGTERM.
func commandContext(cfg config.Config, printer *ui.Printer) (context.Context, context.CancelFunc) {
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	logger := ctxlog.New(level, cfg.LogFormat, os.Stderr)

	ctx, cancel := context.WithCancel(ctxlog.WithLogger(context.Background(), logger))
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			printer.Info("\nshutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// pipelineOptions maps the loaded configuration onto run options. The
// caller sets Input and Output.
func pipelineOptions(cfg config.Config) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error
	if cfg.InputType != "" {
		if opts.InputFormat, err = reader.ParseFormat(cfg.InputType); err != nil {
			return opts, err
		}
	}
	if opts.OutputFormat, err = writer.ParseFormat(cfg.OutputType); err != nil {
		return opts, err
	}
	if opts.Policy, err = dag.ParsePolicy(cfg.Unresolved); err != nil {
		return opts, err
	}
	opts.SeedAllSinks = cfg.SeedAllSinks
	opts.Milestones = cfg.Milestones
	return opts, nil
}

// openTelemetry returns nil when no telemetry path is configured.
func openTelemetry(cfg config.Config) (*telemetry.Emitter, error) {
	if cfg.TelemetryPath == "" {
		return nil, nil
	}
	return telemetry.NewEmitter(cfg.TelemetryPath)
}
