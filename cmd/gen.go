package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/arrowplan/internal/config"
	"github.com/papapumpkin/arrowplan/internal/pipeline"
	"github.com/papapumpkin/arrowplan/internal/ui"
)

var genCmd = &cobra.Command{
	Use:   "gen <input>",
	Short: "Generate an activity-on-arrow diagram from an activity file",
	Long: `Reads activities from a CSV, TOML, YAML or HCL file, schedules them and writes
the reduced activity-on-arrow diagram.

The output defaults to <input>.out.<outtype>. With --watch the diagram is
regenerated every time the input changes, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runGen,
}

func init() {
	genCmd.Flags().String("intype", "", "input format: csv, toml, yaml, hcl (default: from extension)")
	genCmd.Flags().String("outtype", "graphml", "output format: dot, graphml, json")
	genCmd.Flags().StringP("output", "o", "", "output file (default <input>.out.<outtype>)")
	genCmd.Flags().Bool("milestones", false, "mark events ending zero-duration activities as milestones")
	genCmd.Flags().Bool("watch", false, "regenerate whenever the input changes")
	genCmd.Flags().Bool("stats", false, "print what each graph phase did")

	_ = viper.BindPFlag("input_type", genCmd.Flags().Lookup("intype"))
	_ = viper.BindPFlag("output_type", genCmd.Flags().Lookup("outtype"))
	_ = viper.BindPFlag("milestones", genCmd.Flags().Lookup("milestones"))

	rootCmd.AddCommand(genCmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	printer := ui.New()

	opts, err := pipelineOptions(cfg)
	if err != nil {
		return err
	}
	opts.Input = args[0]
	opts.Output, _ = cmd.Flags().GetString("output")

	em, err := openTelemetry(cfg)
	if err != nil {
		return err
	}
	defer em.Close()
	opts.Telemetry = em

	ctx, cancel := commandContext(cfg, printer)
	defer cancel()

	showStats, _ := cmd.Flags().GetBool("stats")
	report := func(rep *pipeline.Report) {
		printer.Written(rep.Output, rep.OutputSize, rep.Stats)
		if showStats || cfg.Verbose {
			printer.GraphSummary(rep.Stats)
		}
		if len(rep.Schedule.UnseededSinks) > 0 {
			printer.Warn(fmt.Sprintf("unseeded sinks %v have latest finish 0", rep.Schedule.UnseededSinks))
		}
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		printer.Watching(opts.Input)
		return pipeline.Watch(ctx, opts, func(rep *pipeline.Report, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			if err != nil {
				printer.Error(err.Error())
				return
			}
			report(rep)
		})
	}

	rep, err := pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}
	report(rep)
	return nil
}
