package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/arrowplan/internal/config"
	"github.com/papapumpkin/arrowplan/internal/pipeline"
	"github.com/papapumpkin/arrowplan/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate <input>",
	Short: "Check an activity file for cycles, duplicates and unresolved ids",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if v, _ := cmd.Flags().GetString("intype"); v != "" {
			cfg.InputType = v
		}
		opts, err := pipelineOptions(cfg)
		if err != nil {
			return err
		}
		printer := ui.New()

		deps, err := pipeline.Load(args[0], opts.InputFormat)
		if err != nil {
			printer.ValidateResult(args[0], 0, []error{err})
			os.Exit(1)
		}

		v := pipeline.Validate(deps, opts.Policy)
		printer.ValidateResult(args[0], v.Activities, v.Problems)
		if len(v.Implicit) > 0 {
			printer.Warn(fmt.Sprintf("ids %v are referenced but never declared; they will be scheduled as zero-duration activities", v.Implicit))
		}
		for _, e := range v.Redundant {
			printer.Warn(fmt.Sprintf("activity %d lists %d, which it already follows through another predecessor", e.To, e.From))
		}
		if v.OK() {
			printer.Info(fmt.Sprintf("starts %v, ends %v", v.Starts, v.Ends))
		}
		if !v.OK() {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().String("intype", "", "input format: csv, toml, yaml, hcl (default: from extension)")
	rootCmd.AddCommand(validateCmd)
}
