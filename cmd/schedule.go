package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/arrowplan/internal/config"
	"github.com/papapumpkin/arrowplan/internal/cpm"
	"github.com/papapumpkin/arrowplan/internal/pipeline"
	"github.com/papapumpkin/arrowplan/internal/ui"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <input>",
	Short: "Print the critical path schedule of an activity file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().String("intype", "", "input format: csv, toml, yaml, hcl (default: from extension)")
	scheduleCmd.Flags().Bool("json", false, "print the schedule as JSON on stdout")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("intype"); v != "" {
		cfg.InputType = v
	}
	printer := ui.New()

	opts, err := pipelineOptions(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cfg, printer)
	defer cancel()

	deps, err := pipeline.Load(args[0], opts.InputFormat)
	if err != nil {
		return err
	}
	res, err := pipeline.Schedule(ctx, deps, opts)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeScheduleJSON(cmd.OutOrStdout(), res)
	}
	printer.Schedule(res)
	return nil
}

type scheduleJSON struct {
	Order         []int          `json:"order"`
	Schedules     []scheduleItem `json:"schedules"`
	CriticalPath  []int          `json:"critical_path"`
	ProjectFinish int            `json:"project_finish"`
	UnseededSinks []int          `json:"unseeded_sinks,omitempty"`
	Implicit      []int          `json:"implicit,omitempty"`
	Networks      [][]int        `json:"networks"`
}

type scheduleItem struct {
	ID             int  `json:"id"`
	Duration       int  `json:"duration"`
	EarliestStart  int  `json:"earliest_start"`
	EarliestFinish int  `json:"earliest_finish"`
	LatestStart    int  `json:"latest_start"`
	LatestFinish   int  `json:"latest_finish"`
	Slack          int  `json:"slack"`
	Critical       bool `json:"critical"`
	Implicit       bool `json:"implicit,omitempty"`
}

func writeScheduleJSON(w io.Writer, res *cpm.Result) error {
	out := scheduleJSON{
		Order:         res.Order,
		CriticalPath:  res.CriticalPath,
		ProjectFinish: res.ProjectFinish,
		UnseededSinks: res.UnseededSinks,
		Implicit:      res.Implicit,
	}
	for _, s := range res.InOrder() {
		out.Schedules = append(out.Schedules, scheduleItem{
			ID:             s.ID,
			Duration:       s.Duration,
			EarliestStart:  s.EarliestStart,
			EarliestFinish: s.EarliestFinish,
			LatestStart:    s.LatestStart,
			LatestFinish:   s.LatestFinish,
			Slack:          s.Slack,
			Critical:       s.IsCritical,
			Implicit:       s.Implicit,
		})
	}
	for _, n := range res.Networks {
		out.Networks = append(out.Networks, n.NodeIDs)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
