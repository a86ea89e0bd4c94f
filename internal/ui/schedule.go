package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/papapumpkin/arrowplan/internal/ansi"
	"github.com/papapumpkin/arrowplan/internal/cpm"
)

var (
	colorCritical = lipgloss.Color("#FF5252")
	colorMuted    = lipgloss.Color("#8C8C8C")
	colorHeader   = lipgloss.Color("#00BFFF")

	styleHeader   = lipgloss.NewStyle().Foreground(colorHeader).Bold(true).Padding(0, 1)
	styleCell     = lipgloss.NewStyle().Padding(0, 1)
	styleCritical = styleCell.Foreground(colorCritical).Bold(true)
	styleImplicit = styleCell.Foreground(colorMuted)
	styleBorder   = lipgloss.NewStyle().Foreground(colorMuted)
)

var scheduleHeaders = []string{"ID", "DUR", "ES", "EF", "LS", "LF", "SLACK", "CRIT"}

// ScheduleTable renders every schedule of res in dependency order.
// Critical rows are highlighted and implicit nodes are dimmed.
func ScheduleTable(res *cpm.Result) string {
	schedules := res.InOrder()
	rows := make([][]string, 0, len(schedules))
	for _, s := range schedules {
		crit := ""
		if s.IsCritical {
			crit = "*"
		}
		id := strconv.Itoa(s.ID)
		if s.Implicit {
			id += "?"
		}
		rows = append(rows, []string{
			id,
			strconv.Itoa(s.Duration),
			strconv.Itoa(s.EarliestStart),
			strconv.Itoa(s.EarliestFinish),
			strconv.Itoa(s.LatestStart),
			strconv.Itoa(s.LatestFinish),
			strconv.Itoa(s.Slack),
			crit,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleBorder).
		Headers(scheduleHeaders...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if row < 0 || row >= len(schedules) {
				return styleCell
			}
			switch s := schedules[row]; {
			case s.IsCritical:
				return styleCritical
			case s.Implicit:
				return styleImplicit
			}
			return styleCell
		})
	return t.String()
}

// Schedule prints the schedule table followed by the critical path and any
// sinks the backward pass left unseeded.
func (p *Printer) Schedule(res *cpm.Result) {
	fmt.Fprintln(p.out(), ScheduleTable(res))
	p.CriticalPath(res)
	if len(res.UnseededSinks) > 0 {
		p.Warn(fmt.Sprintf("unseeded sinks %v have latest finish 0; use --seed-all-sinks to schedule them against the project finish", res.UnseededSinks))
	}
}

// CriticalPath prints the critical activities and the project finish.
func (p *Printer) CriticalPath(res *cpm.Result) {
	if len(res.CriticalPath) == 0 {
		fmt.Fprintf(p.out(), ansi.Bold+"critical path:"+ansi.Reset+ansi.Dim+" (none)"+ansi.Reset+"\n")
	} else {
		fmt.Fprintf(p.out(), ansi.Bold+"critical path:"+ansi.Reset+" %s\n", joinIDs(res.CriticalPath))
	}
	fmt.Fprintf(p.out(), ansi.Bold+"project finish:"+ansi.Reset+" %d days\n", res.ProjectFinish)
	if len(res.Networks) > 1 {
		fmt.Fprintf(p.out(), ansi.Dim+"%d independent networks"+ansi.Reset+"\n", len(res.Networks))
	}
}
