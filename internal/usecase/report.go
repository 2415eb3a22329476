package usecase

import (
	"fmt"
	"strings"
	"time"

	"telegram-productivity-coach/internal/domain/ports/adapter"
)

// Time report rendering for the check-in appendix. Entries are grouped by
// project (daily) and additionally by day (weekly); project order follows
// first appearance so the report is deterministic for a given entry order.

func RenderDailyReport(entries []adapter.TimeEntry) string {
	if len(entries) == 0 {
		return "No time entries recorded for today."
	}

	var total time.Duration
	order, byProject := groupByProject(entries)
	for _, e := range entries {
		total += e.End.Sub(e.Start)
	}

	var b strings.Builder
	b.WriteString("## Daily Time Report\n\n")
	fmt.Fprintf(&b, "Total time tracked: %s\n", formatDuration(total))
	for _, project := range order {
		writeProject(&b, "###", project, byProject[project])
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderWeeklyReport(entries []adapter.TimeEntry) string {
	if len(entries) == 0 {
		return "No time entries recorded for this week."
	}

	var total time.Duration
	byDay := map[string][]adapter.TimeEntry{}
	var dayOrder []string
	for _, e := range entries {
		total += e.End.Sub(e.Start)
		day := e.Start.Weekday().String()
		if _, ok := byDay[day]; !ok {
			dayOrder = append(dayOrder, day)
		}
		byDay[day] = append(byDay[day], e)
	}

	var b strings.Builder
	b.WriteString("## Weekly Time Report\n\n")
	fmt.Fprintf(&b, "Total time tracked: %s\n", formatDuration(total))
	for _, day := range dayOrder {
		dayEntries := byDay[day]
		var dayTotal time.Duration
		for _, e := range dayEntries {
			dayTotal += e.End.Sub(e.Start)
		}
		fmt.Fprintf(&b, "\n### %s\nTotal: %s\n", day, formatDuration(dayTotal))
		order, byProject := groupByProject(dayEntries)
		for _, project := range order {
			writeProject(&b, "####", project, byProject[project])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func groupByProject(entries []adapter.TimeEntry) ([]string, map[string][]adapter.TimeEntry) {
	byProject := map[string][]adapter.TimeEntry{}
	var order []string
	for _, e := range entries {
		project := e.Project
		if project == "" {
			project = "No Project"
		}
		if _, ok := byProject[project]; !ok {
			order = append(order, project)
		}
		byProject[project] = append(byProject[project], e)
	}
	return order, byProject
}

func writeProject(b *strings.Builder, heading, project string, entries []adapter.TimeEntry) {
	var total time.Duration
	for _, e := range entries {
		total += e.End.Sub(e.Start)
	}
	fmt.Fprintf(b, "\n%s %s\nTotal: %s\n\nActivities:\n", heading, project, formatDuration(total))
	for _, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = "No description"
		}
		fmt.Fprintf(b, "- %s (%s)\n", desc, formatDuration(e.End.Sub(e.Start)))
	}
}

func formatDuration(d time.Duration) string {
	mins := int(d.Minutes())
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}
