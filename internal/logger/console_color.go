package logger

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/harrison/unusedres/internal/models"
)

// colorScheme defines consistent colors for summary lines.
// Green: nothing to clean up
// Red: unused resources found
// Yellow: diagnostics and incomplete runs
// Cyan: labels
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	value   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite),
	}
}

// formatColorizedMetric formats "label: value" with a cyan label.
func formatColorizedMetric(label string, value interface{}, scheme *colorScheme) string {
	return fmt.Sprintf("%s: %s", scheme.label.Sprint(label), scheme.value.Sprintf("%v", value))
}

// formatColorizedSummary renders the summary block with each line prefixed
// by the timestamp.
func formatColorizedSummary(ts string, report *models.DetectionReport, scheme *colorScheme) string {
	header := color.New(color.Bold).Sprint("=== Detection Summary ===")
	out := fmt.Sprintf("[%s] %s\n", ts, header)
	out += fmt.Sprintf("[%s] %s\n", ts, formatColorizedMetric("Resources", report.ResourceCount, scheme))
	out += fmt.Sprintf("[%s] %s\n", ts, formatColorizedMetric("Referenced names", report.UsageCount, scheme))

	unused := fmt.Sprintf("%d (%s)", len(report.Unused), humanize.IBytes(report.UnusedBytes))
	if len(report.Unused) > 0 {
		out += fmt.Sprintf("[%s] %s: %s\n", ts, scheme.label.Sprint("Unused"), scheme.fail.Sprint(unused))
	} else {
		out += fmt.Sprintf("[%s] %s: %s\n", ts, scheme.label.Sprint("Unused"), scheme.success.Sprint(unused))
	}

	if n := len(report.Diagnostics); n > 0 {
		out += fmt.Sprintf("[%s] %s: %s\n", ts, scheme.label.Sprint("Diagnostics"), scheme.warn.Sprint(n))
	} else {
		out += fmt.Sprintf("[%s] %s\n", ts, formatColorizedMetric("Diagnostics", 0, scheme))
	}
	out += fmt.Sprintf("[%s] %s\n", ts, formatColorizedMetric("Duration", formatDuration(report.Duration), scheme))
	if report.Incomplete {
		out += fmt.Sprintf("[%s] %s\n", ts, scheme.warn.Sprint("Status: INCOMPLETE (cancelled)"))
	}
	return out
}
