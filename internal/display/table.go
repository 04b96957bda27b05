package display

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/harrison/unusedres/internal/models"
)

// columnGap is the number of spaces between columns.
const columnGap = 2

// WriteTable prints the unused resources of report as aligned columns.
// Paths are shown relative to projectPath when possible.
func WriteTable(w io.Writer, report *models.DetectionReport, projectPath string) error {
	return writeTable(w, report, projectPath, colorEnabled(w))
}

// writeTable pads every cell on its plain text before colouring it, so
// escape sequences never count towards a column's width.
func writeTable(w io.Writer, report *models.DetectionReport, projectPath string, enabled bool) error {
	if len(report.Unused) == 0 {
		_, err := fmt.Fprintln(w, paint(enabled, color.New(color.FgGreen), "No unused resources found."))
		return err
	}

	rows := [][]string{{"NAME", "SIZE", "KIND", "PATH"}}
	for _, r := range report.Unused {
		kind := "file"
		if r.IsContainer {
			kind = "asset"
		}
		rows = append(rows, []string{r.Name, humanize.IBytes(r.SizeBytes), kind, relPath(projectPath, r.Path)})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	header := color.New(color.Bold)
	name := color.New(color.FgRed)
	var b strings.Builder
	for i, row := range rows {
		for j, cell := range row {
			text := cell
			switch {
			case i == 0:
				text = paint(enabled, header, cell)
			case j == 0:
				text = paint(enabled, name, cell)
			}
			b.WriteString(text)
			if j < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[j]-utf8.RuneCountInString(cell)+columnGap))
			}
		}
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	_, err := fmt.Fprintf(w, "\n%d unused %s, %s reclaimable (%d indexed, %d referenced names)\n",
		len(report.Unused), plural(len(report.Unused), "resource", "resources"),
		humanize.IBytes(report.UnusedBytes), report.ResourceCount, report.UsageCount)
	return err
}

func relPath(base, p string) string {
	if base == "" {
		return p
	}
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return p
	}
	return rel
}
