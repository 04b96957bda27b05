package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Items      []string // Related paths or errors (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning, in yellow on a terminal
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	for i, item := range w.Items {
		b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, item))
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion: ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	fmt.Fprint(out, paint(colorEnabled(out), color.New(color.FgYellow), b.String()))
}

// WarnDiagnostics summarises soft scan errors, listing at most limit of them.
// A non-positive limit lists all.
func WarnDiagnostics(diagnostics []error, limit int) Warning {
	w := Warning{
		Title: fmt.Sprintf("%d %s during scan", len(diagnostics), plural(len(diagnostics), "problem", "problems")),
	}

	shown := diagnostics
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
		w.Message = fmt.Sprintf("Showing first %d of %d.", limit, len(diagnostics))
	}
	for _, d := range shown {
		w.Items = append(w.Items, d.Error())
	}

	w.Suggestion = "Unreadable files were skipped; results may list resources that are actually used."
	return w
}

// WarnIncomplete is shown when a scan was cancelled before it finished.
func WarnIncomplete() Warning {
	return Warning{
		Title:      "Scan incomplete",
		Message:    "The scan was cancelled; the report covers only what was visited.",
		Suggestion: "Re-run the scan to completion before deleting anything.",
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
