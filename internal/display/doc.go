// Package display renders detection reports for the terminal and for export.
//
// Reports are shown as an aligned table:
//
//	display.WriteTable(os.Stdout, report, projectPath)
//
// or encoded for tooling and written atomically:
//
//	format, err := display.ParseFormat("json")
//	err = display.Export("unused.json", report, projectPath, format)
//
// Soft diagnostics collected during a scan are summarised with a Warning:
//
//	display.WarnDiagnostics(report.Diagnostics, 10).Display(os.Stderr)
//
// Colour is used only when the writer is a terminal and NO_COLOR is unset.
package display
