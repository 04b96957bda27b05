package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/unusedres/internal/filelock"
	"github.com/harrison/unusedres/internal/models"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json, yaml and yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", &models.InvalidConfigurationError{Field: "format", Reason: fmt.Sprintf("unknown format %q (want table, json or yaml)", s)}
	}
}

// exportedReport is the machine-readable shape of a report.
type exportedReport struct {
	Project       string                `json:"project" yaml:"project"`
	Unused        []models.ResourceInfo `json:"unused" yaml:"unused"`
	UnusedBytes   uint64                `json:"unused_bytes" yaml:"unused_bytes"`
	ResourceCount int                   `json:"resource_count" yaml:"resource_count"`
	UsageCount    int                   `json:"usage_count" yaml:"usage_count"`
	Incomplete    bool                  `json:"incomplete" yaml:"incomplete"`
	Duration      string                `json:"duration" yaml:"duration"`
	Diagnostics   []string              `json:"diagnostics" yaml:"diagnostics"`
}

// Encode renders report as JSON or YAML.
func Encode(report *models.DetectionReport, projectPath string, format Format) ([]byte, error) {
	unused := report.Unused
	if unused == nil {
		unused = []models.ResourceInfo{}
	}
	out := exportedReport{
		Project:       projectPath,
		Unused:        unused,
		UnusedBytes:   report.UnusedBytes,
		ResourceCount: report.ResourceCount,
		UsageCount:    report.UsageCount,
		Incomplete:    report.Incomplete,
		Duration:      report.Duration.String(),
		Diagnostics:   report.DiagnosticMessages(),
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("format %q cannot be encoded", format)
	}
}

// Export encodes report and writes it to path atomically.
func Export(path string, report *models.DetectionReport, projectPath string, format Format) error {
	data, err := Encode(report, projectPath, format)
	if err != nil {
		return err
	}
	if err := filelock.AtomicWrite(path, data); err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	return nil
}
