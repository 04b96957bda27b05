package models

import (
	"sort"
	"time"
)

// ResourceInfo describes one indexed resource. Grouped-asset folders are a
// single entry whose size is the sum of everything beneath them.
type ResourceInfo struct {
	Name        string `json:"name" yaml:"name"`                 // Canonical name, unique within an index
	Path        string `json:"path" yaml:"path"`                 // Absolute path on disk
	IsContainer bool   `json:"is_container" yaml:"is_container"` // True for grouped-asset folders
	SizeBytes   uint64 `json:"size_bytes" yaml:"size_bytes"`     // File size, or recursive sum for containers
}

// DetectionReport is the result of a single detection run.
type DetectionReport struct {
	Unused        []ResourceInfo `json:"unused" yaml:"unused"`
	UnusedBytes   uint64         `json:"unused_bytes" yaml:"unused_bytes"`
	ResourceCount int            `json:"resource_count" yaml:"resource_count"`
	UsageCount    int            `json:"usage_count" yaml:"usage_count"`
	Incomplete    bool           `json:"incomplete" yaml:"incomplete"`
	Duration      time.Duration  `json:"duration" yaml:"duration"`
	Diagnostics   []error        `json:"-" yaml:"-"`
}

// SortResources orders resources by size descending, then name ascending.
func SortResources(resources []ResourceInfo) {
	sort.SliceStable(resources, func(i, j int) bool {
		if resources[i].SizeBytes != resources[j].SizeBytes {
			return resources[i].SizeBytes > resources[j].SizeBytes
		}
		return resources[i].Name < resources[j].Name
	})
}

// DiagnosticMessages returns the diagnostics as strings, for export formats
// that cannot carry error values.
func (r *DetectionReport) DiagnosticMessages() []string {
	msgs := make([]string, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		msgs = append(msgs, d.Error())
	}
	return msgs
}
