package models

import (
	"fmt"
	"strings"
)

// UsagePattern is a single usage-matching rule applied to source files whose
// name ends with SourceSuffix. Multi-dot suffixes such as ".blade.php" work.
type UsagePattern struct {
	SourceSuffix string `json:"suffix" yaml:"suffix"`
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	Regex        string `json:"regex" yaml:"regex"`
	CaptureGroup int    `json:"group" yaml:"group"`
}

// NewUsagePattern builds a validated pattern. The regex itself is only
// compiled at scan time.
func NewUsagePattern(suffix string, enabled bool, regex string, group int) (UsagePattern, error) {
	p := UsagePattern{
		SourceSuffix: NormalizeSuffix(suffix),
		Enabled:      enabled,
		Regex:        regex,
		CaptureGroup: group,
	}
	if err := p.Validate(); err != nil {
		return UsagePattern{}, err
	}
	return p, nil
}

// Validate checks the structural fields of the pattern.
func (p UsagePattern) Validate() error {
	if strings.Trim(strings.TrimSpace(p.SourceSuffix), ".") == "" {
		return &InvalidConfigurationError{Field: "usage_patterns.suffix", Reason: "suffix cannot be empty"}
	}
	if p.CaptureGroup < 0 {
		return &InvalidConfigurationError{
			Field:  "usage_patterns.group",
			Reason: fmt.Sprintf("capture group must be >= 0, got %d", p.CaptureGroup),
		}
	}
	return nil
}

// AppliesToFile reports whether the pattern is enabled and name ends with
// its suffix.
func (p UsagePattern) AppliesToFile(name string) bool {
	return p.Enabled && HasFileSuffix(name, p.SourceSuffix)
}

// HasFileSuffix reports whether name ends with suffix, ignoring case. The
// suffix alone is not a match: ".png" does not end with ".png" here.
func HasFileSuffix(name, suffix string) bool {
	suffix = NormalizeSuffix(suffix)
	if suffix == "" || len(name) <= len(suffix) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(suffix):], suffix)
}
