package models

import (
	"fmt"
	"os"
	"strings"
)

// ExcludeDelimiter separates folder names when exclusions arrive as one string.
const ExcludeDelimiter = "|"

// Settings is the read-only snapshot consumed by one detection run.
type Settings struct {
	ProjectPath        string
	ExcludeFolders     []string
	ResourceSuffixes   []string
	UsagePatterns      []UsagePattern
	MatchSimilarNames  bool
	ScanMarkdownImages bool
}

// NewSettings builds Settings with normalised suffixes and de-duplicated
// exclusions.
func NewSettings(projectPath string, excludeFolders, resourceSuffixes []string, patterns []UsagePattern, matchSimilar bool) *Settings {
	return &Settings{
		ProjectPath:       projectPath,
		ExcludeFolders:    dedupe(excludeFolders),
		ResourceSuffixes:  NormalizeSuffixes(resourceSuffixes),
		UsagePatterns:     append([]UsagePattern(nil), patterns...),
		MatchSimilarNames: matchSimilar,
	}
}

// Validate reports the first fatal configuration problem, if any.
func (s *Settings) Validate() error {
	if err := ValidateProjectPath(s.ProjectPath); err != nil {
		return err
	}
	for i, p := range s.UsagePatterns {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("usage pattern %d: %w", i, err)
		}
	}
	return nil
}

// ValidateProjectPath rejects empty, missing and non-directory roots.
func ValidateProjectPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &InvalidConfigurationError{Field: "project_path", Reason: "project path cannot be empty"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &InvalidConfigurationError{Field: "project_path", Reason: fmt.Sprintf("cannot access %s: %v", path, err)}
	}
	if !info.IsDir() {
		return &InvalidConfigurationError{Field: "project_path", Reason: fmt.Sprintf("%s is not a directory", path)}
	}
	return nil
}

// ParseExcludeFolders splits a "|"-delimited folder list, trimming blanks and
// dropping empty and repeated entries while keeping order.
func ParseExcludeFolders(s string) []string {
	return dedupe(strings.Split(s, ExcludeDelimiter))
}

// NormalizeSuffix lowercases a suffix and ensures a leading dot.
// "PNG", ".png" and "png" all become ".png".
func NormalizeSuffix(suffix string) string {
	suffix = strings.ToLower(strings.TrimSpace(suffix))
	if suffix == "" {
		return ""
	}
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	return suffix
}

// NormalizeSuffixes normalises every suffix, dropping empties and duplicates.
func NormalizeSuffixes(suffixes []string) []string {
	out := make([]string, 0, len(suffixes))
	seen := make(map[string]bool, len(suffixes))
	for _, s := range suffixes {
		n := NormalizeSuffix(s)
		if n == "" || n == "." || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
