// Package pattern holds the ordered set of usage-matching rules applied to
// source files, the built-in defaults, and a cache of compiled expressions.
package pattern

import (
	"fmt"

	"github.com/harrison/unusedres/internal/models"
)

// Set is an ordered list of usage patterns. Order is preserved because
// diagnostics refer to patterns by index.
type Set struct {
	patterns []models.UsagePattern
}

// NewSet validates and wraps patterns.
func NewSet(patterns []models.UsagePattern) (*Set, error) {
	s := &Set{}
	for _, p := range patterns {
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Patterns returns a copy of the patterns in order.
func (s *Set) Patterns() []models.UsagePattern {
	return append([]models.UsagePattern(nil), s.patterns...)
}

// Len returns the number of patterns.
func (s *Set) Len() int {
	return len(s.patterns)
}

// Add appends a validated pattern.
func (s *Set) Add(p models.UsagePattern) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.SourceSuffix = models.NormalizeSuffix(p.SourceSuffix)
	s.patterns = append(s.patterns, p)
	return nil
}

// Remove deletes the pattern at index.
func (s *Set) Remove(index int) error {
	if index < 0 || index >= len(s.patterns) {
		return fmt.Errorf("pattern index %d out of range [0,%d)", index, len(s.patterns))
	}
	s.patterns = append(s.patterns[:index], s.patterns[index+1:]...)
	return nil
}

// Update replaces the pattern at index after validating it.
func (s *Set) Update(index int, p models.UsagePattern) error {
	if index < 0 || index >= len(s.patterns) {
		return fmt.Errorf("pattern index %d out of range [0,%d)", index, len(s.patterns))
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.SourceSuffix = models.NormalizeSuffix(p.SourceSuffix)
	s.patterns[index] = p
	return nil
}

// SetEnabled toggles the pattern at index.
func (s *Set) SetEnabled(index int, enabled bool) error {
	if index < 0 || index >= len(s.patterns) {
		return fmt.Errorf("pattern index %d out of range [0,%d)", index, len(s.patterns))
	}
	s.patterns[index].Enabled = enabled
	return nil
}

// SourceSuffixes returns the distinct suffixes of enabled patterns, in first
// appearance order.
func (s *Set) SourceSuffixes() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range s.patterns {
		if !p.Enabled || seen[p.SourceSuffix] {
			continue
		}
		seen[p.SourceSuffix] = true
		out = append(out, p.SourceSuffix)
	}
	return out
}

// For returns the indexes of every enabled pattern whose suffix ends name.
// Both ".php" and ".blade.php" patterns apply to "home.blade.php".
func (s *Set) For(name string) []int {
	var idx []int
	for i, p := range s.patterns {
		if p.AppliesToFile(name) {
			idx = append(idx, i)
		}
	}
	return idx
}
