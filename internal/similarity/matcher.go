// Package similarity recognises resources referenced through numeric
// format-string templates: "icon_tag_1" is used when code builds names from
// "icon_tag_%d".
package similarity

import (
	"regexp"
)

// Marker replaces the numeric part of a name. NUL cannot occur in a file
// name, so a marker never collides with literal text.
const Marker = "\x00#"

// placeholderPattern matches a trailing printf-style integer or object
// placeholder: %d, %02d, %ld, %lu, %zd, %i, %u, %x, %@ and friends.
var placeholderPattern = regexp.MustCompile(`%[-+ 0#]*[0-9]*(?:hh|h|ll|l|q|z|j|t)?[diuxX@]$`)

// Template replaces the maximal trailing run of ASCII digits in name with
// Marker. ok is false when name does not end in a digit.
func Template(name string) (template string, ok bool) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return "", false
	}
	return name[:i] + Marker, true
}

// UsageTemplate replaces a trailing format placeholder in ref with Marker.
// ok is false when ref has no trailing placeholder.
func UsageTemplate(ref string) (template string, ok bool) {
	loc := placeholderPattern.FindStringIndex(ref)
	if loc == nil {
		return "", false
	}
	return ref[:loc[0]] + Marker, true
}

// Matcher answers similarity queries against one usage set. Build it once
// per detection run.
type Matcher struct {
	templates map[string]struct{}
}

// NewMatcher precomputes the templates of every entry in usage.
func NewMatcher(usage map[string]struct{}) *Matcher {
	m := &Matcher{templates: make(map[string]struct{})}
	for ref := range usage {
		if t, ok := UsageTemplate(ref); ok {
			m.templates[t] = struct{}{}
		}
	}
	return m
}

// Matches reports whether candidate's numeric template was referenced.
func (m *Matcher) Matches(candidate string) bool {
	t, ok := Template(candidate)
	if !ok {
		return false
	}
	_, found := m.templates[t]
	return found
}

// TemplateCount returns the number of distinct templates in the usage set.
func (m *Matcher) TemplateCount() int {
	return len(m.templates)
}

// IsSimilarlyReferenced is the one-shot form of NewMatcher(usage).Matches(candidate).
func IsSimilarlyReferenced(candidate string, usage map[string]struct{}) bool {
	t, ok := Template(candidate)
	if !ok {
		return false
	}
	for ref := range usage {
		if ut, ok := UsageTemplate(ref); ok && ut == t {
			return true
		}
	}
	return false
}
