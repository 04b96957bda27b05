package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func set(names ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func TestTemplate(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"icon_tag_1", "icon_tag_" + Marker, true},
		{"icon_tag_123", "icon_tag_" + Marker, true},
		{"frame007", "frame" + Marker, true},
		{"42", Marker, true},
		{"icon", "", false},
		{"icon1x", "", false},
		{"", "", false},
		{"v2_icon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Template(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUsageTemplate(t *testing.T) {
	tests := []struct {
		ref    string
		want   string
		wantOK bool
	}{
		{"icon_tag_%d", "icon_tag_" + Marker, true},
		{"icon_tag_%02d", "icon_tag_" + Marker, true},
		{"icon_tag_%ld", "icon_tag_" + Marker, true},
		{"icon_tag_%lu", "icon_tag_" + Marker, true},
		{"icon_tag_%zd", "icon_tag_" + Marker, true},
		{"icon_tag_%i", "icon_tag_" + Marker, true},
		{"icon_tag_%@", "icon_tag_" + Marker, true},
		{"frame%-3u", "frame" + Marker, true},
		{"icon_tag_%s", "", false},
		{"icon_tag_%d_big", "", false},
		{"icon_tag_1", "", false},
		{"%", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := UsageTemplate(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSimilarlyReferenced(t *testing.T) {
	usage := set("icon_tag_%d", "frame%02d", "plain", "loading_%@", "bad_%d_suffix")

	tests := []struct {
		candidate string
		want      bool
	}{
		{"icon_tag_1", true},
		{"icon_tag_20", true},
		{"frame07", true},
		{"loading_3", true},
		{"icon_tag_", false},
		{"icon_1", false},
		{"plain", false},
		{"plain1", false},
		{"bad_1_suffix", false},
		{"icontag_1", false},
	}

	m := NewMatcher(usage)
	assert.Equal(t, 3, m.TemplateCount())

	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSimilarlyReferenced(tt.candidate, usage))
			assert.Equal(t, tt.want, m.Matches(tt.candidate))
		})
	}
}

func TestIsSimilarlyReferenced_EmptyUsage(t *testing.T) {
	assert.False(t, IsSimilarlyReferenced("icon_1", nil))
	assert.False(t, NewMatcher(nil).Matches("icon_1"))
}
