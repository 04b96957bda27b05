package pattern

import (
	"testing"

	"github.com/harrison/unusedres/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_AddValidates(t *testing.T) {
	s, err := NewSet(nil)
	require.NoError(t, err)

	err = s.Add(models.UsagePattern{SourceSuffix: "", Enabled: true, Regex: "x", CaptureGroup: 1})
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	err = s.Add(models.UsagePattern{SourceSuffix: "m", Enabled: true, Regex: "x", CaptureGroup: -1})
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	require.NoError(t, s.Add(models.UsagePattern{SourceSuffix: "M", Enabled: true, Regex: "x", CaptureGroup: 0}))
	assert.Equal(t, ".m", s.Patterns()[0].SourceSuffix)
}

func TestSet_For(t *testing.T) {
	s, err := NewSet([]models.UsagePattern{
		{SourceSuffix: "m", Enabled: true, Regex: "a", CaptureGroup: 1},
		{SourceSuffix: "swift", Enabled: true, Regex: "b", CaptureGroup: 1},
		{SourceSuffix: ".m", Enabled: false, Regex: "c", CaptureGroup: 1},
		{SourceSuffix: "m", Enabled: true, Regex: "d", CaptureGroup: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 3}, s.For("Main.M"))
	assert.Equal(t, []int{1}, s.For("View.swift"))
	assert.Empty(t, s.For("View.xib"))
	assert.Empty(t, s.For(".m"))
	assert.Equal(t, []string{".m", ".swift"}, s.SourceSuffixes())
}

func TestSet_ForMultiDotSuffix(t *testing.T) {
	s, err := NewSet([]models.UsagePattern{
		{SourceSuffix: "php", Enabled: true, Regex: "a", CaptureGroup: 1},
		{SourceSuffix: "blade.php", Enabled: true, Regex: "b", CaptureGroup: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, s.For("home.blade.php"))
	assert.Equal(t, []int{0}, s.For("index.php"))
}

func TestSet_UpdateRemoveToggle(t *testing.T) {
	s, err := NewSet(Defaults([]string{"png"}))
	require.NoError(t, err)
	n := s.Len()

	require.NoError(t, s.SetEnabled(0, false))
	assert.False(t, s.Patterns()[0].Enabled)

	replacement := models.UsagePattern{SourceSuffix: "kt", Enabled: true, Regex: "R\\.drawable\\.(\\w+)", CaptureGroup: 1}
	require.NoError(t, s.Update(0, replacement))
	assert.Equal(t, ".kt", s.Patterns()[0].SourceSuffix)

	require.NoError(t, s.Remove(0))
	assert.Equal(t, n-1, s.Len())

	assert.Error(t, s.Remove(n))
	assert.Error(t, s.Update(-1, replacement))
	assert.Error(t, s.SetEnabled(n+5, true))
}

func TestDefaults(t *testing.T) {
	patterns := Defaults([]string{"png", ".JPG"})
	require.NotEmpty(t, patterns)

	compiler, err := NewCompiler(0)
	require.NoError(t, err)

	suffixes := make(map[string]bool)
	for _, p := range patterns {
		require.NoError(t, p.Validate())
		assert.True(t, p.Enabled)
		_, err := compiler.Compile(p.Regex)
		assert.NoError(t, err, "default regex %q must compile", p.Regex)
		suffixes[p.SourceSuffix] = true
	}

	for _, want := range []string{".m", ".swift", ".h", ".java", ".xib", ".storyboard", ".css", ".html", ".json", ".plist", ".strings"} {
		assert.True(t, suffixes[want], "missing default for %s", want)
	}
}

func TestDefaults_MatchReferences(t *testing.T) {
	tests := []struct {
		suffix  string
		content string
		want    []string
	}{
		{".swift", `let i = UIImage(named: "icon")`, []string{"icon"}},
		{".swift", `R.image.avatar()`, []string{"avatar"}},
		{".m", `[UIImage imageNamed:@"badge"];`, []string{"badge"}},
		{".xib", `<image name="logo_big" width="10"/>`, []string{"logo_big"}},
		{".css", `background: url(img/bg_main.png);`, []string{"bg_main"}},
		{".html", `<img src="assets/hero.jpg">`, []string{"assets/hero.jpg", "hero"}},
		{".plist", `<key>x</key><string>splash</string>`, []string{"splash"}},
		{".strings", `"title" = "welcome_banner";`, []string{"welcome_banner"}},
		{".swift", `let s = "two words"`, nil},
		{".swift", `let p = "path/to"`, nil},
	}

	compiler, err := NewCompiler(0)
	require.NoError(t, err)
	patterns := Defaults([]string{"png", "jpg"})

	for _, tt := range tests {
		t.Run(tt.suffix+" "+tt.content, func(t *testing.T) {
			var got []string
			for _, p := range patterns {
				if !p.AppliesToFile("source" + tt.suffix) {
					continue
				}
				re, err := compiler.Compile(p.Regex)
				require.NoError(t, err)
				for _, m := range re.FindAllStringSubmatch(tt.content, -1) {
					got = append(got, m[p.CaptureGroup])
				}
			}
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			if tt.want == nil {
				assert.Empty(t, got)
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	p := Empty()
	assert.True(t, p.Enabled)
	assert.Equal(t, 1, p.CaptureGroup)
	assert.Error(t, p.Validate(), "blank suffix must be filled in before use")
}

func TestCompiler_CachesFailures(t *testing.T) {
	c, err := NewCompiler(4)
	require.NoError(t, err)

	_, err1 := c.Compile("[unclosed")
	_, err2 := c.Compile("[unclosed")
	assert.Error(t, err1)
	assert.Equal(t, err1, err2)

	re1, err := c.Compile(`\d+`)
	require.NoError(t, err)
	re2, _ := c.Compile(`\d+`)
	assert.Same(t, re1, re2)
	assert.Equal(t, 2, c.Len())
}
