package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/unusedres/internal/models"
	"github.com/harrison/unusedres/internal/pattern"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogDir != filepath.Join(".unusedres", "logs") {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, ".unusedres/logs")
	}
	if cfg.MatchSimilarNames {
		t.Errorf("MatchSimilarNames = true, want false")
	}
	if !cfg.ScanMarkdownImages {
		t.Errorf("ScanMarkdownImages = false, want true")
	}
	if cfg.UsagePatterns != nil {
		t.Errorf("UsagePatterns = %v, want nil", cfg.UsagePatterns)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	// Defaults must not alias the package-level slices.
	cfg.ExcludeFolders[0] = "changed"
	if DefaultExcludeFolders[0] == "changed" {
		t.Error("DefaultConfig shares ExcludeFolders with DefaultExcludeFolders")
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `exclude_folders: [vendor, Pods]
resource_suffixes: [png, pdf]
match_similar_names: true
scan_markdown_images: false
log_level: debug
log_dir: /tmp/unusedres-logs
history_db: ""
regex_cache_size: 16
usage_patterns:
  - suffix: swift
    enabled: true
    regex: 'UIImage\(named: "([^"]+)"\)'
    group: 1
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor", "Pods"}, cfg.ExcludeFolders)
	assert.Equal(t, []string{"png", "pdf"}, cfg.ResourceSuffixes)
	assert.True(t, cfg.MatchSimilarNames)
	assert.False(t, cfg.ScanMarkdownImages)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/unusedres-logs", cfg.LogDir)
	assert.Equal(t, "", cfg.HistoryDB, "explicit empty history_db disables history")
	assert.Equal(t, 16, cfg.RegexCacheSize)
	require.Len(t, cfg.UsagePatterns, 1)
	assert.Equal(t, "swift", cfg.UsagePatterns[0].SourceSuffix)
	assert.Equal(t, 1, cfg.UsagePatterns[0].CaptureGroup)
	assert.True(t, cfg.UsagePatterns[0].Enabled)
}

// TestLoadConfigFileNotExists verifies that a missing file yields defaults
func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default", cfg.LogLevel)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log_level: [unclosed\n"), 0644))

	_, err := LoadConfig(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

// TestLoadConfigPartialValues keeps defaults for keys the file omits
func TestLoadConfigPartialValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log_level: warn\n"), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, def.ExcludeFolders, cfg.ExcludeFolders)
	assert.Equal(t, def.ResourceSuffixes, cfg.ResourceSuffixes)
	assert.Equal(t, def.ScanMarkdownImages, cfg.ScanMarkdownImages)
	assert.Equal(t, def.HistoryDB, cfg.HistoryDB)
}

func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	stateDir := filepath.Join(dir, ".unusedres")
	require.NoError(t, os.MkdirAll(stateDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, FileName), []byte("match_similar_names: true\n"), 0644))

	cfg, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.True(t, cfg.MatchSimilarNames)

	cfg, err = LoadConfigFromDir(filepath.Join(dir, "nowhere"))
	require.NoError(t, err)
	assert.False(t, cfg.MatchSimilarNames)
}

func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()

	project := "/work/app"
	exclude := "Pods| vendor ||Pods"
	suffixes := []string{"svg"}
	similar := true
	markdown := false
	level := "trace"
	cfg.MergeWithFlags(&project, &exclude, &suffixes, &similar, &markdown, &level)

	assert.Equal(t, project, cfg.ProjectPath)
	assert.Equal(t, []string{"Pods", "vendor"}, cfg.ExcludeFolders)
	assert.Equal(t, []string{"svg"}, cfg.ResourceSuffixes)
	assert.True(t, cfg.MatchSimilarNames)
	assert.False(t, cfg.ScanMarkdownImages)
	assert.Equal(t, "trace", cfg.LogLevel)
}

func TestMergeWithFlagsNil(t *testing.T) {
	cfg := DefaultConfig()
	before := *cfg

	cfg.MergeWithFlags(nil, nil, nil, nil, nil, nil)

	assert.Equal(t, before.LogLevel, cfg.LogLevel)
	assert.Equal(t, before.ExcludeFolders, cfg.ExcludeFolders)
	assert.Equal(t, before.ResourceSuffixes, cfg.ResourceSuffixes)
	assert.Equal(t, before.ScanMarkdownImages, cfg.ScanMarkdownImages)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "invalid log_level",
		},
		{
			name:    "no suffixes",
			mutate:  func(c *Config) { c.ResourceSuffixes = []string{" "} },
			wantErr: "resource_suffixes",
		},
		{
			name:    "cache size",
			mutate:  func(c *Config) { c.RegexCacheSize = 0 },
			wantErr: "regex_cache_size",
		},
		{
			name: "pattern without suffix",
			mutate: func(c *Config) {
				c.UsagePatterns = []models.UsagePattern{{Enabled: true, Regex: "x", CaptureGroup: 0}}
			},
			wantErr: "usage_patterns[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidation_SuffixErrorIsInvalidConfiguration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResourceSuffixes = nil
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidConfiguration))
}

func TestToSettings(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.ProjectPath = dir
	cfg.ResourceSuffixes = []string{"PNG", "png", "jpg"}
	cfg.ScanMarkdownImages = false

	s, err := cfg.ToSettings()
	require.NoError(t, err)
	assert.Equal(t, dir, s.ProjectPath)
	assert.Equal(t, []string{".png", ".jpg"}, s.ResourceSuffixes)
	assert.False(t, s.ScanMarkdownImages)
	assert.NotEmpty(t, s.UsagePatterns, "built-in patterns are used when none are configured")
	require.NoError(t, s.Validate())

	custom, err := models.NewUsagePattern("txt", true, `"(\w+)"`, 1)
	require.NoError(t, err)
	cfg.UsagePatterns = []models.UsagePattern{custom}
	s, err = cfg.ToSettings()
	require.NoError(t, err)
	assert.Equal(t, []models.UsagePattern{custom}, s.UsagePatterns)

	cfg.UsagePatterns = []models.UsagePattern{{SourceSuffix: "", Enabled: true, Regex: "x", CaptureGroup: 1}}
	_, err = cfg.ToSettings()
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
}

func TestPatternSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResourceSuffixes = []string{"png"}

	set, err := cfg.PatternSet()
	require.NoError(t, err)
	assert.Equal(t, pattern.Defaults([]string{"png"}), set.Patterns())

	cfg.UsagePatterns = []models.UsagePattern{{SourceSuffix: "KT", Enabled: true, Regex: `R\.drawable\.(\w+)`, CaptureGroup: 1}}
	set, err = cfg.PatternSet()
	require.NoError(t, err)
	assert.Equal(t, ".kt", set.Patterns()[0].SourceSuffix, "suffixes are normalized")
}

func TestEditPatterns(t *testing.T) {
	dir := t.TempDir()
	path := PathForDir(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	original := "# project settings\nlog_level: debug\nusage_patterns:\n  - suffix: .m\n    enabled: true\n    regex: x\n    group: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	blade := models.UsagePattern{SourceSuffix: "blade.php", Enabled: false, Regex: `asset\('(\w+)'\)`, CaptureGroup: 1}
	set, err := EditPatterns(dir, func(s *pattern.Set) error {
		return s.Add(blade)
	})
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# project settings")

	cfg, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.UsagePatterns, 2)
	assert.Equal(t, ".m", cfg.UsagePatterns[0].SourceSuffix)
	assert.Equal(t, ".blade.php", cfg.UsagePatterns[1].SourceSuffix)
	assert.False(t, cfg.UsagePatterns[1].Enabled)
}

func TestEditPatterns_MaterializesDefaults(t *testing.T) {
	dir := t.TempDir()

	set, err := EditPatterns(dir, func(s *pattern.Set) error {
		return s.SetEnabled(0, false)
	})
	require.NoError(t, err)

	cfg, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, set.Patterns(), cfg.UsagePatterns)
	assert.Len(t, cfg.UsagePatterns, len(pattern.Defaults(DefaultResourceSuffixes)))
	assert.False(t, cfg.UsagePatterns[0].Enabled)
}

func TestEditPatterns_FailedEditWritesNothing(t *testing.T) {
	dir := t.TempDir()

	_, err := EditPatterns(dir, func(s *pattern.Set) error {
		return s.Remove(s.Len())
	})
	require.Error(t, err)
	assert.NoFileExists(t, PathForDir(dir))
}

func TestResolvePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProjectPath = "/work/app"

	assert.Equal(t, filepath.Join("/work/app", ".unusedres", "logs"), cfg.ResolvePath(cfg.LogDir))
	assert.Equal(t, "/var/log/x", cfg.ResolvePath("/var/log/x"))
	assert.Equal(t, "", cfg.ResolvePath(""))
}
