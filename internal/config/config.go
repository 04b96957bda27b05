package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harrison/unusedres/internal/filelock"
	"github.com/harrison/unusedres/internal/logger"
	"github.com/harrison/unusedres/internal/models"
	"github.com/harrison/unusedres/internal/pattern"
)

// FileName is the config file name inside the project state directory.
const FileName = "config.yaml"

// Config represents unusedres configuration options
type Config struct {
	// ProjectPath is the root of the tree to scan. Usually given on the command line.
	ProjectPath string `yaml:"project_path"`

	// ExcludeFolders are directory names pruned from both walks
	ExcludeFolders []string `yaml:"exclude_folders"`

	// ResourceSuffixes are the file extensions treated as resources
	ResourceSuffixes []string `yaml:"resource_suffixes"`

	// UsagePatterns overrides the built-in patterns when non-empty
	UsagePatterns []models.UsagePattern `yaml:"usage_patterns"`

	// MatchSimilarNames enables numbered-family matching
	MatchSimilarNames bool `yaml:"match_similar_names"`

	// ScanMarkdownImages collects image and link targets from markdown files
	ScanMarkdownImages bool `yaml:"scan_markdown_images"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is where run logs are written; relative paths are under the project
	LogDir string `yaml:"log_dir"`

	// HistoryDB is the sqlite file for run history; relative paths are under the project
	HistoryDB string `yaml:"history_db"`

	// RegexCacheSize bounds the compiled pattern cache
	RegexCacheSize int `yaml:"regex_cache_size"`
}

// DefaultExcludeFolders are folders that never hold project-owned resources.
var DefaultExcludeFolders = []string{filelock.StateDir, ".git", "Pods", "Carthage", "build", "DerivedData", "node_modules"}

// DefaultResourceSuffixes are the image types scanned when none are configured.
var DefaultResourceSuffixes = []string{"png", "jpg", "jpeg", "gif", "pdf", "svg", "webp"}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		ExcludeFolders:     append([]string(nil), DefaultExcludeFolders...),
		ResourceSuffixes:   append([]string(nil), DefaultResourceSuffixes...),
		UsagePatterns:      nil, // built-in defaults
		MatchSimilarNames:  false,
		ScanMarkdownImages: true,
		LogLevel:           "info",
		LogDir:             filepath.Join(filelock.StateDir, "logs"),
		HistoryDB:          filepath.Join(filelock.StateDir, "history.db"),
		RegexCacheSize:     pattern.DefaultCacheSize,
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parseConfig(data)
}

// parseConfig decodes data over DefaultConfig. Empty data yields the defaults.
func parseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	// Decode over the defaults so absent keys keep their default values.
	// Booleans need the raw map to tell "false" from "missing".
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.ProjectPath != "" {
		cfg.ProjectPath = fileCfg.ProjectPath
	}
	if _, exists := rawMap["exclude_folders"]; exists {
		cfg.ExcludeFolders = fileCfg.ExcludeFolders
	}
	if len(fileCfg.ResourceSuffixes) > 0 {
		cfg.ResourceSuffixes = fileCfg.ResourceSuffixes
	}
	if len(fileCfg.UsagePatterns) > 0 {
		cfg.UsagePatterns = fileCfg.UsagePatterns
	}
	if _, exists := rawMap["match_similar_names"]; exists {
		cfg.MatchSimilarNames = fileCfg.MatchSimilarNames
	}
	if _, exists := rawMap["scan_markdown_images"]; exists {
		cfg.ScanMarkdownImages = fileCfg.ScanMarkdownImages
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if _, exists := rawMap["history_db"]; exists {
		// Explicitly set history_db, even if empty string
		cfg.HistoryDB = fileCfg.HistoryDB
	}
	if fileCfg.RegexCacheSize != 0 {
		cfg.RegexCacheSize = fileCfg.RegexCacheSize
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .unusedres/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(PathForDir(dir))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(projectPath *string, exclude *string, suffixes *[]string, matchSimilar *bool, markdown *bool, logLevel *string) {
	if projectPath != nil {
		c.ProjectPath = *projectPath
	}
	if exclude != nil {
		c.ExcludeFolders = models.ParseExcludeFolders(*exclude)
	}
	if suffixes != nil {
		c.ResourceSuffixes = *suffixes
	}
	if matchSimilar != nil {
		c.MatchSimilarNames = *matchSimilar
	}
	if markdown != nil {
		c.ScanMarkdownImages = *markdown
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if len(models.NormalizeSuffixes(c.ResourceSuffixes)) == 0 {
		return &models.InvalidConfigurationError{Field: "resource_suffixes", Reason: "at least one resource suffix is required"}
	}

	if c.RegexCacheSize <= 0 {
		return fmt.Errorf("regex_cache_size must be > 0, got %d", c.RegexCacheSize)
	}

	for i, p := range c.UsagePatterns {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("usage_patterns[%d]: %w", i, err)
		}
	}

	return nil
}

// PatternSet returns the effective usage patterns as a validated set: the
// configured ones, or the built-ins for the configured suffixes when none are
// configured.
func (c *Config) PatternSet() (*pattern.Set, error) {
	patterns := c.UsagePatterns
	if len(patterns) == 0 {
		patterns = pattern.Defaults(c.ResourceSuffixes)
	}
	set, err := pattern.NewSet(patterns)
	if err != nil {
		return nil, fmt.Errorf("usage_patterns: %w", err)
	}
	return set, nil
}

// ToSettings builds the snapshot handed to the detection engine.
func (c *Config) ToSettings() (*models.Settings, error) {
	set, err := c.PatternSet()
	if err != nil {
		return nil, err
	}
	s := models.NewSettings(c.ProjectPath, c.ExcludeFolders, c.ResourceSuffixes, set.Patterns(), c.MatchSimilarNames)
	s.ScanMarkdownImages = c.ScanMarkdownImages
	return s, nil
}

// PathForDir returns the config file location for a project directory.
func PathForDir(dir string) string {
	return filepath.Join(dir, filelock.StateDir, FileName)
}

// EditPatterns loads the effective usage patterns of the project in dir,
// applies edit and writes the result back as the usage_patterns key of
// .unusedres/config.yaml. The whole read-modify-write holds the config lock.
// Other keys and comments in the file are preserved. A failed edit writes
// nothing.
func EditPatterns(dir string, edit func(set *pattern.Set) error) (*pattern.Set, error) {
	path := PathForDir(dir)
	var set *pattern.Set
	err := filelock.Update(path, func(current []byte) ([]byte, error) {
		cfg, err := parseConfig(current)
		if err != nil {
			return nil, err
		}
		set, err = cfg.PatternSet()
		if err != nil {
			return nil, err
		}
		if err := edit(set); err != nil {
			return nil, err
		}
		return replacePatterns(current, set)
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// replacePatterns sets the usage_patterns key of a YAML document.
func replacePatterns(data []byte, set *pattern.Set) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(doc.Content) == 0 {
		doc.Kind = yaml.DocumentNode
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config file top level must be a mapping")
	}

	var value yaml.Node
	if err := value.Encode(set.Patterns()); err != nil {
		return nil, fmt.Errorf("encode usage_patterns: %w", err)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "usage_patterns" {
			root.Content[i+1] = &value
			return yaml.Marshal(&doc)
		}
	}
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "usage_patterns"}
	root.Content = append(root.Content, key, &value)
	return yaml.Marshal(&doc)
}

// ResolvePath anchors a relative state path under the project root.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectPath, p)
}
