// Package usage scans source files for textual references to resource names.
package usage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/harrison/unusedres/internal/fileutil"
	"github.com/harrison/unusedres/internal/models"
	"github.com/harrison/unusedres/internal/pattern"
	"github.com/harrison/unusedres/internal/resource"
)

// Logger is the subset of the console logger used here.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// Result is the outcome of one Scan call.
type Result struct {
	Names        map[string]struct{}
	Diagnostics  []error
	Incomplete   bool
	FilesScanned int
}

// Contains reports whether name was referenced.
func (r *Result) Contains(name string) bool {
	_, ok := r.Names[name]
	return ok
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// WithCompiler shares a regex cache between scanners.
func WithCompiler(c *pattern.Compiler) Option {
	return func(s *Scanner) { s.compiler = c }
}

// WithMarkdownImages enables goldmark extraction of image and link
// destinations from .md and .markdown files.
func WithMarkdownImages(enabled bool) Option {
	return func(s *Scanner) { s.markdown = enabled }
}

// WithProgress reports (files read, files to read) every progressInterval
// files and once at the end.
func WithProgress(fn func(done, total int)) Option {
	return func(s *Scanner) { s.progress = fn }
}

const progressInterval = 200

// Scanner extracts the set of referenced resource names from a tree.
// A Scanner must not be used by two Scan calls at once.
type Scanner struct {
	logger   Logger
	compiler *pattern.Compiler
	markdown bool
	progress func(done, total int)
	names    map[string]struct{}
}

// NewScanner creates a Scanner.
func NewScanner(opts ...Option) (*Scanner, error) {
	s := &Scanner{names: make(map[string]struct{})}
	for _, opt := range opts {
		opt(s)
	}
	if s.compiler == nil {
		c, err := pattern.NewCompiler(pattern.DefaultCacheSize)
		if err != nil {
			return nil, err
		}
		s.compiler = c
	}
	return s, nil
}

// Reset clears the accumulated names.
func (s *Scanner) Reset() {
	s.names = make(map[string]struct{})
}

// Names returns the set built by the last Scan call.
func (s *Scanner) Names() map[string]struct{} {
	return s.names
}

type compiledPattern struct {
	index int
	p     models.UsagePattern
	re    *regexp.Regexp
}

// Scan walks projectPath and applies every enabled pattern whose suffix
// matches each file. Bad regexes and unreadable files become diagnostics.
func (s *Scanner) Scan(ctx context.Context, projectPath string, excludeFolders, resourceSuffixes []string, patterns []models.UsagePattern) (*Result, error) {
	if err := models.ValidateProjectPath(projectPath); err != nil {
		return nil, err
	}

	s.Reset()
	suffixes := models.NormalizeSuffixes(resourceSuffixes)
	var diags []error

	set, err := pattern.NewSet(patterns)
	if err != nil {
		return nil, err
	}

	// Compile once per scan; a failure drops that pattern for the whole scan.
	compiled := make(map[int]compiledPattern)
	for i, p := range set.Patterns() {
		if !p.Enabled {
			continue
		}
		re, err := s.compiler.Compile(p.Regex)
		if err != nil {
			perr := &models.PatternCompileError{Index: i, SourceSuffix: p.SourceSuffix, Regex: p.Regex, Err: err}
			diags = append(diags, perr)
			s.warn(perr.Error())
			continue
		}
		compiled[i] = compiledPattern{index: i, p: p, re: re}
	}

	var extensions []string
	for _, ext := range set.SourceSuffixes() {
		for _, cp := range compiled {
			if cp.p.SourceSuffix == ext {
				extensions = append(extensions, ext)
				break
			}
		}
	}
	if s.markdown {
		extensions = append(extensions, markdownExtensions...)
	}
	s.debug(fmt.Sprintf("%d usage patterns compiled, %d regexes cached", len(compiled), s.compiler.Len()))

	if len(extensions) == 0 {
		s.debug("no enabled usage patterns; nothing to scan")
		return &Result{Names: s.names, Diagnostics: diags}, nil
	}

	files, err := fileutil.ScanDirectory(ctx, projectPath, fileutil.ScanOptions{
		Extensions:  extensions,
		ExcludeDirs: excludeFolders,
		SkipDir:     resource.IsGroupedAssetFolder,
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", projectPath, err)
	}
	diags = append(diags, files.Errors...)

	result := &Result{Names: s.names, Incomplete: files.Incomplete}
	total := len(files.Files)
	for i, path := range files.Files {
		if ctx.Err() != nil {
			result.Incomplete = true
			break
		}
		if s.progress != nil && i > 0 && i%progressInterval == 0 {
			s.progress(i, total)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			ferr := &models.FilesystemAccessError{Path: path, Op: "read", Err: err}
			diags = append(diags, ferr)
			s.warn(ferr.Error())
			continue
		}
		result.FilesScanned++
		content := string(data)

		name := filepath.Base(path)
		for _, i := range set.For(name) {
			if cp, ok := compiled[i]; ok {
				s.apply(cp, content, suffixes)
			}
		}
		if s.markdown && isMarkdown(name) {
			for _, ref := range MarkdownReferences(data) {
				s.insert(ref, suffixes)
			}
		}
	}

	if s.progress != nil && !result.Incomplete {
		s.progress(total, total)
	}
	result.Diagnostics = diags
	s.debug(fmt.Sprintf("scanned %d files, %d referenced names", result.FilesScanned, len(s.names)))
	return result, nil
}

// apply runs one pattern over content and records every captured name.
// Matches whose capture group did not participate are discarded.
func (s *Scanner) apply(cp compiledPattern, content string, suffixes []string) {
	group := cp.p.CaptureGroup
	if group > cp.re.NumSubexp() {
		return
	}
	for _, loc := range cp.re.FindAllStringSubmatchIndex(content, -1) {
		start, end := loc[2*group], loc[2*group+1]
		if start < 0 || end < 0 {
			continue
		}
		s.insert(content[start:end], suffixes)
	}
}

func (s *Scanner) insert(ref string, suffixes []string) {
	if name := resource.CanonicalName(ref, suffixes); name != "" {
		s.names[name] = struct{}{}
	}
}

func (s *Scanner) warn(msg string) {
	if s.logger != nil {
		s.logger.LogWarn(msg)
	}
}

func (s *Scanner) debug(msg string) {
	if s.logger != nil {
		s.logger.LogDebug(msg)
	}
}
