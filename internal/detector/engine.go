// Package detector runs the resource indexer and usage scanner over one
// project and classifies every indexed resource as used or unused.
package detector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harrison/unusedres/internal/models"
	"github.com/harrison/unusedres/internal/pattern"
	"github.com/harrison/unusedres/internal/resource"
	"github.com/harrison/unusedres/internal/similarity"
	"github.com/harrison/unusedres/internal/usage"
)

// Logger is the logging surface the engine needs.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
}

type progressLogger interface {
	LogProgress(done, total int)
}

// Outcome carries the result of DetectAsync.
type Outcome struct {
	Report *models.DetectionReport
	Err    error
}

// Engine orchestrates one detection at a time. Use separate engines for
// concurrent detections.
type Engine struct {
	logger   Logger
	compiler *pattern.Compiler
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCompiler shares a regex cache across engines.
func WithCompiler(c *pattern.Compiler) Option {
	return func(e *Engine) { e.compiler = c }
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.compiler == nil {
		c, err := pattern.NewCompiler(pattern.DefaultCacheSize)
		if err != nil {
			return nil, err
		}
		e.compiler = c
	}
	return e, nil
}

// Detect indexes resources and scans for usages concurrently, then builds
// the unused-resource report. Invalid settings are returned immediately
// without touching the filesystem beyond validating the root.
func (e *Engine) Detect(ctx context.Context, settings *models.Settings) (*models.DetectionReport, error) {
	if settings == nil {
		return nil, &models.InvalidConfigurationError{Reason: "settings cannot be nil"}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	start := e.now()
	e.info(fmt.Sprintf("Scanning %s", settings.ProjectPath))

	indexer := resource.NewIndexer(e.logger)
	scanOpts := []usage.Option{
		usage.WithLogger(e.logger),
		usage.WithCompiler(e.compiler),
		usage.WithMarkdownImages(settings.ScanMarkdownImages),
	}
	if p, ok := e.logger.(progressLogger); ok {
		scanOpts = append(scanOpts, usage.WithProgress(p.LogProgress))
	}
	scanner, err := usage.NewScanner(scanOpts...)
	if err != nil {
		return nil, err
	}

	var (
		wg       sync.WaitGroup
		indexed  *resource.Result
		scanned  *usage.Result
		indexErr error
		scanErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		indexed, indexErr = indexer.Index(ctx, settings.ProjectPath, settings.ExcludeFolders, settings.ResourceSuffixes)
	}()
	go func() {
		defer wg.Done()
		scanned, scanErr = scanner.Scan(ctx, settings.ProjectPath, settings.ExcludeFolders, settings.ResourceSuffixes, settings.UsagePatterns)
	}()
	wg.Wait()

	if indexErr != nil {
		return nil, fmt.Errorf("index resources: %w", indexErr)
	}
	if scanErr != nil {
		return nil, fmt.Errorf("scan usages: %w", scanErr)
	}

	var matcher *similarity.Matcher
	if settings.MatchSimilarNames {
		matcher = similarity.NewMatcher(scanned.Names)
		e.debug(fmt.Sprintf("%d usage templates for similar-name matching", matcher.TemplateCount()))
	}
	report := classify(indexed.Resources, scanned.Names, matcher)
	report.Incomplete = indexed.Incomplete || scanned.Incomplete
	report.Diagnostics = append(append([]error(nil), indexed.Diagnostics...), scanned.Diagnostics...)
	report.Duration = e.now().Sub(start)

	e.debug(fmt.Sprintf("%d resources, %d referenced names, %d diagnostics",
		report.ResourceCount, report.UsageCount, len(report.Diagnostics)))
	if report.Incomplete {
		e.warn("detection was cancelled; the report is incomplete")
	}
	e.info(fmt.Sprintf("Found %d unused resources", len(report.Unused)))
	return report, nil
}

// DetectAsync runs Detect in a goroutine. The channel receives exactly one
// Outcome and is then closed.
func (e *Engine) DetectAsync(ctx context.Context, settings *models.Settings) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		report, err := e.Detect(ctx, settings)
		ch <- Outcome{Report: report, Err: err}
	}()
	return ch
}

// Classify builds a report from an index and a usage set. A resource is
// used when its name is referenced, or, with matchSimilar, when its numeric
// template is.
func Classify(resources map[string]models.ResourceInfo, names map[string]struct{}, matchSimilar bool) *models.DetectionReport {
	var matcher *similarity.Matcher
	if matchSimilar {
		matcher = similarity.NewMatcher(names)
	}
	return classify(resources, names, matcher)
}

// classify skips template matching when matcher is nil.
func classify(resources map[string]models.ResourceInfo, names map[string]struct{}, matcher *similarity.Matcher) *models.DetectionReport {
	report := &models.DetectionReport{
		Unused:        make([]models.ResourceInfo, 0),
		ResourceCount: len(resources),
		UsageCount:    len(names),
	}
	for name, info := range resources {
		if _, used := names[name]; used {
			continue
		}
		if matcher != nil && matcher.Matches(name) {
			continue
		}
		report.Unused = append(report.Unused, info)
		report.UnusedBytes += info.SizeBytes
	}
	models.SortResources(report.Unused)
	return report
}

func (e *Engine) info(msg string) {
	if e.logger != nil {
		e.logger.LogInfo(msg)
	}
}

func (e *Engine) warn(msg string) {
	if e.logger != nil {
		e.logger.LogWarn(msg)
	}
}

func (e *Engine) debug(msg string) {
	if e.logger != nil {
		e.logger.LogDebug(msg)
	}
}
