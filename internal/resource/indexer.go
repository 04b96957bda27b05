// Package resource indexes resource files in a project tree.
package resource

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/harrison/unusedres/internal/fileutil"
	"github.com/harrison/unusedres/internal/models"
)

// Logger is the subset of the console logger used here.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// Result is the outcome of one Index call.
type Result struct {
	Resources   map[string]models.ResourceInfo
	Diagnostics []error
	Incomplete  bool
}

// Indexer walks a project tree and builds the name -> ResourceInfo map.
// An Indexer must not be used by two Index calls at once.
type Indexer struct {
	logger    Logger
	resources map[string]models.ResourceInfo
	errors    []error
}

// NewIndexer creates an Indexer. logger may be nil.
func NewIndexer(logger Logger) *Indexer {
	return &Indexer{
		logger:    logger,
		resources: make(map[string]models.ResourceInfo),
	}
}

// Reset clears all indexed state.
func (ix *Indexer) Reset() {
	ix.resources = make(map[string]models.ResourceInfo)
	ix.errors = nil
}

// Resources returns the map built by the last Index call.
func (ix *Indexer) Resources() map[string]models.ResourceInfo {
	return ix.resources
}

// Index walks projectPath and records every resource file, grouped-asset
// folder and suffix-matching directory. Neither kind of directory is
// descended. Names that collide are resolved by the last entry visited.
func (ix *Indexer) Index(ctx context.Context, projectPath string, excludeFolders, resourceSuffixes []string) (*Result, error) {
	if err := models.ValidateProjectPath(projectPath); err != nil {
		return nil, err
	}

	ix.Reset()
	suffixes := models.NormalizeSuffixes(resourceSuffixes)

	walk, err := fileutil.Walk(ctx, projectPath, fileutil.WalkOptions{ExcludeDirs: excludeFolders}, func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			if IsGroupedAssetFolder(path) {
				ix.addContainer(path)
				return filepath.SkipDir
			}
			// A directory named like a resource (Theme.bundle) is one leaf.
			if suffix := MatchSuffix(d.Name(), suffixes); suffix != "" {
				ix.addDirectory(path, StripSuffix(d.Name(), suffix))
				return filepath.SkipDir
			}
			return nil
		}

		suffix := MatchSuffix(d.Name(), suffixes)
		if suffix == "" {
			return nil
		}

		// Stat follows symlinks; a broken link surfaces here.
		info, err := os.Stat(path)
		if err != nil {
			return &models.FilesystemAccessError{Path: path, Op: "stat", Err: err}
		}
		if info.IsDir() {
			return nil
		}
		ix.add(models.ResourceInfo{
			Name:      StripSuffix(d.Name(), suffix),
			Path:      path,
			SizeBytes: uint64(info.Size()),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", projectPath, err)
	}

	ix.errors = append(ix.errors, walk.Errors...)
	for _, e := range ix.errors {
		ix.warn(e.Error())
	}

	return &Result{
		Resources:   ix.resources,
		Diagnostics: ix.errors,
		Incomplete:  walk.Incomplete,
	}, nil
}

func (ix *Indexer) addContainer(dir string) {
	size, errs := fileutil.DirSize(dir)
	ix.errors = append(ix.errors, errs...)
	ix.add(models.ResourceInfo{
		Name:        ContainerName(dir),
		Path:        dir,
		IsContainer: true,
		SizeBytes:   size,
	})
}

func (ix *Indexer) addDirectory(dir, name string) {
	size, errs := fileutil.DirSize(dir)
	ix.errors = append(ix.errors, errs...)
	ix.add(models.ResourceInfo{
		Name:      name,
		Path:      dir,
		SizeBytes: size,
	})
}

func (ix *Indexer) add(info models.ResourceInfo) {
	if prev, ok := ix.resources[info.Name]; ok && ix.logger != nil {
		ix.logger.LogDebug(fmt.Sprintf("resource name %q at %s replaces %s", info.Name, info.Path, prev.Path))
	}
	ix.resources[info.Name] = info
}

func (ix *Indexer) warn(msg string) {
	if ix.logger != nil {
		ix.logger.LogWarn(msg)
	}
}
