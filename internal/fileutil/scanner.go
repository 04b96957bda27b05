package fileutil

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/harrison/unusedres/internal/models"
)

// WalkOptions configures Walk
type WalkOptions struct {
	// ExcludeDirs is a list of directory names pruned wherever they appear
	ExcludeDirs []string
}

// WalkResult describes how a walk ended
type WalkResult struct {
	// Errors contains non-fatal errors encountered while walking
	Errors []error
	// Visited is the number of entries handed to the visitor
	Visited int
	// Incomplete is true when the context was cancelled before the walk finished
	Incomplete bool
}

// VisitFunc is called for every entry that survives exclusion. Returning
// filepath.SkipDir for a directory prunes it. Any other non-nil error is
// recorded as a non-fatal error for that path.
type VisitFunc func(path string, d fs.DirEntry) error

// Walk traverses root in lexical order, pruning excluded directories and
// collecting access errors instead of stopping.
func Walk(ctx context.Context, root string, opts WalkOptions, visit VisitFunc) (*WalkResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	result := &WalkResult{
		Errors: make([]error, 0),
	}

	excludeMap := make(map[string]bool, len(opts.ExcludeDirs))
	for _, dir := range opts.ExcludeDirs {
		excludeMap[dir] = true
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			result.Incomplete = true
			return filepath.SkipAll
		}

		if walkErr != nil {
			result.Errors = append(result.Errors, &models.FilesystemAccessError{Path: path, Op: "walk", Err: walkErr})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil // Continue walking
		}

		// Skip the root directory itself
		if path == root {
			return nil
		}

		if d.IsDir() && excludeMap[d.Name()] {
			return filepath.SkipDir
		}

		result.Visited++
		if err := visit(path, d); err != nil {
			if err == filepath.SkipDir {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			result.Errors = append(result.Errors, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return result, nil
}

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Extensions is a list of file extensions to include (e.g., ".m", "swift").
	// Empty means every file.
	Extensions []string
	// ExcludeDirs is a list of directory names to exclude (e.g., "Pods", ".git")
	ExcludeDirs []string
	// SkipDir prunes additional directories by full path when it returns true
	SkipDir func(path string) bool
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the absolute paths of all matched files
	Files []string
	// Errors contains any errors encountered during scanning
	Errors []error
	// Incomplete is true when the scan was cancelled
	Incomplete bool
}

// ScanDirectory scans a directory for files matching the provided options
func ScanDirectory(ctx context.Context, dir string, opts ScanOptions) (*ScanResult, error) {
	// Suffixes may span several dots (".blade.php"), so match on the name
	// rather than filepath.Ext.
	extensions := models.NormalizeSuffixes(opts.Extensions)

	files := make([]string, 0)
	walk, err := Walk(ctx, dir, WalkOptions{ExcludeDirs: opts.ExcludeDirs}, func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			if opts.SkipDir != nil && opts.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if len(extensions) > 0 && !hasAnySuffix(d.Name(), extensions) {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			return &models.FilesystemAccessError{Path: path, Op: "resolve", Err: err}
		}
		files = append(files, absPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort files for consistent output
	sort.Strings(files)

	return &ScanResult{
		Files:      files,
		Errors:     walk.Errors,
		Incomplete: walk.Incomplete,
	}, nil
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if models.HasFileSuffix(name, s) {
			return true
		}
	}
	return false
}

// DirSize returns the recursive sum of file sizes under dir. Symlinks are
// counted by their own size and not followed.
func DirSize(dir string) (uint64, []error) {
	var total uint64
	var errs []error
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, &models.FilesystemAccessError{Path: path, Op: "walk", Err: err})
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			errs = append(errs, &models.FilesystemAccessError{Path: path, Op: "stat", Err: err})
			return nil
		}
		if info.Size() > 0 {
			total += uint64(info.Size())
		}
		return nil
	})
	return total, errs
}
