// Package fileutil provides the exclusion-aware directory traversal shared by
// the resource indexer and the usage scanner.
//
// # Purpose
//
// Both sides of a detection run must agree on which parts of a project tree
// exist. This package is the single place that decides:
//   - which directories are pruned (exact folder-name match, at any depth)
//   - how unreadable entries are reported (collected, never fatal)
//   - when a walk stops early (context cancellation, checked between entries)
//
// # Main Components
//
// Walk - visits every entry under a root that is not beneath an excluded
// folder. The visitor can prune a directory by returning filepath.SkipDir.
//
// ScanDirectory - collects files by extension on top of Walk, with an
// optional predicate to prune extra directories (grouped-asset folders).
//
// DirSize - recursive byte count of a directory tree.
//
// # Error Tolerance
//
// Permission errors, broken symlinks and vanished files are recorded as
// *models.FilesystemAccessError values in the result and the walk continues.
// Only an unusable root is a fatal error.
//
// # Cancellation
//
// The context is checked before each entry. A cancelled walk returns what it
// has visited so far with Incomplete set, never an error.
//
// # Usage Examples
//
// Collect Swift and Objective-C sources, skipping Pods at any depth:
//
//	result, err := fileutil.ScanDirectory(ctx, "/path/to/app", fileutil.ScanOptions{
//	    Extensions:  []string{".swift", ".m"},
//	    ExcludeDirs: []string{"Pods"},
//	})
//	if err != nil {
//	    return err
//	}
//	for _, e := range result.Errors {
//	    log.Printf("skipped: %v", e)
//	}
package fileutil
