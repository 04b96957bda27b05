package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfiguration matches every InvalidConfigurationError via errors.Is.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// FilesystemAccessError records a path that could not be read. It is a soft
// failure: the entry is omitted and traversal continues.
type FilesystemAccessError struct {
	Path string // Path that failed
	Op   string // Operation attempted: "walk", "stat", "read"
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *FilesystemAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FilesystemAccessError) Unwrap() error {
	return e.Err
}

// PatternCompileError records a usage pattern whose regex failed to compile.
// The pattern is skipped; the rest of the scan continues.
type PatternCompileError struct {
	Index        int
	SourceSuffix string
	Regex        string
	Err          error
}

// Error implements the error interface.
func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("pattern %d (%s) %q: %v", e.Index, e.SourceSuffix, e.Regex, e.Err)
}

// Unwrap returns the underlying error.
func (e *PatternCompileError) Unwrap() error {
	return e.Err
}

// InvalidConfigurationError is fatal at call time; the operation returns
// before any traversal.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid configuration")
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", e.Field))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	return sb.String()
}

// Is lets errors.Is(err, ErrInvalidConfiguration) succeed.
func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// IsSoft reports whether err is a diagnostic that must not abort a scan.
func IsSoft(err error) bool {
	var fsErr *FilesystemAccessError
	var patErr *PatternCompileError
	return errors.As(err, &fsErr) || errors.As(err, &patErr)
}
