package fileutil

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/harrison/unusedres/internal/models"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for f, content := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   main.m
	//   View.swift
	//   Setup.M
	//   notes.txt
	//   Sources/
	//     Cell.m
	//     Pods/
	//       Vendor.m
	//   Pods/
	//     Lib.swift
	//   Build/
	//     Gen.m
	//   Assets.xcassets/
	//     Logo.imageset/
	//       Contents.json
	writeTree(t, tmpDir, map[string]string{
		"main.m":                "x",
		"View.swift":            "x",
		"Setup.M":               "x",
		"notes.txt":             "x",
		"Sources/Cell.m":        "x",
		"Sources/Pods/Vendor.m": "x",
		"Pods/Lib.swift":        "x",
		"Build/Gen.m":           "x",
		"Assets.xcassets/Logo.imageset/Contents.json": "{}",
	})

	tests := []struct {
		name          string
		opts          ScanOptions
		wantFileNames []string
	}{
		{
			name: "all files",
			opts: ScanOptions{},
			wantFileNames: []string{
				"main.m", "View.swift", "Setup.M", "notes.txt", "Cell.m",
				"Vendor.m", "Lib.swift", "Gen.m", "Contents.json",
			},
		},
		{
			name:          "case-insensitive extension without dot",
			opts:          ScanOptions{Extensions: []string{"M"}},
			wantFileNames: []string{"main.m", "Setup.M", "Cell.m", "Vendor.m", "Gen.m"},
		},
		{
			name: "exclude folders at any depth",
			opts: ScanOptions{
				Extensions:  []string{".m", ".swift"},
				ExcludeDirs: []string{"Pods", "Build"},
			},
			wantFileNames: []string{"main.m", "View.swift", "Setup.M", "Cell.m"},
		},
		{
			name: "skip predicate prunes directories",
			opts: ScanOptions{
				SkipDir:     func(path string) bool { return strings.HasSuffix(path, ".imageset") },
				ExcludeDirs: []string{"Pods", "Build", "Sources"},
			},
			wantFileNames: []string{"main.m", "View.swift", "Setup.M", "notes.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(context.Background(), tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("ScanDirectory() error = %v", err)
			}
			if len(result.Errors) != 0 {
				t.Errorf("ScanDirectory() errors = %v, want none", result.Errors)
			}
			if result.Incomplete {
				t.Error("ScanDirectory() reported incomplete scan")
			}

			gotMap := make(map[string]bool)
			for _, path := range result.Files {
				if !filepath.IsAbs(path) {
					t.Errorf("ScanDirectory() returned relative path: %s", path)
				}
				gotMap[filepath.Base(path)] = true
			}

			if len(result.Files) != len(tt.wantFileNames) {
				t.Errorf("ScanDirectory() file count = %d, want %d", len(result.Files), len(tt.wantFileNames))
				t.Logf("got: %v", result.Files)
				t.Logf("want: %v", tt.wantFileNames)
				return
			}
			for _, want := range tt.wantFileNames {
				if !gotMap[want] {
					t.Errorf("ScanDirectory() missing expected file: %s", want)
				}
			}
		})
	}
}

func TestScanDirectory_MultiDotSuffix(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"views/welcome.blade.php": "x",
		"views/index.php":         "x",
		"res/button.9.xml":        "x",
		"res/strings.xml":         "x",
	})

	result, err := ScanDirectory(context.Background(), tmpDir, ScanOptions{Extensions: []string{"blade.php", ".9.xml"}})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}

	var got []string
	for _, path := range result.Files {
		got = append(got, filepath.Base(path))
	}
	want := []string{"button.9.xml", "welcome.blade.php"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ScanDirectory() files = %v, want %v", got, want)
	}
}
func TestScanDirectory_SortedOutput(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"zebra.m": "x", "apple.m": "x", "mango.m": "x", "banana.m": "x",
	})

	result, err := ScanDirectory(context.Background(), tmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}

	wantNames := []string{"apple.m", "banana.m", "mango.m", "zebra.m"}
	if len(result.Files) != len(wantNames) {
		t.Fatalf("expected %d files, got %d", len(wantNames), len(result.Files))
	}
	for i, want := range wantNames {
		if got := filepath.Base(result.Files[i]); got != want {
			t.Errorf("files[%d] = %s, want %s", i, got, want)
		}
	}
}

func TestScanDirectory_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func() string
		wantErr string
	}{
		{
			name:    "non-existent directory",
			setup:   func() string { return "/nonexistent/directory/path" },
			wantErr: "failed to access directory",
		},
		{
			name: "path is a file not directory",
			setup: func() string {
				filePath := filepath.Join(t.TempDir(), "file.txt")
				if err := os.WriteFile(filePath, []byte("test"), 0644); err != nil {
					t.Fatalf("failed to create file: %v", err)
				}
				return filePath
			},
			wantErr: "path is not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(context.Background(), tt.setup(), ScanOptions{})
			if err == nil {
				t.Fatalf("ScanDirectory() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ScanDirectory() error = %v, want error containing %q", err, tt.wantErr)
			}
			if result != nil {
				t.Errorf("ScanDirectory() expected nil result on error, got %+v", result)
			}
		})
	}
}

func TestWalk_Cancelled(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"a.m": "x", "b.m": "x", "c/d.m": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	visited := 0
	result, err := Walk(ctx, tmpDir, WalkOptions{}, func(path string, d fs.DirEntry) error {
		visited++
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if !result.Incomplete {
		t.Error("Walk() with cancelled context should be incomplete")
	}
	if visited != 0 {
		t.Errorf("Walk() visited %d entries after cancellation, want 0", visited)
	}
}

func TestWalk_CancelMidway(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"a.m": "x", "b.m": "x", "c.m": "x", "d.m": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	visited := 0
	result, err := Walk(ctx, tmpDir, WalkOptions{}, func(path string, d fs.DirEntry) error {
		visited++
		if visited == 2 {
			cancel()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if !result.Incomplete {
		t.Error("Walk() should report incomplete after cancel")
	}
	if visited != 2 {
		t.Errorf("Walk() visited = %d, want 2", visited)
	}
}

func TestWalk_UnreadableDirectoryIsSoft(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"ok.m": "x", "locked/hidden.m": "x"})
	locked := filepath.Join(tmpDir, "locked")
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer os.Chmod(locked, 0755)

	result, err := ScanDirectory(context.Background(), tmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if len(result.Files) != 1 || filepath.Base(result.Files[0]) != "ok.m" {
		t.Errorf("ScanDirectory() files = %v, want [ok.m]", result.Files)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("ScanDirectory() errors = %v, want 1", result.Errors)
	}
	var fsErr *models.FilesystemAccessError
	if !errors.As(result.Errors[0], &fsErr) {
		t.Errorf("error type = %T, want *models.FilesystemAccessError", result.Errors[0])
	}
}

func TestDirSize(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"a.png":     strings.Repeat("a", 10),
		"b.png":     strings.Repeat("b", 20),
		"sub/c.png": strings.Repeat("c", 30),
	})

	size, errs := DirSize(tmpDir)
	if len(errs) != 0 {
		t.Errorf("DirSize() errors = %v", errs)
	}
	if size != 60 {
		t.Errorf("DirSize() = %d, want 60", size)
	}
}
