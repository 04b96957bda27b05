package resource

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/harrison/unusedres/internal/models"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".tif": true, ".tiff": true, ".heic": true, ".webp": true, ".pdf": true,
	".svg": true, ".ico": true, ".icns": true,
}

// scaleMarkers are device-scale tags appended to image base names.
var scaleMarkers = []string{"@3x", "@2x", "@1x"}

// IsImageType reports whether name (a file name or bare extension) has an
// image extension.
func IsImageType(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = models.NormalizeSuffix(name)
	}
	return imageExtensions[ext]
}

// MatchSuffix returns the configured suffix that name ends with, or "".
// The longest match wins so ".9.png" beats ".png".
func MatchSuffix(name string, suffixes []string) string {
	lower := strings.ToLower(name)
	best := ""
	for _, s := range suffixes {
		if len(s) > len(best) && len(lower) > len(s) && strings.HasSuffix(lower, s) {
			best = s
		}
	}
	return best
}

// StripSuffix removes a matched suffix and, for image suffixes, a trailing
// scale marker: "icon@2x.png" becomes "icon".
func StripSuffix(name, suffix string) string {
	if suffix == "" {
		return name
	}
	name = name[:len(name)-len(suffix)]
	if IsImageType(suffix) {
		for _, m := range scaleMarkers {
			if strings.HasSuffix(name, m) && len(name) > len(m) {
				name = strings.TrimSuffix(name, m)
				break
			}
		}
	}
	return name
}

// CanonicalName reduces a reference or file name to the key used in the
// index: last path component, without any configured resource suffix.
func CanonicalName(ref string, suffixes []string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	ref = path.Base(filepath.ToSlash(ref))
	if ref == "." || ref == "/" {
		return ""
	}
	return StripSuffix(ref, MatchSuffix(ref, suffixes))
}
