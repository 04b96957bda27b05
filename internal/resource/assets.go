package resource

import (
	"os"
	"path/filepath"
	"strings"
)

// ManifestName is the metadata file Xcode writes into every asset folder.
const ManifestName = "Contents.json"

var groupedAssetExtensions = map[string]bool{
	".imageset":    true,
	".appiconset":  true,
	".launchimage": true,
	".stickerpack": true,
}

// IsGroupedAssetFolder reports whether dir is a grouped-asset container: its
// extension is one of the asset-catalog folder kinds and every direct child
// is a regular image file or the manifest. An empty asset folder qualifies.
func IsGroupedAssetFolder(dir string) bool {
	if !groupedAssetExtensions[strings.ToLower(filepath.Ext(dir))] {
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			return false
		}
		if e.Name() == ManifestName || IsImageType(e.Name()) {
			continue
		}
		return false
	}
	return true
}

// ContainerName is the index key for a grouped-asset folder.
func ContainerName(dir string) string {
	base := filepath.Base(dir)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
