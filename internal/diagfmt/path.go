package diagfmt

import (
	"path"
	"path/filepath"
	"strings"
)

func formatPath(url string, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if filepath.IsAbs(url) || baseDir == "" {
			return url
		}
		return filepath.Join(baseDir, filepath.FromSlash(url))
	case PathModeRelative:
		if baseDir == "" || !filepath.IsAbs(url) {
			return url
		}
		if rel, err := filepath.Rel(baseDir, url); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
		return url
	case PathModeBasename:
		return path.Base(url)
	default:
		return url
	}
}
