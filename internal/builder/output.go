package builder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docsmith/internal/cache"
	"git.home.luguber.info/inful/docsmith/internal/manifest"
)

const (
	contentDirName = "content"
	staticDirName  = "static"
	manifestName   = "site-manifest.json"
)

// EnsureOutputDirs creates the content and static directories under the
// build root.
func EnsureOutputDirs(root string) error {
	for _, dir := range []string{contentDirName, staticDirName} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	return nil
}

// CleanOutput removes and recreates the transient output directories.
// Missing output is tolerated.
func CleanOutput(root string) error {
	for _, dir := range []string{contentDirName, staticDirName} {
		path := filepath.Join(root, dir)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("remove output dir %s: %w", path, err)
		}
	}
	return EnsureOutputDirs(root)
}

// ManifestPath returns the site manifest location under the build root.
func ManifestPath(root string) string {
	return filepath.Join(root, manifestName)
}

// WriteManifest serializes the manifest once, after all project builds have
// settled.
func WriteManifest(root string, m *manifest.SiteManifest) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(ManifestPath(root), data, 0o644); err != nil {
		return fmt.Errorf("write site manifest: %w", err)
	}
	return nil
}

// writePage writes one processed page under content/<project>/<slug>.json.
func writePage(root, projectSlug string, result *cache.Result) error {
	dir := filepath.Join(root, contentDirName, projectSlug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create project output dir: %w", err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal page %s: %w", result.Slug, err)
	}
	path := filepath.Join(dir, result.Slug+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write page %s: %w", path, err)
	}
	return nil
}
