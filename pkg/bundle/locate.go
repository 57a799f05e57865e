// Package bundle locates and parses the staged installation bundle: a
// runtime installer artifact plus an ordered package manifest, produced
// by the external bundling step and copied onto the airgapped host.
package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNotFound indicates the staging directory does not contain a usable
// bundle.
var ErrNotFound = errors.New("bundle not found")

// installerPatterns are the accepted runtime installer naming
// conventions, matched against the staging directory. Exactly one
// artifact must match across all patterns.
var installerPatterns = []string{
	"Miniconda3-*.sh",
	"Miniforge3-*.sh",
	"Anaconda3-*.sh",
	"runtime-*.tar.xz",
	"*-installer.exe",
}

// manifestNames are the accepted package manifest file names, in
// preference order.
var manifestNames = []string{
	"packages.yaml",
	"packages.yml",
	"packages.txt",
}

// Locate finds the runtime installer and package manifest inside dir.
// The returned Bundle is immutable.
func Locate(dir string) (*Bundle, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: staging directory %s is not readable", ErrNotFound, dir)
	}

	installer, err := locateInstaller(dir)
	if err != nil {
		return nil, err
	}

	manifestPath, err := locateManifest(dir)
	if err != nil {
		return nil, err
	}

	packages, err := ParseManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		Dir:           dir,
		InstallerPath: installer,
		ManifestPath:  manifestPath,
		Packages:      packages,
	}

	// Optional offline caches and alias table.
	if p := filepath.Join(dir, "wheels"); isDir(p) {
		b.WheelDir = p
	}
	if p := filepath.Join(dir, "pkgs"); isDir(p) {
		b.CondaPkgDir = p
	}
	if p := filepath.Join(dir, "aliases.toml"); isFile(p) {
		b.AliasPath = p
	}

	return b, nil
}

func locateInstaller(dir string) (string, error) {
	var matches []string
	for _, pattern := range installerPatterns {
		found, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", fmt.Errorf("matching installer pattern %q: %w", pattern, err)
		}
		matches = append(matches, found...)
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no runtime installer in %s (expected one of %v)",
			ErrNotFound, dir, installerPatterns)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %d runtime installers in %s, expected exactly one: %v",
			ErrNotFound, len(matches), dir, baseNames(matches))
	}
}

func locateManifest(dir string) (string, error) {
	for _, name := range manifestNames {
		path := filepath.Join(dir, name)
		if isFile(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no package manifest in %s (expected one of %v)",
		ErrNotFound, dir, manifestNames)
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
