// pkg/bundle/manifest.go
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// manifest is the YAML manifest shape:
//
//	packages:
//	  - numpy==1.26.4      # scalar shorthand
//	  - name: pandas       # or explicit mapping
//	    version: 2.2.0
type manifest struct {
	Packages []PackageSpec `yaml:"packages"`
}

// UnmarshalYAML accepts both the scalar "name==version" shorthand and
// the explicit {name, version} mapping.
func (p *PackageSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*p = parseSpecLine(s)
		return nil
	case yaml.MappingNode:
		var raw struct {
			Name    string `yaml:"name"`
			Version string `yaml:"version"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		p.Name = raw.Name
		p.Version = raw.Version
		return nil
	default:
		return fmt.Errorf("line %d: package entry must be a string or a mapping", node.Line)
	}
}

// ParseManifest reads an ordered package manifest. YAML and plain-text
// line formats are supported; an empty manifest is an error because an
// install with nothing to install is a bundling mistake, not a no-op.
func ParseManifest(path string) ([]PackageSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading manifest: %v", ErrNotFound, err)
	}

	var packages []PackageSpec
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		var m manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: parsing manifest %s: %v", ErrNotFound, path, err)
		}
		packages = m.Packages
	default:
		packages = parseLines(string(data))
	}

	for i, pkg := range packages {
		if pkg.Name == "" {
			return nil, fmt.Errorf("%w: manifest %s entry %d has no package name",
				ErrNotFound, path, i+1)
		}
	}
	if len(packages) == 0 {
		return nil, fmt.Errorf("%w: manifest %s lists no packages", ErrNotFound, path)
	}

	return packages, nil
}

// parseLines handles the plain-text format: one "name[==version]" per
// line, blank lines and #-comments ignored.
func parseLines(data string) []PackageSpec {
	var packages []PackageSpec
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		packages = append(packages, parseSpecLine(line))
	}
	return packages
}

func parseSpecLine(line string) PackageSpec {
	name, version, found := strings.Cut(line, "==")
	if !found {
		// Tolerate the single-equals conda form.
		name, version, _ = strings.Cut(line, "=")
	}
	return PackageSpec{
		Name:    strings.TrimSpace(name),
		Version: strings.TrimSpace(version),
	}
}
