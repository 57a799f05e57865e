// Package registry maps canonical package names to the names each
// package manager actually knows, plus the Python module name used for
// import verification. The table ships inside the bundle as
// aliases.toml, so resolution works without any network access.
package registry

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Entry is the alias record for one canonical package name.
//
//	[packages.pillow]
//	module = "PIL"
//	[packages.pillow.managers]
//	conda = "pillow"
//	pip = "Pillow"
type Entry struct {
	Module   string            `toml:"module"`
	Managers map[string]string `toml:"managers"`
}

type aliasFile struct {
	Packages map[string]Entry `toml:"packages"`
}

// Registry provides alias lookups. The zero value and nil are both
// valid and resolve every name to itself.
type Registry struct {
	entries map[string]Entry
}

// Load reads an aliases.toml file. A missing path yields an empty,
// usable registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return &Registry{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{}, nil
		}
		return nil, fmt.Errorf("reading alias table: %w", err)
	}

	var f aliasFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing alias table %s: %w", path, err)
	}

	return &Registry{entries: f.Packages}, nil
}

// Resolve returns the manager-specific name for a canonical package
// name, e.g. Resolve("pillow", "pip") -> "Pillow". Unknown names
// resolve to themselves.
func (r *Registry) Resolve(name, manager string) string {
	if r == nil || r.entries == nil {
		return name
	}
	entry, ok := r.entries[name]
	if !ok {
		return name
	}
	if alias, ok := entry.Managers[manager]; ok && alias != "" {
		return alias
	}
	return name
}

// Module returns the importable module name for a package, used by the
// post-install smoke test. Defaults to the package name itself.
func (r *Registry) Module(name string) string {
	if r == nil || r.entries == nil {
		return name
	}
	if entry, ok := r.entries[name]; ok && entry.Module != "" {
		return entry.Module
	}
	return name
}

// Len returns the number of alias entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}
