// pkg/bundle/types.go
package bundle

import "fmt"

// PackageSpec is one manifest entry: a package name plus an optional
// version constraint. Manifest order is preserved everywhere.
type PackageSpec struct {
	Name    string
	Version string
}

// String renders the canonical "name==version" form.
func (p PackageSpec) String() string {
	if p.Version == "" {
		return p.Name
	}
	return fmt.Sprintf("%s==%s", p.Name, p.Version)
}

// Bundle describes a located staging directory. Immutable after
// Locate returns it.
type Bundle struct {
	Dir           string        // staging directory
	InstallerPath string        // the single runtime installer artifact
	ManifestPath  string        // the package manifest that was parsed
	Packages      []PackageSpec // manifest entries, in declared order
	WheelDir      string        // offline pip wheel directory, "" if absent
	CondaPkgDir   string        // offline conda package cache, "" if absent
	AliasPath     string        // optional per-manager alias table, "" if absent
}
