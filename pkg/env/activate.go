// Package env writes the activation snippet that puts an installed
// runtime on the operator's PATH. Sourcing it is the documented way to
// start using the install, so it is generated at the end of every
// successful run.
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const activateScript = `# Generated by airlift. Source this file to use the runtime:
#   . %[1]s
export AIRLIFT_PREFIX=%[2]q
export PATH="%[2]s/bin:$PATH"
`

const activateBatch = `@rem Generated by airlift (%[1]s). Run this file to use the runtime.
@set "AIRLIFT_PREFIX=%[2]s"
@set "PATH=%[2]s;%[2]s\Scripts;%%PATH%%"
`

// WriteActivation creates <target>/etc/activate.sh (activate.bat on
// Windows) and returns its path.
func WriteActivation(target string) (string, error) {
	dir := filepath.Join(target, "etc")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("writing activation script: %w", err)
	}

	name, template := "activate.sh", activateScript
	if runtime.GOOS == "windows" {
		name, template = "activate.bat", activateBatch
	}

	path := filepath.Join(dir, name)
	content := fmt.Sprintf(template, path, target)
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		return "", fmt.Errorf("writing activation script: %w", err)
	}
	return path, nil
}
