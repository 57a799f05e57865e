// pkg/runner/archive.go
package runner

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// extractArchive unpacks a runtime-*.tar.xz artifact into target.
func extractArchive(archivePath, target string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("running installer: %w: %v", ErrInstallFailed, err)
	}
	defer f.Close()

	xzr, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("running installer: %w: reading xz stream: %v", ErrInstallFailed, err)
	}

	if err := os.MkdirAll(target, 0755); err != nil {
		return fmt.Errorf("running installer: %w: %v", ErrInstallFailed, err)
	}

	tr := tar.NewReader(xzr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("running installer: %w: reading archive: %v", ErrInstallFailed, err)
		}

		dest, err := securePath(target, hdr.Name)
		if err != nil {
			return fmt.Errorf("running installer: %w: %v", ErrInstallFailed, err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("running installer: %w: %v", ErrInstallFailed, err)
			}
		case tar.TypeReg:
			if err := writeFile(dest, tr, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("running installer: %w: %v", ErrInstallFailed, err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
				return fmt.Errorf("running installer: %w: %v", ErrInstallFailed, err)
			}
			os.Remove(dest)
			if err := os.Symlink(hdr.Linkname, dest); err != nil {
				return fmt.Errorf("running installer: %w: %v", ErrInstallFailed, err)
			}
		default:
			// Device nodes and the like have no business in a
			// runtime bundle; skip them.
		}
	}
}

// securePath rejects entries that would escape the target directory.
func securePath(target, name string) (string, error) {
	dest := filepath.Join(target, filepath.FromSlash(name))
	if !strings.HasPrefix(dest, filepath.Clean(target)+string(os.PathSeparator)) && dest != filepath.Clean(target) {
		return "", fmt.Errorf("archive entry %q escapes target directory", name)
	}
	return dest, nil
}

func writeFile(dest string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
