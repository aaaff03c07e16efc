package extract

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// extractArchive unpacks a zip into an isolated temp directory, walks every
// member, and extracts each supported file with a provenance header.
// Unsupported members are labelled as skipped rather than silently dropped.
// Nested archives re-enter this path through the dispatch on .zip. The temp
// directory is removed on every exit path.
func (e *Extractor) extractArchive(path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "evalboard-zip-*")
	if err != nil {
		return "", fmt.Errorf("creating extraction dir: %w", err)
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	if err := unzip(path, tmpDir); err != nil {
		return "", err
	}

	var b strings.Builder
	walkErr := filepath.WalkDir(tmpDir, func(memberPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if Supported(filepath.Ext(name)) {
			fmt.Fprintf(&b, "Extracted from %s:\n%s\n", name, e.Extract(memberPath))
		} else {
			fmt.Fprintf(&b, "Skipped unsupported file: %s\n", name)
		}
		return nil
	})
	if walkErr != nil {
		return "", fmt.Errorf("walking extracted archive: %w", walkErr)
	}
	return b.String(), nil
}

// unzip extracts src into dest, rejecting members whose cleaned paths
// escape dest.
func unzip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close() //nolint:errcheck

	destPrefix := filepath.Clean(dest) + string(os.PathSeparator)
	for _, f := range r.File {
		target := filepath.Join(dest, f.Name)
		if !strings.HasPrefix(target, destPrefix) {
			return fmt.Errorf("archive member %q escapes extraction dir", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating archive dir %s: %w", f.Name, err)
			}
			continue
		}
		if err := extractMember(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractMember(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating parent dir for %s: %w", f.Name, err)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening archive member %s: %w", f.Name, err)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return nil
}
