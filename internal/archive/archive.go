// Package archive rotates previous translation output out of the way
// before a directory run overwrites it.
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DirName is the sibling directory that receives archived output.
const DirName = "archive"

// OutputDirectory moves outDir to <parent>/archive/<name>-<timestamp> and
// returns the new path. A missing or empty outDir is left alone and an
// empty path is returned.
func OutputDirectory(outDir string, now time.Time) (string, error) {
	entries, err := os.ReadDir(outDir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read output directory: %w", err)
	}
	if len(entries) == 0 {
		return "", nil
	}

	clean := filepath.Clean(outDir)
	archiveDir := filepath.Join(filepath.Dir(clean), DirName)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	name := filepath.Base(clean)
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", name, now.Format("20060102-150405")))
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", name, now.Format("20060102-150405.000000")))
	}

	if err := os.Rename(clean, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive output directory: %w", err)
	}
	return archivePath, nil
}
