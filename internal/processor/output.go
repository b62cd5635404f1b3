package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/phonetext/internal/maryxml"
)

// FormatDictionary writes one "word<TAB>pronunciation" line per entry in
// first-seen order
func FormatDictionary(dict *maryxml.Dictionary) string {
	var b strings.Builder
	for _, e := range dict.Entries() {
		b.WriteString(e.Word)
		b.WriteByte('\t')
		b.WriteString(e.Pronunciation)
		b.WriteByte('\n')
	}
	return b.String()
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so a failure never leaves a truncated output
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save output: %w", err)
	}

	return nil
}
