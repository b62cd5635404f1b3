package internal

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Version is the phonetext release version
const Version = "0.3.0"

// GenerateRunID creates a unique ID for one batch run
func GenerateRunID() string {
	return uuid.NewString()
}

// OutputFileName replaces the last extension of name with ext
// Format: "chapter1.txt" + ".xml" -> "chapter1.xml"
func OutputFileName(name, ext string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

// IsHidden reports whether a file name starts with a dot
func IsHidden(name string) bool {
	return strings.HasPrefix(filepath.Base(name), ".")
}
