// Package validation checks user-supplied paths, formats and file modes
// before commands act on them.
package validation

import (
	"fmt"
	"os"
	"strings"
)

// Supported output formats
var outputFormats = []string{"text", "json", "yaml"}

// IsValidImportFile checks that path names a readable regular file.
func IsValidImportFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	return nil
}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	for _, f := range outputFormats {
		if strings.EqualFold(format, f) {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format: %s. Supported formats are %s", format, strings.Join(outputFormats, ", "))
}

// IsValidFilePermissions rejects modes that grant any access to others. The
// ledger holds personal finances, so 0600 is expected.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600", mode.Perm().String())
	}
	return nil
}
