package pipeline

import (
	"path/filepath"
	"strings"
)

// OutputPath derives the output path for a RAW file by replacing its final
// extension with ext. Directory and base name are preserved.
func OutputPath(rawPath, ext string) string {
	return strings.TrimSuffix(rawPath, filepath.Ext(rawPath)) + ext
}
