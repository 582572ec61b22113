package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality matches the quality most Python image writers use when
// none is given.
const DefaultJPEGQuality = 75

// tempPattern names in-progress outputs. The leading dot keeps them out of
// RAW discovery.
const tempPattern = ".rawconv-*"

// Encoder writes an image to a file.
type Encoder interface {
	Encode(img image.Image, path string) error
}

// FileEncoder writes images with the format implied by the output path.
type FileEncoder struct {
	// Quality is the JPEG quality (1-100). Zero selects DefaultJPEGQuality.
	Quality int
}

// NewFileEncoder creates an encoder with the given JPEG quality.
func NewFileEncoder(quality int) *FileEncoder {
	return &FileEncoder{Quality: quality}
}

// Encode writes img to path. The format is chosen from the extension of path.
//
// The image is encoded into a temporary file in the same directory and
// renamed onto path only after encoding succeeds, so a failed encode leaves
// no partial output and keeps any existing file at path.
//
// Parameters:
//   - img: The image to write.
//   - path: Destination path; its extension selects the format.
//
// Returns:
//   - error: Non-nil if the extension is unsupported or encoding, writing,
//     or renaming fails.
func (e *FileEncoder) Encode(img image.Image, path string) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("unsupported output format %q: %w", filepath.Ext(path), err)
	}

	quality := DefaultJPEGQuality
	if e != nil && e.Quality > 0 {
		quality = e.Quality
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", filepath.Base(path), err)
	}
	tmpPath := tmp.Name()

	if err := imaging.Encode(tmp, img, format, imaging.JPEGQuality(quality)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions on %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(path), err)
	}
	return nil
}

// SupportedOutputExt reports whether ext (with leading dot) names a format
// FileEncoder can write.
func SupportedOutputExt(ext string) bool {
	_, err := imaging.FormatFromExtension(strings.TrimPrefix(ext, "."))
	return err == nil
}
