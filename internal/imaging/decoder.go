package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/image/tiff"
)

// DefaultDcrawBinary is the dcraw executable looked up on PATH when no
// explicit binary is configured.
const DefaultDcrawBinary = "dcraw"

// ErrEmptyRaw is returned when a RAW file has zero length.
var ErrEmptyRaw = errors.New("raw file is empty")

// Decoder turns a RAW file into an 8-bit RGB buffer.
type Decoder interface {
	Decode(ctx context.Context, path string) (*image.RGBA, error)
}

// DcrawDecoder decodes RAW files by running dcraw.
//
// The zero value uses DefaultDcrawBinary from PATH.
type DcrawDecoder struct {
	// Binary is the dcraw executable name or path.
	Binary string
}

// NewDcrawDecoder creates a decoder that runs the given dcraw binary.
// An empty binary selects DefaultDcrawBinary.
func NewDcrawDecoder(binary string) *DcrawDecoder {
	return &DcrawDecoder{Binary: binary}
}

func (d *DcrawDecoder) binary() string {
	if d == nil || strings.TrimSpace(d.Binary) == "" {
		return DefaultDcrawBinary
	}
	return d.Binary
}

// goos selects the dcraw input mode; tests override it.
var goos = runtime.GOOS

// readsStdin reports whether dcraw reads the RAW file through /dev/stdin.
// Windows has no /dev/stdin, so dcraw opens the path itself there.
func readsStdin() bool {
	return goos != "windows"
}

// Args returns the dcraw command line for path: write to stdout (-c) as TIFF
// (-T) using the camera white balance (-w). The image is read from stdin,
// except on Windows where path is passed directly.
func (d *DcrawDecoder) Args(path string) []string {
	input := "/dev/stdin"
	if !readsStdin() {
		input = path
	}
	return []string{"-c", "-w", "-T", input}
}

// Decode reads the RAW file at path and returns its demosaiced RGB pixels.
//
// Parameters:
//   - ctx: Cancels the dcraw process when done.
//   - path: Path to the RAW file.
//
// Returns:
//   - *image.RGBA: 8-bit RGB buffer with opaque alpha.
//   - error: Non-nil if the file cannot be opened, is empty, dcraw fails, or
//     its output is not a decodable TIFF.
//
// The file is opened exactly once and closed before Decode returns. On
// Windows the open handle is only used for the empty-file check and dcraw
// opens the path itself.
func (d *DcrawDecoder) Decode(ctx context.Context, path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat raw file: %w", err)
	}
	if stat.Size() == 0 {
		return nil, ErrEmptyRaw
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.binary(), d.Args(path)...)
	if readsStdin() {
		cmd.Stdin = f
	}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("dcraw failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("dcraw failed: %w", err)
	}

	img, err := tiff.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dcraw output: %w", err)
	}
	return clone.AsRGBA(img), nil
}

// LookDcraw resolves the dcraw binary on PATH and returns its location.
func LookDcraw(binary string) (string, error) {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultDcrawBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("dcraw not found (%s): %w", binary, err)
	}
	return path, nil
}
