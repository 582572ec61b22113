// Package imaging decodes camera RAW files into 8-bit RGB buffers and writes
// buffers back to disk as compressed images.
//
// # Decoding
//
// RAW demosaicing is delegated to the dcraw binary. DcrawDecoder opens the
// source file once, hands the open handle to dcraw as stdin, and asks for an
// 8-bit TIFF on stdout using the camera's embedded white balance (-w). The
// TIFF is decoded with golang.org/x/image/tiff and normalised to *image.RGBA.
// The source handle is closed before Decode returns, whether or not decoding
// succeeded.
//
// Windows has no /dev/stdin, so there the file path is passed to dcraw and the
// open handle only serves the empty-file check.
//
// # Encoding
//
// FileEncoder writes an image to a path with github.com/disintegration/imaging.
// The output format follows the path's extension; JPEG output uses the
// configured quality.
//
// # Error Handling
//
// Functions return wrapped errors for:
//   - Missing, unreadable, or empty RAW files
//   - dcraw failures (stderr is included in the message)
//   - Unsupported output extensions
//   - Encoding or file write errors
package imaging
