// Package exposure classifies the exposure of an 8-bit RGB image and applies
// a single global linear brightness correction.
//
// # Brightness
//
// Per-pixel brightness is the BT.709 luma of the gamma-encoded channel values:
//
//	Y = 0.2126*R + 0.7152*G + 0.0722*B
//
// The weights are fixed. Other weightings change which images are classified
// as over- or under-exposed.
//
// # Classification
//
// An image is Overexposed when more than 5% of its pixels have Y > 235, and
// Underexposed when more than 5% have Y < 20. The over-exposed check runs
// first, so an image exceeding both thresholds is Overexposed.
//
// # Adjustment
//
// Each status maps to one multiplicative factor applied to every channel of
// every pixel:
//   - Underexposed: 1.5
//   - Overexposed: 0.7
//   - Normal: 1.0
//
// Results are clipped to [0, 255] and truncated to 8 bits. There is no
// per-channel or spatially varying adjustment.
//
// # Errors
//
// A nil or zero-pixel image yields ErrEmptyImage instead of NaN fractions.
package exposure
