package exposure

import (
	"fmt"
	"image"
)

// Classification thresholds.
const (
	// OverLuma is the luma above which a pixel counts as over-exposed.
	OverLuma = 235.0
	// UnderLuma is the luma below which a pixel counts as under-exposed.
	UnderLuma = 20.0
	// OverFractionLimit is the over-exposed pixel fraction an image may
	// reach before it is classified Overexposed.
	OverFractionLimit = 0.05
	// UnderFractionLimit is the matching limit for Underexposed.
	UnderFractionLimit = 0.05
)

// Status is the exposure label assigned to an image.
type Status int

const (
	// Normal means neither pixel fraction exceeds its limit; no correction.
	Normal Status = iota
	// Overexposed means more than OverFractionLimit of pixels are brighter
	// than OverLuma. The image is darkened.
	Overexposed
	// Underexposed means more than UnderFractionLimit of pixels are darker
	// than UnderLuma and the image is not Overexposed. The image is brightened.
	Underexposed
)

// String returns the label used in console reports.
func (s Status) String() string {
	switch s {
	case Normal:
		return "Normal"
	case Overexposed:
		return "Overexposed"
	case Underexposed:
		return "Underexposed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Factor returns the multiplicative correction for the status.
func (s Status) Factor() float32 {
	switch s {
	case Underexposed:
		return 1.5
	case Overexposed:
		return 0.7
	default:
		return 1.0
	}
}

// Result is the outcome of classifying one image.
//
// The fractions are reported alongside the status; only the status feeds the
// adjustment.
type Result struct {
	Status        Status  `json:"status"`
	OverFraction  float64 `json:"over_fraction"`  // share of pixels with luma > OverLuma
	UnderFraction float64 `json:"under_fraction"` // share of pixels with luma < UnderLuma
}

// Classify measures the over- and under-exposed pixel fractions of img and
// labels it. Overexposed takes priority when both limits are exceeded.
//
// Parameters:
//   - img: The RGB buffer to measure. Must have at least one pixel.
//
// Returns:
//   - Result: The status and both pixel fractions (0-1).
//   - error: ErrEmptyImage if img is nil or has no pixels.
func Classify(img *image.RGBA) (Result, error) {
	lumas, err := BrightnessMap(img)
	if err != nil {
		return Result{}, err
	}

	var over, under int
	for _, y := range lumas {
		if y > OverLuma {
			over++
		}
		if y < UnderLuma {
			under++
		}
	}

	total := float64(len(lumas))
	res := Result{
		Status:        Normal,
		OverFraction:  float64(over) / total,
		UnderFraction: float64(under) / total,
	}

	if res.OverFraction > OverFractionLimit {
		res.Status = Overexposed
	} else if res.UnderFraction > UnderFractionLimit {
		res.Status = Underexposed
	}
	return res, nil
}
