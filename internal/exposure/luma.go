package exposure

import (
	"errors"
	"image"
)

// BT.709 luma weights.
const (
	weightR = 0.2126
	weightG = 0.7152
	weightB = 0.0722
)

// ErrEmptyImage is returned for nil images and images with no pixels.
var ErrEmptyImage = errors.New("exposure: image has no pixels")

// Luma returns the perceptual brightness of one 8-bit RGB pixel.
//
// Each product is rounded before summing so the result does not depend on
// whether the target fuses multiply-add. A gray of 20 yields a luma just
// below 20.
func Luma(r, g, b uint8) float64 {
	return float64(weightR*float64(r)) + float64(weightG*float64(g)) + float64(weightB*float64(b))
}

// BrightnessMap computes the luma of every pixel in img.
//
// The returned slice is row-major with Dx()*Dy() entries, so the value for
// pixel (x, y) relative to the image origin is at index y*Dx()+x.
func BrightnessMap(img *image.RGBA) ([]float64, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := make([]float64, 0, width*height)

	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for i := 0; i < len(row); i += 4 {
			out = append(out, Luma(row[i], row[i+1], row[i+2]))
		}
	}
	return out, nil
}

func checkImage(img *image.RGBA) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	return nil
}
