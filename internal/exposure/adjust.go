package exposure

import (
	"image"
)

// Adjust returns a copy of img with every color channel scaled by the factor
// for status, clipped to [0, 255] and truncated to 8 bits. The copy has the
// same bounds as img and is fully opaque.
func Adjust(img *image.RGBA, status Status) (*image.RGBA, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}

	factor := status.Factor()
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewRGBA(bounds)

	for y := 0; y < height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+width*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+width*4]
		for i := 0; i < len(src); i += 4 {
			dst[i] = scale(src[i], factor)
			dst[i+1] = scale(src[i+1], factor)
			dst[i+2] = scale(src[i+2], factor)
			dst[i+3] = 0xff
		}
	}
	return out, nil
}

// Correct classifies img and applies the matching adjustment.
func Correct(img *image.RGBA) (*image.RGBA, Result, error) {
	res, err := Classify(img)
	if err != nil {
		return nil, Result{}, err
	}
	adjusted, err := Adjust(img, res.Status)
	if err != nil {
		return nil, Result{}, err
	}
	return adjusted, res, nil
}

func scale(c uint8, factor float32) uint8 {
	// The conversion forces float32 rounding before clipping.
	v := float32(float32(c) * factor)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
