package services

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// FitForDelivery shrinks an image so its longer side is at most maxSide and
// re-encodes it as PNG. Images already within bounds are returned untouched.
func FitForDelivery(imageBytes []byte, maxSide int) ([]byte, error) {
	if maxSide <= 0 {
		return imageBytes, nil
	}
	img, err := imaging.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= maxSide && bounds.Dy() <= maxSide {
		return imageBytes, nil
	}

	resized := imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
