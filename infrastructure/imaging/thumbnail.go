// Package imaging renders photo thumbnails.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// decoders for the accepted upload formats
	_ "image/gif"
	_ "image/png"

	"photoshare/application/ports"

	"github.com/nfnt/resize"
)

const jpegQuality = 85

// Thumbnailer scales images to fit within a bounding box
type Thumbnailer struct {
	maxWidth  uint
	maxHeight uint
}

// NewThumbnailer creates a thumbnailer for the given bounds
func NewThumbnailer(maxWidth, maxHeight int) *Thumbnailer {
	return &Thumbnailer{maxWidth: uint(maxWidth), maxHeight: uint(maxHeight)}
}

var _ ports.Thumbnailer = (*Thumbnailer)(nil)

// Thumbnail decodes src and returns a JPEG preserving the aspect ratio.
// Images already inside the bounds are re-encoded at their own size.
func (t *Thumbnailer) Thumbnail(src []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := resize.Thumbnail(t.maxWidth, t.maxHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
