package thumbs

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	// decoders for uploads
	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	DefaultSize    = 480
	DefaultQuality = 82

	// MaxPixels caps width*height of an upload. The header is checked before
	// any pixel data is allocated.
	MaxPixels = 40_000_000
)

var ErrTooLarge = errors.New("image dimensions too large")

// Decode reads an image and reports its format. Anything that is not a
// decodable image, or whose header declares more than MaxPixels, is rejected
// here. EXIF orientation is applied so thumbnails come out upright.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Make fits img into a size x size box (never upscaling) and encodes it as JPEG.
func Make(img image.Image, size, quality int) (*bytes.Buffer, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	out := img
	if img.Bounds().Dx() > size || img.Bounds().Dy() > size {
		out = imaging.Fit(img, size, size, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf, nil
}
