package thumbs

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"thangka-gallery/internal/testutil"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	img, format, err := Decode(bytes.NewReader(pngBytes(t, 10, 4)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "png" || img.Bounds().Dx() != 10 {
		t.Fatalf("format = %s, bounds = %v", format, img.Bounds())
	}

	if _, _, err := Decode(strings.NewReader("definitely not an image")); err == nil {
		t.Fatal("expected error for non-image input")
	}
}

func TestDecodeRejectsHugeDimensions(t *testing.T) {
	_, _, err := Decode(bytes.NewReader(testutil.PNGHeader(100000, 100000)))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}

	// just under the cap is only rejected later, for the missing pixel data
	_, _, err = Decode(bytes.NewReader(testutil.PNGHeader(4000, 4000)))
	if err == nil || errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want a plain decode error", err)
	}
}

func TestMakeFitsBox(t *testing.T) {
	src, _, err := Decode(bytes.NewReader(pngBytes(t, 1200, 600)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	buf, err := Make(src, DefaultSize, DefaultQuality)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	out, err := jpeg.Decode(buf)
	if err != nil {
		t.Fatalf("thumbnail is not a jpeg: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 480 || b.Dy() != 240 {
		t.Fatalf("thumbnail = %dx%d, want 480x240", b.Dx(), b.Dy())
	}
}

func TestMakeNeverUpscales(t *testing.T) {
	src, _, err := Decode(bytes.NewReader(pngBytes(t, 100, 50)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	buf, err := Make(src, 0, 0)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	out, err := jpeg.Decode(buf)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("thumbnail = %dx%d, want original 100x50", b.Dx(), b.Dy())
	}
}
