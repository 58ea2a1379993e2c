package imgproc

import (
	"image"
	"image/color"
	"testing"
)

func newTestImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	return img
}

func TestFitShrinksLongestSide(t *testing.T) {
	img := newTestImage(1600, 900, color.White)

	out := Fit(img, 800)

	b := out.Bounds()
	if b.Dx() != 800 {
		t.Errorf("expected width 800, got %d", b.Dx())
	}

	if b.Dy() != 450 {
		t.Errorf("expected height 450 (aspect preserved), got %d", b.Dy())
	}
}

func TestFitNeverUpscales(t *testing.T) {
	img := newTestImage(200, 100, color.White)

	out := Fit(img, 800)

	b := out.Bounds()
	if b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("small image must pass through unchanged, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestFitPortrait(t *testing.T) {
	img := newTestImage(900, 1600, color.White)

	out := Fit(img, 300)

	b := out.Bounds()
	if b.Dy() != 300 {
		t.Errorf("expected height 300, got %d", b.Dy())
	}

	if b.Dx() >= b.Dy() {
		t.Errorf("portrait aspect lost: %dx%d", b.Dx(), b.Dy())
	}
}

func TestBlurKeepsDimensions(t *testing.T) {
	img := newTestImage(320, 240, color.White)

	out := Blur(img, 5.0)

	b := out.Bounds()
	if b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("blur changed dimensions: %dx%d", b.Dx(), b.Dy())
	}
}

func TestBlurZeroRadiusPassthrough(t *testing.T) {
	img := newTestImage(10, 10, color.White)

	if out := Blur(img, 0); out != img {
		t.Error("zero radius must return the input image unchanged")
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	img := newTestImage(64, 48, color.RGBA{R: 200, G: 50, B: 50, A: 255})

	data, err := EncodeJPEG(img, 90)
	if err != nil {
		t.Fatal(err)
	}

	decoded, meta, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	if meta.Format != "jpeg" {
		t.Errorf("expected jpeg format, got %s", meta.Format)
	}

	if meta.Width != 64 || meta.Height != 48 {
		t.Errorf("dimensions lost in roundtrip: %dx%d", meta.Width, meta.Height)
	}

	if decoded.Bounds().Dx() != 64 {
		t.Errorf("decoded width mismatch: %d", decoded.Bounds().Dx())
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, _, err := Decode([]byte("definitely not an image")); err == nil {
		t.Error("expected error for non-image bytes")
	}
}
