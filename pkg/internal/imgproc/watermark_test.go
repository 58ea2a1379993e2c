package imgproc

import (
	"image"
	"image/color"
	"testing"
)

func TestEdgeBiasedOffsetStaysInBand(t *testing.T) {
	const free = 1000
	band := free / 8

	for i := 0; i < 500; i++ {
		off := edgeBiasedOffset(free)

		if off < 0 || off > free {
			t.Fatalf("offset %d out of [0,%d]", off, free)
		}

		if off > band && off < free-band {
			t.Fatalf("offset %d not in an edge band of width %d", off, band)
		}
	}
}

func TestEdgeBiasedOffsetCoversBothEdges(t *testing.T) {
	const free = 1000

	var nearStart, nearEnd bool
	for i := 0; i < 500; i++ {
		off := edgeBiasedOffset(free)
		if off <= free/2 {
			nearStart = true
		} else {
			nearEnd = true
		}
	}

	if !nearStart || !nearEnd {
		t.Error("expected offsets near both edges over many samples")
	}
}

func TestEdgeBiasedOffsetDegenerate(t *testing.T) {
	if off := edgeBiasedOffset(0); off != 0 {
		t.Errorf("expected 0 for no free space, got %d", off)
	}

	if off := edgeBiasedOffset(-5); off != 0 {
		t.Errorf("expected 0 for negative free space, got %d", off)
	}
}

func TestMeanLuminanceExtremes(t *testing.T) {
	white := newTestImage(32, 32, color.White)
	if l := meanLuminance(white, white.Bounds()); l < 0.95 {
		t.Errorf("white image luminance %f, expected near 1", l)
	}

	black := newTestImage(32, 32, color.Black)
	if l := meanLuminance(black, black.Bounds()); l > 0.05 {
		t.Errorf("black image luminance %f, expected near 0", l)
	}
}

func TestMeanLuminanceEmptyRect(t *testing.T) {
	img := newTestImage(8, 8, color.White)

	if l := meanLuminance(img, image.Rect(100, 100, 120, 120)); l != 0 {
		t.Errorf("expected 0 for out-of-bounds rect, got %f", l)
	}
}

func TestWatermarkCornerKeepsDimensions(t *testing.T) {
	img := newTestImage(800, 600, color.RGBA{R: 30, G: 30, B: 30, A: 255})

	out, err := WatermarkCorner(img, "pixelvault.example")
	if err != nil {
		t.Fatal(err)
	}

	b := out.Bounds()
	if b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("watermark changed dimensions: %dx%d", b.Dx(), b.Dy())
	}
}

func TestWatermarkCornerChangesPixels(t *testing.T) {
	img := newTestImage(800, 600, color.RGBA{R: 30, G: 30, B: 30, A: 255})

	out, err := WatermarkCorner(img, "pixelvault.example")
	if err != nil {
		t.Fatal(err)
	}

	var changed bool
	for y := 500; y < 600 && !changed; y++ {
		for x := 600; x < 800; x++ {
			if color.RGBAModel.Convert(out.At(x, y)) != color.RGBAModel.Convert(img.At(x, y)) {
				changed = true
				break
			}
		}
	}

	if !changed {
		t.Error("expected visible watermark in the bottom-right region")
	}
}

func TestWatermarkRandomKeepsDimensions(t *testing.T) {
	img := newTestImage(1024, 768, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	out, err := WatermarkRandom(img, "pixelvault.example")
	if err != nil {
		t.Fatal(err)
	}

	b := out.Bounds()
	if b.Dx() != 1024 || b.Dy() != 768 {
		t.Errorf("watermark changed dimensions: %dx%d", b.Dx(), b.Dy())
	}
}
