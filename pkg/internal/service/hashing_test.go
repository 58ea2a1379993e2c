package service

import (
	"image"
	"image/color"
	"testing"
)

func TestExactHashDeterministic(t *testing.T) {
	data := []byte("the same bytes")

	a := ExactHash(data)
	b := ExactHash(data)

	if a != b {
		t.Errorf("same input produced different hashes: %s vs %s", a, b)
	}

	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestExactHashDistinguishes(t *testing.T) {
	a := ExactHash([]byte("first"))
	b := ExactHash([]byte("second"))

	if a == b {
		t.Error("different inputs produced the same hash")
	}
}

// testImage 生成一张简单的渐变测试图.
func testImage(w, h int, seed uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x*255/w) + seed,
				G: uint8(y * 255 / h),
				B: seed,
				A: 255,
			})
		}
	}

	return img
}

func TestPerceptualHashStableAcrossResize(t *testing.T) {
	// 同一画面的不同分辨率应产生相同的感知哈希
	small, err := PerceptualHash(testImage(64, 64, 0))
	if err != nil {
		t.Fatal(err)
	}

	large, err := PerceptualHash(testImage(256, 256, 0))
	if err != nil {
		t.Fatal(err)
	}

	if small != large {
		t.Errorf("perceptual hash changed across resolutions: %s vs %s", small, large)
	}

	if len(small) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(small))
	}
}
