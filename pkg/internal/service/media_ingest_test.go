package service

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/pixelvault/pixelvault/pkg/internal/model"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

func TestDetectMediaTypePhotoByContent(t *testing.T) {
	// 内容优先: 即使扩展名是视频的, 可解码的图片仍算图片
	mt, err := detectMediaType("shot.mp4", pngBytes(t))
	if err != nil {
		t.Fatal(err)
	}

	if mt != model.MediaTypePhoto {
		t.Errorf("expected photo, got %s", mt)
	}
}

func TestDetectMediaTypeVideoByExtension(t *testing.T) {
	mt, err := detectMediaType("clip.MP4", []byte{0x00, 0x00, 0x00, 0x18})
	if err != nil {
		t.Fatal(err)
	}

	if mt != model.MediaTypeVideo {
		t.Errorf("expected video, got %s", mt)
	}
}

func TestDetectMediaTypeUnsupported(t *testing.T) {
	if _, err := detectMediaType("notes.txt", []byte("plain text")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestContentTypeFor(t *testing.T) {
	if ct := contentTypeFor("photo.jpg"); ct != "image/jpeg" {
		t.Errorf("jpg: %s", ct)
	}

	if ct := contentTypeFor("archive.unknownext"); ct != "application/octet-stream" {
		t.Errorf("fallback: %s", ct)
	}
}
