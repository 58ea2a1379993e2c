// Package imgproc 提供媒体流水线的图像处理原语:
// 解码、等比缩放、高斯模糊、JPEG 编码与文本水印.
package imgproc

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Meta 图像基础元数据.
type Meta struct {
	Width  int
	Height int
	Format string
}

// Decode 解码图像并返回元数据.
// 支持 JPEG/PNG/GIF/WebP, 方向信息交由上游在解码时归一化.
func Decode(data []byte) (image.Image, Meta, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, Meta{}, fmt.Errorf("decode image config: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Meta{}, fmt.Errorf("decode image: %w", err)
	}

	return img, Meta{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// Fit 将图像等比缩放到最长边不超过 maxSize, 不放大小图.
func Fit(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxSize && bounds.Dy() <= maxSize {
		return img
	}

	return imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
}

// Blur 高斯模糊, radius <= 0 时原样返回.
func Blur(img image.Image, radius float64) image.Image {
	if radius <= 0 {
		return img
	}

	return imaging.Blur(img, radius)
}

// EncodeJPEG 以给定质量编码为 JPEG.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
