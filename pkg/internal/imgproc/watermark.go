package imgproc

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce   sync.Once
	fontParsed *opentype.Font
	fontErr    error
)

func watermarkFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		fontParsed, fontErr = opentype.Parse(goregular.TTF)
	})

	return fontParsed, fontErr
}

func newFace(size float64) (font.Face, error) {
	f, err := watermarkFont()
	if err != nil {
		return nil, fmt.Errorf("parse watermark font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}

	return face, nil
}

// WatermarkCorner 在右下角绘制固定位置的半透明文本水印, 用于预览版.
func WatermarkCorner(img image.Image, text string) (image.Image, error) {
	if text == "" {
		return img, nil
	}

	bounds := img.Bounds()

	const minFontSize = 12.0

	size := float64(bounds.Dx()) / 40
	if size < minFontSize {
		size = minFontSize
	}

	face, err := newFace(size)
	if err != nil {
		return nil, err
	}
	defer func() { _ = face.Close() }()

	dst := imaging.Clone(img)
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 180}),
		Face: face,
	}

	textWidth := drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	pad := int(size / 2)

	x := bounds.Dx() - textWidth - pad
	y := bounds.Dy() - metrics.Descent.Ceil() - pad

	if x < 0 || y-metrics.Ascent.Ceil() < 0 {
		// 图太小放不下水印, 原样返回
		return img, nil
	}

	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(text)

	return dst, nil
}

// WatermarkRandom 在随机的边缘偏置位置绘制文本水印, 用于全尺寸水印版.
// 每个坐标轴独立地以等概率靠近起始边或末端边, 并在边缘带内随机偏移;
// 文字颜色按落点图块的平均亮度取黑或白, 保证可读性.
func WatermarkRandom(img image.Image, text string) (image.Image, error) {
	if text == "" {
		return img, nil
	}

	bounds := img.Bounds()

	const minFontSize = 16.0

	size := float64(bounds.Dx()) / 24
	if size < minFontSize {
		size = minFontSize
	}

	face, err := newFace(size)
	if err != nil {
		return nil, err
	}
	defer func() { _ = face.Close() }()

	dst := imaging.Clone(img)
	drawer := &font.Drawer{
		Dst:  dst,
		Face: face,
	}

	textWidth := drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	textHeight := metrics.Ascent.Ceil() + metrics.Descent.Ceil()

	pad := int(size / 2)

	freeX := bounds.Dx() - textWidth - 2*pad
	freeY := bounds.Dy() - textHeight - 2*pad

	if freeX < 0 || freeY < 0 {
		return img, nil
	}

	x := pad + edgeBiasedOffset(freeX)
	yTop := pad + edgeBiasedOffset(freeY)
	baseline := yTop + metrics.Ascent.Ceil()

	patch := image.Rect(x, yTop, x+textWidth, yTop+textHeight)
	if meanLuminance(dst, patch) > 0.5 {
		drawer.Src = image.NewUniform(color.NRGBA{A: 255})
	} else {
		drawer.Src = image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	}

	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)

	return dst, nil
}

// edgeBiasedOffset 在 [0, free] 内采样, 等概率贴近 0 或贴近 free,
// 偏移量限制在 free/8 的边缘带内.
func edgeBiasedOffset(free int) int {
	if free <= 0 {
		return 0
	}

	band := free / 8
	if band < 1 {
		band = 1
	}

	offset := rand.IntN(band + 1)
	if rand.IntN(2) == 0 {
		return offset
	}

	return free - offset
}

// meanLuminance 计算矩形区域的平均亮度, 范围 [0,1].
func meanLuminance(img image.Image, rect image.Rectangle) float64 {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return 0
	}

	var sum float64

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// ITU-R BT.601 亮度权重, RGBA 返回 16 位色值
			sum += (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535.0
		}
	}

	return sum / float64(rect.Dx()*rect.Dy())
}
