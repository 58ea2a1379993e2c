package videoproc

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// escapeDrawtext 转义 drawtext 滤镜文本中的特殊字符.
func escapeDrawtext(text string) string {
	out := make([]rune, 0, len(text))
	for _, r := range text {
		switch r {
		case '\'', ':', '\\', '%':
			out = append(out, '\\')
		}

		out = append(out, r)
	}

	return string(out)
}

// watermarkFilter 右下角文本水印滤镜, 字号随画面高度缩放.
func watermarkFilter(text string) string {
	return fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white@0.8:shadowcolor=black@0.6:shadowx=2:shadowy=2:fontsize=h/24:x=w-tw-10:y=h-th-10",
		escapeDrawtext(text),
	)
}

// WatermarkTranscode 两遍法转码并烧入水印.
// 目标码率取源码率与 maxBitrate 的较小者; 源码率探测不到时
// 退化为单遍 CRF 编码. 音频流原样复制.
func (p *Processor) WatermarkTranscode(ctx context.Context, inPath, outPath, text string, maxBitrate, crf int) (Probe, error) {
	src, err := p.ProbeFile(ctx, inPath)
	if err != nil {
		return Probe{}, err
	}

	filter := watermarkFilter(text)

	audioArgs := []string{"-an"}
	if src.HasAudio {
		audioArgs = []string{"-c:a", "copy"}
	}

	if src.BitRate <= 0 {
		// 无码率信息, 单遍 CRF
		args := []string{
			"-y", "-i", inPath,
			"-vf", filter,
			"-c:v", "libx264",
			"-crf", strconv.Itoa(crf),
		}
		args = append(args, audioArgs...)
		args = append(args, outPath)

		if _, err := p.run(ctx, "ffmpeg", args...); err != nil {
			return Probe{}, fmt.Errorf("crf transcode: %w", err)
		}

		return p.ProbeFile(ctx, outPath)
	}

	target := src.BitRate
	if target > maxBitrate {
		target = maxBitrate
	}

	bitrate := strconv.Itoa(target)
	passLog := outPath + ".passlog"

	defer func() {
		// ffmpeg 以 passlogfile 为前缀写多个文件
		_ = os.Remove(passLog + "-0.log")
		_ = os.Remove(passLog + "-0.log.mbtree")
	}()

	pass1 := []string{
		"-y", "-i", inPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-b:v", bitrate,
		"-pass", "1",
		"-passlogfile", passLog,
		"-an",
		"-f", "mp4",
		os.DevNull,
	}
	if _, err := p.run(ctx, "ffmpeg", pass1...); err != nil {
		return Probe{}, fmt.Errorf("transcode pass 1: %w", err)
	}

	pass2 := []string{
		"-y", "-i", inPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-b:v", bitrate,
		"-pass", "2",
		"-passlogfile", passLog,
	}
	pass2 = append(pass2, audioArgs...)
	pass2 = append(pass2, outPath)

	if _, err := p.run(ctx, "ffmpeg", pass2...); err != nil {
		return Probe{}, fmt.Errorf("transcode pass 2: %w", err)
	}

	return p.ProbeFile(ctx, outPath)
}

// TrimPreview 从已转码的水印版截取开头片段作为预览, 流复制不再编码.
func (p *Processor) TrimPreview(ctx context.Context, inPath, outPath string, seconds float64) (Probe, error) {
	args := []string{
		"-y", "-i", inPath,
		"-t", strconv.FormatFloat(seconds, 'f', 3, 64),
		"-c", "copy",
		outPath,
	}

	if _, err := p.run(ctx, "ffmpeg", args...); err != nil {
		return Probe{}, fmt.Errorf("trim preview: %w", err)
	}

	return p.ProbeFile(ctx, outPath)
}

// MidpointFrame 抽取视频时间轴中点的一帧并缩放到最长边 maxSize,
// 返回 WebP 编码字节.
func (p *Processor) MidpointFrame(ctx context.Context, inPath string, maxSize int) ([]byte, error) {
	probe, err := p.ProbeFile(ctx, inPath)
	if err != nil {
		return nil, err
	}

	midpoint := float64(probe.DurationMs) / 2000.0
	scale := fmt.Sprintf("scale='min(%d,iw)':-2", maxSize)

	out, err := p.run(ctx, "ffmpeg",
		"-ss", strconv.FormatFloat(midpoint, 'f', 3, 64),
		"-i", inPath,
		"-vframes", "1",
		"-vf", scale,
		"-f", "image2pipe",
		"-vcodec", "libwebp",
		"-",
	)
	if err != nil {
		return nil, fmt.Errorf("extract midpoint frame: %w", err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("extract midpoint frame: empty output for %s", inPath)
	}

	return out, nil
}
