// Package videoproc 封装外部 ffmpeg/ffprobe 调用:
// 元数据探测、两遍法水印转码、预览片段截取与中点帧抽取.
// 所有外部调用经过熔断器, 避免转码工具故障时任务雪崩.
package videoproc

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sony/gobreaker"

	"github.com/pixelvault/pixelvault/pkg/cache"
	"github.com/pixelvault/pixelvault/pkg/configs"
	nlog "github.com/pixelvault/pixelvault/pkg/log"
)

// Probe 视频元数据.
type Probe struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	DurationMs int64  `json:"duration_ms"`
	BitRate    int    `json:"bit_rate"`
	VideoCodec string `json:"video_codec"`
	HasAudio   bool   `json:"has_audio"`
}

// Processor 执行视频处理操作.
type Processor struct {
	breaker    *gobreaker.CircuitBreaker
	probeCache *cache.Cache
}

// NewProcessor 创建视频处理器.
// probeCache 可为 nil, 此时每次探测都会执行 ffprobe.
func NewProcessor(probeCache *cache.Cache) *Processor {
	cfg := configs.GetConfig().CircuitBreaker

	settings := gobreaker.Settings{
		Name:        "ffmpeg",
		MaxRequests: cfg.MaxRequestsInHalf,
		Interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}

			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			nlog.Logger().Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Processor{
		breaker:    gobreaker.NewCircuitBreaker(settings),
		probeCache: probeCache,
	}
}

// run 经熔断器执行外部命令, 返回 stdout.
func (p *Processor) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := p.breaker.Execute(func() (any, error) {
		cmd := exec.CommandContext(ctx, name, args...)

		var stdout, stderr bytes.Buffer

		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("%s: %w, stderr: %s", name, err, stderr.String())
		}

		return stdout.Bytes(), nil
	})
	if err != nil {
		return nil, err
	}

	data, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected breaker result type", name)
	}

	return data, nil
}

// ffprobe 输出的 JSON 片段.
type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		BitRate   string `json:"bit_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
}

const probeCacheTTL = 10 * time.Minute

// ProbeFile 探测本地视频文件的元数据, 结果按路径短暂缓存.
func (p *Processor) ProbeFile(ctx context.Context, path string) (Probe, error) {
	if p.probeCache != nil {
		if cached, err := cache.Get[Probe](ctx, p.probeCache, "probe:"+path); err == nil {
			return cached, nil
		}
	}

	out, err := p.run(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return Probe{}, fmt.Errorf("probe %s: %w", path, err)
	}

	var raw probeOutput
	if err := sonic.Unmarshal(out, &raw); err != nil {
		return Probe{}, fmt.Errorf("parse probe output: %w", err)
	}

	probe := Probe{}

	for _, s := range raw.Streams {
		switch s.CodecType {
		case "video":
			probe.Width = s.Width
			probe.Height = s.Height
			probe.VideoCodec = s.CodecName

			if probe.BitRate == 0 {
				if br, err := strconv.Atoi(s.BitRate); err == nil {
					probe.BitRate = br
				}
			}
		case "audio":
			probe.HasAudio = true
		}
	}

	if dur, err := strconv.ParseFloat(raw.Format.Duration, 64); err == nil {
		probe.DurationMs = int64(dur * 1000)
	}

	// 流级码率缺失时退回容器级码率
	if probe.BitRate == 0 {
		if br, err := strconv.Atoi(raw.Format.BitRate); err == nil {
			probe.BitRate = br
		}
	}

	if probe.Width == 0 || probe.Height == 0 {
		return Probe{}, fmt.Errorf("probe %s: no video stream found", path)
	}

	if p.probeCache != nil {
		_ = cache.Set(ctx, p.probeCache, "probe:"+path, probe, probeCacheTTL)
	}

	return probe, nil
}
