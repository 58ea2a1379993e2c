package configs

import (
	"time"

	"github.com/spf13/viper"
)

// MediaConfig 媒体衍生版本流水线的可调参数.
// 这里的值是编译期默认值, 会被配置文件与运行时 settings 覆盖层依次覆盖.
type MediaConfig struct {
	// PreviewQuality 预览图 JPEG 质量.
	PreviewQuality int `mapstructure:"preview_quality"           rule:"min=1,max=100"`
	// WatermarkedQuality 全尺寸水印版 JPEG 质量.
	WatermarkedQuality int `mapstructure:"watermarked_quality"   rule:"min=1,max=100"`
	// BlurredThumbnailQuality 脱敏缩略图 JPEG 质量.
	BlurredThumbnailQuality int `mapstructure:"blurred_thumbnail_quality" rule:"min=1,max=100"`
	// BlurredPreviewQuality 脱敏预览图 JPEG 质量.
	BlurredPreviewQuality int `mapstructure:"blurred_preview_quality"   rule:"min=1,max=100"`

	// ThumbnailSize 缩略图最长边像素.
	ThumbnailSize int `mapstructure:"thumbnail_size" rule:"min=16"`
	// PreviewSize 预览图最长边像素.
	PreviewSize int `mapstructure:"preview_size"   rule:"min=16"`

	// ThumbnailBlurRadius 脱敏缩略图高斯模糊半径.
	ThumbnailBlurRadius float64 `mapstructure:"thumbnail_blur_radius" rule:"min=0"`
	// PreviewBlurRadius 脱敏预览图高斯模糊半径.
	PreviewBlurRadius float64 `mapstructure:"preview_blur_radius"   rule:"min=0"`

	// ItemBlurProbability 新上传项被随机标记为脱敏展示的概率.
	ItemBlurProbability float64 `mapstructure:"item_blur_probability" rule:"min=0,max=1"`

	// WatermarkTextPreview 预览版水印文本.
	WatermarkTextPreview string `mapstructure:"watermark_text_preview"`
	// WatermarkTextFull 全尺寸水印版水印文本.
	WatermarkTextFull string `mapstructure:"watermark_text_full"`

	// MaxVideoBitrate 视频转码目标码率上限 (bps).
	MaxVideoBitrate int `mapstructure:"max_video_bitrate" rule:"min=1"`
	// VideoCRF 码率探测不可用时的恒定质量因子.
	VideoCRF int `mapstructure:"video_crf" rule:"min=0,max=51"`
	// VideoPreviewDuration 视频预览片段时长.
	VideoPreviewDuration time.Duration `mapstructure:"video_preview_duration"`

	// TaskTimeout 单个衍生任务的处理超时.
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
	// TaskMaxRetries 任务失败后的最大重试次数, 超出后进入死信主题.
	TaskMaxRetries int `mapstructure:"task_max_retries" rule:"min=0"`
}

// setDefaults 设置媒体流水线配置的默认值.
func (c *MediaConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("media.preview_quality", 80)
	v.SetDefault("media.watermarked_quality", 90)
	v.SetDefault("media.blurred_thumbnail_quality", 70)
	v.SetDefault("media.blurred_preview_quality", 70)

	v.SetDefault("media.thumbnail_size", 300)
	v.SetDefault("media.preview_size", 800)

	v.SetDefault("media.thumbnail_blur_radius", 5.0)
	v.SetDefault("media.preview_blur_radius", 5.0)

	v.SetDefault("media.item_blur_probability", 0.5)

	v.SetDefault("media.watermark_text_preview", "pixelvault")
	v.SetDefault("media.watermark_text_full", "pixelvault")

	const defaultMaxVideoBitrate = 5_000_000 // 5 Mbps
	v.SetDefault("media.max_video_bitrate", defaultMaxVideoBitrate)
	v.SetDefault("media.video_crf", 18)
	v.SetDefault("media.video_preview_duration", "10s")

	v.SetDefault("media.task_timeout", "5m")
	v.SetDefault("media.task_max_retries", 3)
}
