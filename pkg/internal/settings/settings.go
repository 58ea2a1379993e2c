// Package settings 提供媒体流水线参数的分层解析.
// 取值优先级: 数据库 settings 表 > 配置文件/环境变量 > 编译期默认值.
// 每次构建的 Snapshot 不可变, 同一任务全程使用同一份参数.
package settings

import (
	"context"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/pixelvault/pixelvault/pkg/configs"
	ctxPkg "github.com/pixelvault/pixelvault/pkg/context"
	"github.com/pixelvault/pixelvault/pkg/internal/model"
	dbc "github.com/pixelvault/pixelvault/pkg/internal/storage/db"
	kvc "github.com/pixelvault/pixelvault/pkg/internal/storage/kv"
	nlog "github.com/pixelvault/pixelvault/pkg/log"
)

// Snapshot 某一时刻生效的媒体流水线参数.
type Snapshot struct {
	PreviewQuality          int           `json:"preview_quality"`
	WatermarkedQuality      int           `json:"watermarked_quality"`
	BlurredThumbnailQuality int           `json:"blurred_thumbnail_quality"`
	BlurredPreviewQuality   int           `json:"blurred_preview_quality"`
	ThumbnailSize           int           `json:"thumbnail_size"`
	PreviewSize             int           `json:"preview_size"`
	ThumbnailBlurRadius     float64       `json:"thumbnail_blur_radius"`
	PreviewBlurRadius       float64       `json:"preview_blur_radius"`
	ItemBlurProbability     float64       `json:"item_blur_probability"`
	WatermarkTextPreview    string        `json:"watermark_text_preview"`
	WatermarkTextFull       string        `json:"watermark_text_full"`
	MaxVideoBitrate         int           `json:"max_video_bitrate"`
	VideoCRF                int           `json:"video_crf"`
	VideoPreviewDuration    time.Duration `json:"video_preview_duration"`
	TaskTimeout             time.Duration `json:"task_timeout"`
	TaskMaxRetries          int           `json:"task_max_retries"`
}

// fromConfig 以当前配置为基底构建快照.
func fromConfig(cfg *configs.MediaConfig) Snapshot {
	return Snapshot{
		PreviewQuality:          cfg.PreviewQuality,
		WatermarkedQuality:      cfg.WatermarkedQuality,
		BlurredThumbnailQuality: cfg.BlurredThumbnailQuality,
		BlurredPreviewQuality:   cfg.BlurredPreviewQuality,
		ThumbnailSize:           cfg.ThumbnailSize,
		PreviewSize:             cfg.PreviewSize,
		ThumbnailBlurRadius:     cfg.ThumbnailBlurRadius,
		PreviewBlurRadius:       cfg.PreviewBlurRadius,
		ItemBlurProbability:     cfg.ItemBlurProbability,
		WatermarkTextPreview:    cfg.WatermarkTextPreview,
		WatermarkTextFull:       cfg.WatermarkTextFull,
		MaxVideoBitrate:         cfg.MaxVideoBitrate,
		VideoCRF:                cfg.VideoCRF,
		VideoPreviewDuration:    cfg.VideoPreviewDuration,
		TaskTimeout:             cfg.TaskTimeout,
		TaskMaxRetries:          cfg.TaskMaxRetries,
	}
}

const (
	cacheKey = "settings:media"
	cacheTTL = 30 * time.Second
)

// Provider 构建媒体参数快照.
type Provider struct {
	db *dbc.Client
	kv *kvc.Client
}

// NewProvider 从 context 获取存储客户端并创建 Provider.
func NewProvider(ctx context.Context) *Provider {
	return &Provider{
		db: ctxPkg.GetDBClient(ctx),
		kv: ctxPkg.GetKVClient(ctx),
	}
}

// Snapshot 构建当前生效的参数快照.
// 数据库覆盖层经 KV 短暂缓存; 覆盖层读取失败时退回配置值, 不阻断任务.
func (p *Provider) Snapshot(ctx context.Context) Snapshot {
	snap := fromConfig(&configs.GetConfig().Media)

	overrides, err := p.loadOverrides(ctx)
	if err != nil {
		nlog.Logger().Warn().Err(err).Msg("settings overrides unavailable, using config values")

		return snap
	}

	applyOverrides(&snap, overrides)

	return snap
}

// loadOverrides 读取数据库覆盖层, 优先命中 KV 缓存.
func (p *Provider) loadOverrides(ctx context.Context) (map[string]string, error) {
	if p.kv != nil {
		if data, err := p.kv.Get(ctx, cacheKey); err == nil {
			var cached map[string]string
			if err := sonic.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	if p.db == nil {
		return nil, nil
	}

	var rows []model.Setting
	if err := p.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	overrides := make(map[string]string, len(rows))
	for _, row := range rows {
		overrides[row.Key] = row.Value
	}

	if p.kv != nil {
		if data, err := sonic.Marshal(overrides); err == nil {
			_ = p.kv.Set(ctx, cacheKey, data, cacheTTL)
		}
	}

	return overrides, nil
}

// applyOverrides 将字符串覆盖值解析进快照, 解析失败的键保留原值.
func applyOverrides(snap *Snapshot, overrides map[string]string) {
	for key, raw := range overrides {
		switch key {
		case "media.preview_quality":
			setInt(&snap.PreviewQuality, key, raw)
		case "media.watermarked_quality":
			setInt(&snap.WatermarkedQuality, key, raw)
		case "media.blurred_thumbnail_quality":
			setInt(&snap.BlurredThumbnailQuality, key, raw)
		case "media.blurred_preview_quality":
			setInt(&snap.BlurredPreviewQuality, key, raw)
		case "media.thumbnail_size":
			setInt(&snap.ThumbnailSize, key, raw)
		case "media.preview_size":
			setInt(&snap.PreviewSize, key, raw)
		case "media.thumbnail_blur_radius":
			setFloat(&snap.ThumbnailBlurRadius, key, raw)
		case "media.preview_blur_radius":
			setFloat(&snap.PreviewBlurRadius, key, raw)
		case "media.item_blur_probability":
			setFloat(&snap.ItemBlurProbability, key, raw)
		case "media.watermark_text_preview":
			snap.WatermarkTextPreview = raw
		case "media.watermark_text_full":
			snap.WatermarkTextFull = raw
		case "media.max_video_bitrate":
			setInt(&snap.MaxVideoBitrate, key, raw)
		case "media.video_crf":
			setInt(&snap.VideoCRF, key, raw)
		case "media.video_preview_duration":
			setDuration(&snap.VideoPreviewDuration, key, raw)
		case "media.task_timeout":
			setDuration(&snap.TaskTimeout, key, raw)
		case "media.task_max_retries":
			setInt(&snap.TaskMaxRetries, key, raw)
		default:
			// 未知键留给其它子系统, 不告警
		}
	}
}

func setInt(dst *int, key, raw string) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		nlog.Logger().Warn().Str("key", key).Str("value", raw).Msg("invalid int override")

		return
	}

	*dst = v
}

func setFloat(dst *float64, key, raw string) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		nlog.Logger().Warn().Str("key", key).Str("value", raw).Msg("invalid float override")

		return
	}

	*dst = v
}

func setDuration(dst *time.Duration, key, raw string) {
	v, err := time.ParseDuration(raw)
	if err != nil {
		nlog.Logger().Warn().Str("key", key).Str("value", raw).Msg("invalid duration override")

		return
	}

	*dst = v
}
