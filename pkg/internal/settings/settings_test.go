package settings

import (
	"testing"
	"time"
)

func baseSnapshot() Snapshot {
	return Snapshot{
		PreviewQuality:       80,
		WatermarkedQuality:   90,
		ThumbnailSize:        300,
		PreviewSize:          800,
		PreviewBlurRadius:    5.0,
		ItemBlurProbability:  0.5,
		WatermarkTextPreview: "pixelvault",
		VideoCRF:             18,
		VideoPreviewDuration: 10 * time.Second,
		TaskTimeout:          5 * time.Minute,
		TaskMaxRetries:       3,
	}
}

func TestApplyOverrides(t *testing.T) {
	snap := baseSnapshot()

	applyOverrides(&snap, map[string]string{
		"media.preview_quality":        "65",
		"media.thumbnail_size":         "256",
		"media.item_blur_probability":  "0.75",
		"media.watermark_text_preview": "example.org",
		"media.video_preview_duration": "15s",
		"media.task_max_retries":       "5",
	})

	if snap.PreviewQuality != 65 {
		t.Errorf("preview quality: expected 65, got %d", snap.PreviewQuality)
	}

	if snap.ThumbnailSize != 256 {
		t.Errorf("thumbnail size: expected 256, got %d", snap.ThumbnailSize)
	}

	if snap.ItemBlurProbability != 0.75 {
		t.Errorf("blur probability: expected 0.75, got %f", snap.ItemBlurProbability)
	}

	if snap.WatermarkTextPreview != "example.org" {
		t.Errorf("watermark text: expected example.org, got %s", snap.WatermarkTextPreview)
	}

	if snap.VideoPreviewDuration != 15*time.Second {
		t.Errorf("preview duration: expected 15s, got %s", snap.VideoPreviewDuration)
	}

	if snap.TaskMaxRetries != 5 {
		t.Errorf("max retries: expected 5, got %d", snap.TaskMaxRetries)
	}

	// 未覆盖的键保持基底值
	if snap.WatermarkedQuality != 90 {
		t.Errorf("untouched key changed: %d", snap.WatermarkedQuality)
	}
}

func TestApplyOverridesInvalidValuesKeepBase(t *testing.T) {
	snap := baseSnapshot()

	applyOverrides(&snap, map[string]string{
		"media.preview_quality":       "not-a-number",
		"media.item_blur_probability": "half",
		"media.task_timeout":          "soon",
	})

	if snap.PreviewQuality != 80 {
		t.Errorf("invalid int override must keep base value, got %d", snap.PreviewQuality)
	}

	if snap.ItemBlurProbability != 0.5 {
		t.Errorf("invalid float override must keep base value, got %f", snap.ItemBlurProbability)
	}

	if snap.TaskTimeout != 5*time.Minute {
		t.Errorf("invalid duration override must keep base value, got %s", snap.TaskTimeout)
	}
}

func TestApplyOverridesUnknownKeyIgnored(t *testing.T) {
	snap := baseSnapshot()

	applyOverrides(&snap, map[string]string{
		"other.subsystem.key": "42",
	})

	if snap != baseSnapshot() {
		t.Error("unknown keys must not modify the snapshot")
	}
}
