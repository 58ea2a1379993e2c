package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/videoproc"
	"github.com/pixelvault/pixelvault/pkg/queue"
)

// ProcessVideoTask 执行一个视频衍生任务. 可安全重复调用.
// 链条顺序由投递方保证: 预览与缩略图都以水印版为输入,
// 只会在水印版落库之后被投递.
func (ms *MediaService) ProcessVideoTask(ctx context.Context, task queue.TaskPayload) error {
	vt := versionForTask(task.Kind)
	if vt == 0 {
		return fmt.Errorf("no target version for task %s", task.Kind)
	}

	skip, err := ms.skipIfExists(ctx, task.MediaItemID, vt)
	if err != nil || skip {
		return err
	}

	switch task.Kind {
	case queue.TaskVideoWatermarked:
		return ms.videoWatermark(ctx, task.MediaItemID)
	case queue.TaskVideoPreview:
		return ms.videoPreview(ctx, task.MediaItemID)
	case queue.TaskVideoThumbnail:
		return ms.videoThumbnail(ctx, task.MediaItemID)
	default:
		return fmt.Errorf("not a video task: %s", task.Kind)
	}
}

// fetchToTemp 将某版本文件下载到临时目录, 返回本地路径与清理函数.
func (ms *MediaService) fetchToTemp(ctx context.Context, itemID uint, vt model.VersionType) (string, func(), error) {
	version, err := ms.findVersion(ctx, itemID, vt)
	if err != nil {
		return "", nil, fmt.Errorf("%s version for item %d: %w", vt, itemID, err)
	}

	dir, err := os.MkdirTemp("", "pixelvault-video-")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}

	cleanup := func() { _ = os.RemoveAll(dir) }

	localPath := filepath.Join(dir, "input"+filepath.Ext(version.ObjectKey))
	if err := ms.s3Client.FGetObject(ctx, version.ObjectKey, localPath); err != nil {
		cleanup()

		return "", nil, err
	}

	return localPath, cleanup, nil
}

// videoWatermark 两遍法转码并烧入水印, 产物是后续链条步骤的输入.
func (ms *MediaService) videoWatermark(ctx context.Context, itemID uint) error {
	snap := ms.settings.Snapshot(ctx)

	inPath, cleanup, err := ms.fetchToTemp(ctx, itemID, model.VersionOriginal)
	if err != nil {
		return err
	}
	defer cleanup()

	outPath := filepath.Join(filepath.Dir(inPath), "watermarked.mp4")

	probe, err := ms.video.WatermarkTranscode(ctx, inPath, outPath,
		snap.WatermarkTextFull, snap.MaxVideoBitrate, snap.VideoCRF)
	if err != nil {
		return fmt.Errorf("watermark transcode item %d: %w", itemID, err)
	}

	return ms.storeVideoFile(ctx, itemID, model.VersionWatermarked, outPath, probe)
}

// videoPreview 从水印版截取开头片段.
func (ms *MediaService) videoPreview(ctx context.Context, itemID uint) error {
	snap := ms.settings.Snapshot(ctx)

	inPath, cleanup, err := ms.fetchToTemp(ctx, itemID, model.VersionWatermarked)
	if err != nil {
		return err
	}
	defer cleanup()

	outPath := filepath.Join(filepath.Dir(inPath), "preview.mp4")

	probe, err := ms.video.TrimPreview(ctx, inPath, outPath, snap.VideoPreviewDuration.Seconds())
	if err != nil {
		return fmt.Errorf("trim preview item %d: %w", itemID, err)
	}

	return ms.storeVideoFile(ctx, itemID, model.VersionPreview, outPath, probe)
}

// videoThumbnail 从水印版抽取中点帧.
func (ms *MediaService) videoThumbnail(ctx context.Context, itemID uint) error {
	snap := ms.settings.Snapshot(ctx)

	inPath, cleanup, err := ms.fetchToTemp(ctx, itemID, model.VersionWatermarked)
	if err != nil {
		return err
	}
	defer cleanup()

	frame, err := ms.video.MidpointFrame(ctx, inPath, snap.ThumbnailSize)
	if err != nil {
		return fmt.Errorf("midpoint frame item %d: %w", itemID, err)
	}

	key := newObjectKey(model.VersionThumbnail, ".webp")
	if err := ms.s3Client.PutObject(ctx, key, frame, "image/webp"); err != nil {
		return err
	}

	version, created, err := ms.upsertVersion(ctx, itemID, model.VersionThumbnail, versionAttrs{
		ObjectKey: key,
		FileSize:  int64(len(frame)),
		MimeType:  "image/webp",
	})
	if err != nil {
		return err
	}

	ms.publishVersionCreated(version, !created)

	return nil
}

// storeVideoFile 上传本地转码产物并落库版本记录.
func (ms *MediaService) storeVideoFile(ctx context.Context, itemID uint, vt model.VersionType, localPath string, probe videoproc.Probe) error {
	key := newObjectKey(vt, ".mp4")

	size, err := ms.s3Client.FPutObject(ctx, key, localPath, "video/mp4")
	if err != nil {
		return err
	}

	version, created, err := ms.upsertVersion(ctx, itemID, vt, versionAttrs{
		ObjectKey:  key,
		FileSize:   size,
		Width:      probe.Width,
		Height:     probe.Height,
		DurationMs: probe.DurationMs,
		MimeType:   "video/mp4",
	})
	if err != nil {
		return err
	}

	ms.publishVersionCreated(version, !created)

	return nil
}
