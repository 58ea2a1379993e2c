package service

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gorm.io/gorm"

	"github.com/pixelvault/pixelvault/pkg/configs"
	"github.com/pixelvault/pixelvault/pkg/internal/imgproc"
	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/settings"
	nlog "github.com/pixelvault/pixelvault/pkg/log"
	"github.com/pixelvault/pixelvault/pkg/queue"
)

// EnsureOptions 控制补齐行为.
type EnsureOptions struct {
	// PostBlurred 所属帖子的脱敏标记, 会并入脱敏判定.
	PostBlurred bool
	// Regenerate 为 true 时忽略已有版本, 先清除再重建.
	Regenerate bool
	// Subset 限定处理的版本类型, nil 表示确定器的完整需求集.
	Subset []model.VersionType
}

// EnsureDerivatives 补齐媒体项缺失的衍生版本.
// 计算缺失集并投递任务: 图片为互相独立的任务组, 视频为严格链条.
func (ms *MediaService) EnsureDerivatives(ctx context.Context, itemID uint, opts EnsureOptions) (Plan, error) {
	item, err := ms.loadItem(ctx, itemID)
	if err != nil {
		return Plan{}, err
	}

	plan := PlanVersions(item.MediaType, item.IsBlurred || opts.PostBlurred,
		item.Versions, opts.Subset, opts.Regenerate)
	if len(plan.Tasks) == 0 {
		return plan, nil
	}

	if opts.Regenerate {
		if err := ms.purgeVersions(ctx, item, plan.Missing); err != nil {
			return Plan{}, err
		}
	}

	if plan.Ordered {
		err = queue.SubmitChain(ms.mqClient.Publisher(), itemID, plan.Tasks,
			queue.WithProducer(configs.AppName))
	} else {
		err = queue.SubmitGroup(ms.mqClient.Publisher(), itemID, plan.Tasks,
			queue.WithProducer(configs.AppName))
	}

	if err != nil {
		return Plan{}, fmt.Errorf("submit derivative tasks for item %d: %w", itemID, err)
	}

	nlog.Logger().Info().
		Uint("item", itemID).
		Int("tasks", len(plan.Tasks)).
		Bool("ordered", plan.Ordered).
		Msg("derivative tasks submitted")

	return plan, nil
}

// purgeVersions 删除指定类型的既有版本行与对象, 为重建让路.
// 原始版本永不删除.
func (ms *MediaService) purgeVersions(ctx context.Context, item *model.MediaItem, targets []model.VersionType) error {
	wanted := make(map[model.VersionType]bool, len(targets))
	for _, v := range targets {
		if v != model.VersionOriginal {
			wanted[v] = true
		}
	}

	for i := range item.Versions {
		v := &item.Versions[i]
		if !wanted[v.VersionType] {
			continue
		}

		if v.ObjectKey != "" {
			if err := ms.s3Client.RemoveObject(ctx, v.ObjectKey); err != nil {
				return fmt.Errorf("remove object %s: %w", v.ObjectKey, err)
			}
		}

		if err := ms.dbClient.WithContext(ctx).
			Delete(&model.MediaItemVersion{}, v.ID).Error; err != nil {
			return fmt.Errorf("delete version %d: %w", v.ID, err)
		}

		nlog.Logger().Info().
			Uint("item", item.ID).
			Str("version", v.VersionType.String()).
			Msg("version purged for regeneration")
	}

	return nil
}

// versionForTask 任务种类对应的目标版本类型.
func versionForTask(kind queue.TaskKind) model.VersionType {
	switch kind {
	case queue.TaskPhotoThumbnail, queue.TaskVideoThumbnail:
		return model.VersionThumbnail
	case queue.TaskPhotoPreview, queue.TaskVideoPreview:
		return model.VersionPreview
	case queue.TaskPhotoWatermarked, queue.TaskVideoWatermarked:
		return model.VersionWatermarked
	case queue.TaskPhotoBlurredThumbnail:
		return model.VersionBlurredThumbnail
	case queue.TaskPhotoBlurredPreview:
		return model.VersionBlurredPreview
	default:
		return 0
	}
}

// skipIfExists 幂等检查: 目标版本已存在时发布复用事件并跳过.
func (ms *MediaService) skipIfExists(ctx context.Context, itemID uint, vt model.VersionType) (bool, error) {
	existing, err := ms.findVersion(ctx, itemID, vt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("check existing version: %w", err)
	}

	ms.publishVersionCreated(existing, true)

	return true, nil
}

// ProcessImageTask 执行一个图片衍生任务. 可安全重复调用.
func (ms *MediaService) ProcessImageTask(ctx context.Context, task queue.TaskPayload) error {
	vt := versionForTask(task.Kind)
	if vt == 0 {
		return fmt.Errorf("no target version for task %s", task.Kind)
	}

	skip, err := ms.skipIfExists(ctx, task.MediaItemID, vt)
	if err != nil || skip {
		return err
	}

	original, err := ms.findVersion(ctx, task.MediaItemID, model.VersionOriginal)
	if err != nil {
		return fmt.Errorf("original version for item %d: %w", task.MediaItemID, err)
	}

	data, err := ms.s3Client.GetObjectBytes(ctx, original.ObjectKey)
	if err != nil {
		return err
	}

	img, _, err := imgproc.Decode(data)
	if err != nil {
		return fmt.Errorf("decode original for item %d: %w", task.MediaItemID, err)
	}

	snap := ms.settings.Snapshot(ctx)

	out, quality, err := renderImageVersion(img, task.Kind, snap)
	if err != nil {
		return err
	}

	encoded, err := imgproc.EncodeJPEG(out, quality)
	if err != nil {
		return err
	}

	key := newObjectKey(vt, ".jpg")
	if err := ms.s3Client.PutObject(ctx, key, encoded, "image/jpeg"); err != nil {
		return err
	}

	bounds := out.Bounds()
	version, created, err := ms.upsertVersion(ctx, task.MediaItemID, vt, versionAttrs{
		ObjectKey: key,
		FileSize:  int64(len(encoded)),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		MimeType:  "image/jpeg",
	})
	if err != nil {
		return err
	}

	ms.publishVersionCreated(version, !created)

	return nil
}

// renderImageVersion 按任务种类渲染图像, 返回结果与编码质量. 纯函数.
func renderImageVersion(img image.Image, kind queue.TaskKind, snap settings.Snapshot) (image.Image, int, error) {
	switch kind {
	case queue.TaskPhotoThumbnail:
		return imgproc.Fit(img, snap.ThumbnailSize), snap.PreviewQuality, nil

	case queue.TaskPhotoPreview:
		resized := imgproc.Fit(img, snap.PreviewSize)

		marked, err := imgproc.WatermarkCorner(resized, snap.WatermarkTextPreview)
		if err != nil {
			return nil, 0, err
		}

		return marked, snap.PreviewQuality, nil

	case queue.TaskPhotoWatermarked:
		marked, err := imgproc.WatermarkRandom(img, snap.WatermarkTextFull)
		if err != nil {
			return nil, 0, err
		}

		return marked, snap.WatermarkedQuality, nil

	case queue.TaskPhotoBlurredThumbnail:
		resized := imgproc.Fit(img, snap.ThumbnailSize)

		return imgproc.Blur(resized, snap.ThumbnailBlurRadius), snap.BlurredThumbnailQuality, nil

	case queue.TaskPhotoBlurredPreview:
		resized := imgproc.Fit(img, snap.PreviewSize)

		return imgproc.Blur(resized, snap.PreviewBlurRadius), snap.BlurredPreviewQuality, nil

	default:
		return nil, 0, fmt.Errorf("not an image task: %s", kind)
	}
}
