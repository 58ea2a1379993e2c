package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"mime"
	"path/filepath"
	"strings"

	"github.com/pixelvault/pixelvault/pkg/configs"
	"github.com/pixelvault/pixelvault/pkg/internal/imgproc"
	"github.com/pixelvault/pixelvault/pkg/internal/model"
	nlog "github.com/pixelvault/pixelvault/pkg/log"
	"github.com/pixelvault/pixelvault/pkg/queue"
)

// DuplicateUploadError 上传内容与已有媒体项逐字节相同.
// 闸门在写任何行之前拦截, 调用方据此返回已有项.
type DuplicateUploadError struct {
	ExistingItemID uint
}

func (e *DuplicateUploadError) Error() string {
	return fmt.Sprintf("exact duplicate of media item %d", e.ExistingItemID)
}

// IngestResult 上传接收的结果.
type IngestResult struct {
	Item *model.MediaItem
	// Original 原始版本记录.
	Original *model.MediaItemVersion
	// Thumbnail 图片上传时同步生成的缩略图, 视频为 nil.
	Thumbnail *model.MediaItemVersion
	// Plan 已投递的异步任务计划.
	Plan Plan
}

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".webm": true,
	".avi": true, ".m4v": true, ".mpg": true, ".mpeg": true,
}

// detectMediaType 按内容识别图片, 否则按扩展名识别视频.
func detectMediaType(filename string, data []byte) (model.MediaType, error) {
	if _, _, err := imgproc.Decode(data); err == nil {
		return model.MediaTypePhoto, nil
	}

	if videoExts[strings.ToLower(filepath.Ext(filename))] {
		return model.MediaTypeVideo, nil
	}

	return 0, fmt.Errorf("unsupported media format: %s", filename)
}

func contentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}

	return "application/octet-stream"
}

// Ingest 接收一次上传.
// 先计算精确哈希并过重复闸门, 闸门拦截时不写任何行;
// 通过后落库媒体项与原始版本, 图片同步生成缩略图,
// 其余衍生版本投递异步任务.
func (ms *MediaService) Ingest(ctx context.Context, ownerID uint, filename string, data []byte) (*IngestResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload: %s", filename)
	}

	exact := ExactHash(data)

	// 重复闸门: 精确哈希命中任一原始版本即拦截
	if existingID, err := ms.findExactDuplicate(ctx, exact); err != nil {
		return nil, err
	} else if existingID != 0 {
		return nil, &DuplicateUploadError{ExistingItemID: existingID}
	}

	mediaType, err := detectMediaType(filename, data)
	if err != nil {
		return nil, err
	}

	snap := ms.settings.Snapshot(ctx)

	item := model.MediaItem{
		OwnerID:          ownerID,
		MediaType:        mediaType,
		Status:           model.MediaItemPendingModeration,
		IsBlurred:        rand.Float64() < snap.ItemBlurProbability,
		OriginalFilename: filename,
	}
	if err := ms.dbClient.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create media item: %w", err)
	}

	original, err := ms.storeOriginal(ctx, &item, filename, data)
	if err != nil {
		return nil, err
	}

	if err := ms.persistHash(ctx, original.ID, model.HashBlake3, exact); err != nil {
		return nil, err
	}

	result := &IngestResult{Item: &item, Original: original}

	if mediaType == model.MediaTypePhoto {
		thumb, err := ms.createPhotoThumbnail(ctx, &item, data, snap.ThumbnailSize, snap.PreviewQuality)
		if err != nil {
			// 缩略图失败不回滚上传, 补偿扫描会重试
			nlog.Logger().Error().Err(err).Uint("item", item.ID).Msg("synchronous thumbnail failed")
		} else {
			result.Thumbnail = thumb
		}

		// 感知哈希后台计算, 用于近似重复聚类
		ms.enqueuePerceptualHash(&item, original)
	}

	plan, err := ms.EnsureDerivatives(ctx, item.ID, EnsureOptions{})
	if err != nil {
		return nil, err
	}

	result.Plan = plan

	return result, nil
}

// findExactDuplicate 查找精确哈希命中的已有媒体项, 未命中返回 0.
func (ms *MediaService) findExactDuplicate(ctx context.Context, hashValue string) (uint, error) {
	typeID, err := hashTypeID(ctx, ms.dbClient, model.HashBlake3)
	if err != nil {
		return 0, err
	}

	var itemID uint

	err = ms.dbClient.WithContext(ctx).
		Model(&model.MediaItemHash{}).
		Select("media_item_versions.media_item_id").
		Joins("JOIN media_item_versions ON media_item_versions.id = media_item_hashes.version_id").
		Where("media_item_hashes.hash_type_id = ? AND media_item_hashes.hash_value = ?", typeID, hashValue).
		Where("media_item_versions.version_type = ?", model.VersionOriginal).
		Limit(1).
		Scan(&itemID).Error
	if err != nil {
		return 0, fmt.Errorf("exact duplicate lookup: %w", err)
	}

	return itemID, nil
}

// storeOriginal 上传原始文件并落库原始版本记录.
func (ms *MediaService) storeOriginal(ctx context.Context, item *model.MediaItem, filename string, data []byte) (*model.MediaItemVersion, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := newObjectKey(model.VersionOriginal, ext)
	contentType := contentTypeFor(filename)

	if err := ms.s3Client.PutObject(ctx, key, data, contentType); err != nil {
		return nil, err
	}

	attrs := versionAttrs{
		ObjectKey: key,
		FileSize:  int64(len(data)),
		MimeType:  contentType,
	}

	if item.MediaType == model.MediaTypePhoto {
		if _, meta, err := imgproc.Decode(data); err == nil {
			attrs.Width = meta.Width
			attrs.Height = meta.Height
		}
	}

	version, _, err := ms.upsertVersion(ctx, item.ID, model.VersionOriginal, attrs)
	if err != nil {
		return nil, err
	}

	ms.publishVersionCreated(version, false)

	return version, nil
}

// createPhotoThumbnail 同步生成图片缩略图, 上传后立即可用于列表页.
func (ms *MediaService) createPhotoThumbnail(ctx context.Context, item *model.MediaItem, data []byte, maxSize, quality int) (*model.MediaItemVersion, error) {
	img, _, err := imgproc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode for thumbnail: %w", err)
	}

	thumb := imgproc.Fit(img, maxSize)

	encoded, err := imgproc.EncodeJPEG(thumb, quality)
	if err != nil {
		return nil, err
	}

	key := newObjectKey(model.VersionThumbnail, ".jpg")
	if err := ms.s3Client.PutObject(ctx, key, encoded, "image/jpeg"); err != nil {
		return nil, err
	}

	bounds := thumb.Bounds()
	version, created, err := ms.upsertVersion(ctx, item.ID, model.VersionThumbnail, versionAttrs{
		ObjectKey: key,
		FileSize:  int64(len(encoded)),
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		MimeType:  "image/jpeg",
	})
	if err != nil {
		return nil, err
	}

	ms.publishVersionCreated(version, !created)

	return version, nil
}

// enqueuePerceptualHash 投递感知哈希任务, 失败只记录.
func (ms *MediaService) enqueuePerceptualHash(item *model.MediaItem, original *model.MediaItemVersion) {
	payload := queue.HashTaskPayload{
		MediaItemID: item.ID,
		VersionID:   original.ID,
		HashName:    model.HashPHash,
	}

	if err := queue.PublishHashTask(ms.mqClient.Publisher(), payload,
		queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Uint("item", item.ID).Msg("enqueue perceptual hash failed")
	}
}

// persistHash 幂等写入某版本的哈希记录.
func (ms *MediaService) persistHash(ctx context.Context, versionID uint, hashName, hashValue string) error {
	typeID, err := hashTypeID(ctx, ms.dbClient, hashName)
	if err != nil {
		return err
	}

	return upsertHash(ctx, ms.dbClient, versionID, typeID, hashValue)
}
