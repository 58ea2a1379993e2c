package service

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid"
	"gorm.io/gorm/clause"

	"github.com/pixelvault/pixelvault/pkg/cache"
	"github.com/pixelvault/pixelvault/pkg/configs"
	ctxPkg "github.com/pixelvault/pixelvault/pkg/context"
	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/settings"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/db"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/kv"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/mq"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/s3"
	"github.com/pixelvault/pixelvault/pkg/internal/videoproc"
	nlog "github.com/pixelvault/pixelvault/pkg/log"
	"github.com/pixelvault/pixelvault/pkg/queue"
)

var keyEntropy = ulid.Monotonic(crand.Reader, 0)

// MediaService 媒体项的接收、衍生版本生成与查询.
type MediaService struct {
	s3Client *s3.Client
	dbClient *db.Client
	mqClient *mq.Client
	kvClient *kv.Client

	settings *settings.Provider
	video    *videoproc.Processor
}

// NewMediaService 从 context 获取存储客户端并创建服务.
func NewMediaService(c context.Context) *MediaService {
	kvc := ctxPkg.GetKVClient(c)

	var probeCache *cache.Cache
	if kvc != nil {
		probeCache = cache.NewCache(kvc.KVStore)
	}

	return &MediaService{
		s3Client: ctxPkg.GetS3Client(c),
		dbClient: ctxPkg.GetDBClient(c),
		mqClient: ctxPkg.GetMQClient(c),
		kvClient: kvc,
		settings: settings.NewProvider(c),
		video:    videoproc.NewProcessor(probeCache),
	}
}

// newObjectKey 生成某版本类型的对象键, 以版本类型名作前缀.
func newObjectKey(vt model.VersionType, ext string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), keyEntropy)

	return fmt.Sprintf("%s/%s%s", vt.String(), id.String(), ext)
}

// versionAttrs 落库版本记录时的文件属性.
type versionAttrs struct {
	ObjectKey  string
	FileSize   int64
	Width      int
	Height     int
	DurationMs int64
	MimeType   string
}

// upsertVersion 幂等写入版本记录.
// 依赖 (media_item_id, version_type) 唯一索引, 冲突时不覆盖,
// 返回最终生效的记录与是否为本次新建.
func (ms *MediaService) upsertVersion(ctx context.Context, itemID uint, vt model.VersionType, attrs versionAttrs) (*model.MediaItemVersion, bool, error) {
	version := model.MediaItemVersion{
		MediaItemID: itemID,
		VersionType: vt,
		ObjectKey:   attrs.ObjectKey,
		FileSize:    attrs.FileSize,
		Width:       attrs.Width,
		Height:      attrs.Height,
		DurationMs:  attrs.DurationMs,
		MimeType:    attrs.MimeType,
	}

	res := ms.dbClient.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&version)
	if res.Error != nil {
		return nil, false, fmt.Errorf("create version %s for item %d: %w", vt, itemID, res.Error)
	}

	if res.RowsAffected == 0 {
		// 并发任务已写入, 读取既有记录
		var existing model.MediaItemVersion
		if err := ms.dbClient.WithContext(ctx).
			Where("media_item_id = ? AND version_type = ?", itemID, vt).
			First(&existing).Error; err != nil {
			return nil, false, fmt.Errorf("load existing version %s for item %d: %w", vt, itemID, err)
		}

		return &existing, false, nil
	}

	return &version, true, nil
}

// findVersion 查找媒体项的某个版本, 不存在时返回 gorm.ErrRecordNotFound.
func (ms *MediaService) findVersion(ctx context.Context, itemID uint, vt model.VersionType) (*model.MediaItemVersion, error) {
	var version model.MediaItemVersion
	if err := ms.dbClient.WithContext(ctx).
		Where("media_item_id = ? AND version_type = ?", itemID, vt).
		First(&version).Error; err != nil {
		return nil, err
	}

	return &version, nil
}

// loadItem 加载媒体项及其全部版本.
func (ms *MediaService) loadItem(ctx context.Context, itemID uint) (*model.MediaItem, error) {
	var item model.MediaItem
	if err := ms.dbClient.WithContext(ctx).
		Preload("Versions").
		First(&item, itemID).Error; err != nil {
		return nil, fmt.Errorf("load media item %d: %w", itemID, err)
	}

	return &item, nil
}

// GetItem 查询媒体项详情.
func (ms *MediaService) GetItem(ctx context.Context, itemID uint) (*model.MediaItem, error) {
	return ms.loadItem(ctx, itemID)
}

// publishVersionCreated 发布版本落库事件, 失败只记录不阻断.
func (ms *MediaService) publishVersionCreated(version *model.MediaItemVersion, reused bool) {
	payload := queue.VersionCreatedPayload{
		Version: queue.VersionRef{
			MediaItemID: version.MediaItemID,
			VersionID:   version.ID,
			VersionType: version.VersionType.String(),
			ObjectKey:   version.ObjectKey,
			FileSize:    version.FileSize,
			Width:       version.Width,
			Height:      version.Height,
		},
		Reused: reused,
	}

	if err := queue.PublishVersionCreated(ms.mqClient.Publisher(), payload,
		queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).
			Uint("item", version.MediaItemID).
			Str("version", version.VersionType.String()).
			Msg("publish version created event failed")
	}
}
