package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"image"

	"github.com/corona10/goimagehash"
	"gorm.io/gorm/clause"
	"lukechampine.com/blake3"

	"github.com/pixelvault/pixelvault/pkg/configs"
	ctxPkg "github.com/pixelvault/pixelvault/pkg/context"
	"github.com/pixelvault/pixelvault/pkg/internal/imgproc"
	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/db"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/mq"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/s3"
	nlog "github.com/pixelvault/pixelvault/pkg/log"
	"github.com/pixelvault/pixelvault/pkg/queue"
)

// ExactHash 计算文件字节的精确哈希 (BLAKE3-256), 返回十六进制串.
func ExactHash(data []byte) string {
	sum := blake3.Sum256(data)

	return hex.EncodeToString(sum[:])
}

// PerceptualHash 计算图像的感知哈希 (pHash), 返回 16 位十六进制串.
// 视觉相近的图像产生相同或相近的值.
func PerceptualHash(img image.Image) (string, error) {
	h, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return "", fmt.Errorf("perception hash: %w", err)
	}

	return fmt.Sprintf("%016x", h.GetHash()), nil
}

// hashTypeID 按名称取哈希算法记录, 不存在时创建.
func hashTypeID(ctx context.Context, dbc *db.Client, name string) (uint, error) {
	var ht model.HashType
	if err := dbc.WithContext(ctx).
		Where(model.HashType{Name: name}).
		FirstOrCreate(&ht).Error; err != nil {
		return 0, fmt.Errorf("hash type %s: %w", name, err)
	}

	return ht.ID, nil
}

// upsertHash 幂等写入哈希记录, 依赖 (version_id, hash_type_id) 唯一索引.
func upsertHash(ctx context.Context, dbc *db.Client, versionID, typeID uint, value string) error {
	record := model.MediaItemHash{
		VersionID:  versionID,
		HashTypeID: typeID,
		HashValue:  value,
	}

	if err := dbc.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record).Error; err != nil {
		return fmt.Errorf("persist hash: %w", err)
	}

	return nil
}

// HashingService 后台哈希计算与重复聚类触发.
type HashingService struct {
	s3Client *s3.Client
	dbClient *db.Client
	mqClient *mq.Client

	duplicates *DuplicateService
}

// NewHashingService 从 context 获取存储客户端并创建服务.
func NewHashingService(c context.Context) *HashingService {
	return &HashingService{
		s3Client:   ctxPkg.GetS3Client(c),
		dbClient:   ctxPkg.GetDBClient(c),
		mqClient:   ctxPkg.GetMQClient(c),
		duplicates: NewDuplicateService(c),
	}
}

// ComputeHash 执行一个哈希任务: 下载版本文件、计算、落库、触发聚类.
// 幂等: 重复投递时哈希行已存在, 聚类 upsert 同样幂等.
func (hs *HashingService) ComputeHash(ctx context.Context, task queue.HashTaskPayload) error {
	var version model.MediaItemVersion
	if err := hs.dbClient.WithContext(ctx).First(&version, task.VersionID).Error; err != nil {
		return fmt.Errorf("load version %d: %w", task.VersionID, err)
	}

	data, err := hs.s3Client.GetObjectBytes(ctx, version.ObjectKey)
	if err != nil {
		return err
	}

	var value string

	switch task.HashName {
	case model.HashBlake3:
		value = ExactHash(data)
	case model.HashPHash:
		img, _, err := imgproc.Decode(data)
		if err != nil {
			return fmt.Errorf("decode for perceptual hash: %w", err)
		}

		value, err = PerceptualHash(img)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown hash algorithm: %s", task.HashName)
	}

	typeID, err := hashTypeID(ctx, hs.dbClient, task.HashName)
	if err != nil {
		return err
	}

	if err := upsertHash(ctx, hs.dbClient, version.ID, typeID, value); err != nil {
		return err
	}

	payload := queue.HashComputedPayload{
		Version: queue.VersionRef{
			MediaItemID: version.MediaItemID,
			VersionID:   version.ID,
			VersionType: version.VersionType.String(),
			ObjectKey:   version.ObjectKey,
		},
		HashName:  task.HashName,
		HashValue: value,
	}
	if err := queue.PublishHashComputed(hs.mqClient.Publisher(), payload,
		queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Uint("version", version.ID).Msg("publish hash computed failed")
	}

	// 感知哈希命中即聚类, 精确哈希仅在原始版本上聚类
	if task.HashName == model.HashPHash || version.VersionType == model.VersionOriginal {
		if err := hs.duplicates.Cluster(ctx, version.MediaItemID, typeID, task.HashName, value); err != nil {
			return err
		}
	}

	return nil
}
