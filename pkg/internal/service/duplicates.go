package service

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/pixelvault/pixelvault/pkg/configs"
	ctxPkg "github.com/pixelvault/pixelvault/pkg/context"
	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/db"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/mq"
	nlog "github.com/pixelvault/pixelvault/pkg/log"
	"github.com/pixelvault/pixelvault/pkg/queue"
)

// DuplicateService 重复簇的维护与复核.
type DuplicateService struct {
	dbClient *db.Client
	mqClient *mq.Client
}

// NewDuplicateService 从 context 获取存储客户端并创建服务.
func NewDuplicateService(c context.Context) *DuplicateService {
	return &DuplicateService{
		dbClient: ctxPkg.GetDBClient(c),
		mqClient: ctxPkg.GetMQClient(c),
	}
}

// Cluster 将媒体项并入 (hash_type, hash_value) 对应的重复簇.
// 簇与成员的创建都依赖唯一约束幂等, 并发调用收敛到同一簇.
// 每次并入后重选簇内最优项.
func (ds *DuplicateService) Cluster(ctx context.Context, itemID, hashTypeID uint, hashName, hashValue string) error {
	cluster := model.DuplicateCluster{
		HashTypeID: hashTypeID,
		HashValue:  hashValue,
		Status:     model.ClusterPending,
	}

	if err := ds.dbClient.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&cluster).Error; err != nil {
		return fmt.Errorf("create cluster: %w", err)
	}

	if cluster.ID == 0 {
		// 并发创建冲突, 读取既有簇
		if err := ds.dbClient.WithContext(ctx).
			Where("hash_type_id = ? AND hash_value = ?", hashTypeID, hashValue).
			First(&cluster).Error; err != nil {
			return fmt.Errorf("load cluster: %w", err)
		}
	}

	member := model.DuplicateClusterMember{
		ClusterID:   cluster.ID,
		MediaItemID: itemID,
	}
	if err := ds.dbClient.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&member).Error; err != nil {
		return fmt.Errorf("add cluster member: %w", err)
	}

	best, err := ds.recomputeBestItem(ctx, cluster.ID)
	if err != nil {
		return err
	}

	payload := queue.ClusteredPayload{
		MediaItemID: itemID,
		ClusterID:   cluster.ID,
		HashName:    hashName,
		HashValue:   hashValue,
		BestItemID:  best,
	}
	if err := queue.PublishClustered(ds.mqClient.Publisher(), payload,
		queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Uint("cluster", cluster.ID).Msg("publish clustered event failed")
	}

	return nil
}

// candidate 最优项评比的候选行.
type candidate struct {
	MediaItemID uint
	Width       int
	Height      int
	FileSize    int64
}

// BestCandidate 在候选中选出质量最优项:
// 原始版本像素面积最大者优先, 面积相同时取文件更大者. 纯函数.
func BestCandidate(candidates []candidate) (uint, bool) {
	var (
		bestID   uint
		bestArea int64 = -1
		bestSize int64 = -1
	)

	for _, c := range candidates {
		area := int64(c.Width) * int64(c.Height)
		if area > bestArea || (area == bestArea && c.FileSize > bestSize) {
			bestID = c.MediaItemID
			bestArea = area
			bestSize = c.FileSize
		}
	}

	return bestID, bestID != 0
}

// recomputeBestItem 重选簇内最优项并更新簇记录.
func (ds *DuplicateService) recomputeBestItem(ctx context.Context, clusterID uint) (uint, error) {
	var candidates []candidate

	err := ds.dbClient.WithContext(ctx).
		Model(&model.DuplicateClusterMember{}).
		Select("duplicate_cluster_members.media_item_id, media_item_versions.width, media_item_versions.height, media_item_versions.file_size").
		Joins("JOIN media_item_versions ON media_item_versions.media_item_id = duplicate_cluster_members.media_item_id AND media_item_versions.version_type = ?", model.VersionOriginal).
		Where("duplicate_cluster_members.cluster_id = ?", clusterID).
		Scan(&candidates).Error
	if err != nil {
		return 0, fmt.Errorf("load cluster candidates: %w", err)
	}

	best, ok := BestCandidate(candidates)
	if !ok {
		return 0, nil
	}

	if err := ds.dbClient.WithContext(ctx).
		Model(&model.DuplicateCluster{}).
		Where("id = ?", clusterID).
		Update("best_item_id", best).Error; err != nil {
		return 0, fmt.Errorf("update best item: %w", err)
	}

	return best, nil
}

// ListClusters 分页列出待复核的重复簇.
func (ds *DuplicateService) ListClusters(ctx context.Context, status model.DuplicateClusterStatus, limit, offset int) ([]model.DuplicateCluster, int64, error) {
	var (
		clusters []model.DuplicateCluster
		total    int64
	)

	q := ds.dbClient.WithContext(ctx).
		Model(&model.DuplicateCluster{}).
		Where("status = ?", status)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count clusters: %w", err)
	}

	if err := q.Preload("Members").
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&clusters).Error; err != nil {
		return nil, 0, fmt.Errorf("list clusters: %w", err)
	}

	return clusters, total, nil
}

// HashTypeNames 返回哈希类型 ID 到算法名的映射.
func (ds *DuplicateService) HashTypeNames(ctx context.Context) (map[uint]string, error) {
	var hashTypes []model.HashType
	if err := ds.dbClient.WithContext(ctx).Find(&hashTypes).Error; err != nil {
		return nil, fmt.Errorf("list hash types: %w", err)
	}

	names := make(map[uint]string, len(hashTypes))
	for _, ht := range hashTypes {
		names[ht.ID] = ht.Name
	}

	return names, nil
}

// Resolve 复核重复簇: confirmed 确认为重复, ignored 标记为误报.
func (ds *DuplicateService) Resolve(ctx context.Context, clusterID uint, status model.DuplicateClusterStatus) error {
	if status != model.ClusterConfirmed && status != model.ClusterIgnored {
		return fmt.Errorf("invalid resolution status: %s", status)
	}

	res := ds.dbClient.WithContext(ctx).
		Model(&model.DuplicateCluster{}).
		Where("id = ?", clusterID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("resolve cluster %d: %w", clusterID, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("cluster %d not found", clusterID)
	}

	return nil
}
