// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"
	"time"

	ctxPkg "github.com/pixelvault/pixelvault/pkg/context"
	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/service"
	"github.com/pixelvault/pixelvault/pkg/internal/storage"
	"github.com/pixelvault/pixelvault/pkg/log"
	"github.com/pixelvault/pixelvault/pkg/scheduler"
)

const backfillBatchSize = 100

// RegisterCronJobs 配置业务定时任务：
//   - 每 15 分钟扫描派生版本不完整的媒体项并补齐排期
//   - 每天 04:00 清理长期停留在 draft 且没有原始文件的媒体项
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	_ = sched.AddCron(JobDerivativeBackfill, CronDerivativeBackfill, func(ctx context.Context) {
		runDerivativeBackfill(ctx, mgr)
	}, baseCtx)

	_ = sched.AddCron(JobStaleDraftCleanup, CronStaleDraftCleanup, func(ctx context.Context) {
		runStaleDraftCleanup(ctx, mgr)
	}, baseCtx)

	return nil
}

// runDerivativeBackfill 为派生版本不完整的媒体项重新排期生成任务。
// EnsureDerivatives 幂等, 已有版本与在途任务不会重复生成.
func runDerivativeBackfill(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobDerivativeBackfill).Logger()

	ids, err := listBackfillCandidates(ctx, mgr)
	if err != nil {
		l.Error().Err(err).Msg("list backfill candidates failed")
		return
	}

	if len(ids) == 0 {
		return
	}

	svc := service.NewMediaService(ctx)

	var planned int
	for _, id := range ids {
		plan, e := svc.EnsureDerivatives(ctx, id, service.EnsureOptions{})
		if e != nil {
			l.Error().Err(e).Uint("item_id", id).Msg("backfill failed")
			continue
		}

		planned += len(plan.Tasks)
	}

	if planned > 0 {
		l.Info().Int("candidates", len(ids)).Int("planned_tasks", planned).Msg("derivative backfill scheduled")
	}
}

// listBackfillCandidates 查询未发布、已有原始文件、但派生版本不完整的媒体项.
// 只回看 updated_at 超过 10 分钟的记录, 避开还在处理中的任务.
func listBackfillCandidates(ctx context.Context, mgr *storage.Manager) ([]uint, error) {
	if mgr == nil || mgr.GetDBClient() == nil || mgr.GetDBClient().GetDB() == nil {
		return nil, fmt.Errorf("db not initialized")
	}

	dbx := mgr.GetDBClient().GetDB().WithContext(ctx)
	cutoff := time.Now().Add(-10 * time.Minute)

	var ids []uint
	err := dbx.Model(&model.MediaItem{}).
		Joins("JOIN media_item_versions ov ON ov.media_item_id = media_items.id AND ov.version_type = ?", model.VersionOriginal).
		Where("media_items.status IN ?", []model.MediaItemStatus{
			model.MediaItemDraft, model.MediaItemPendingModeration, model.MediaItemApproved,
		}).
		Where("media_items.updated_at < ?", cutoff).
		Order("media_items.updated_at ASC").
		Limit(backfillBatchSize).
		Pluck("media_items.id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// runStaleDraftCleanup 软删除 30 天前创建、至今没有任何版本的 draft 媒体项.
// 这类残留来自上传中途失败的请求.
func runStaleDraftCleanup(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobStaleDraftCleanup).Logger()

	if mgr == nil || mgr.GetDBClient() == nil || mgr.GetDBClient().GetDB() == nil {
		l.Error().Msg("db not initialized")
		return
	}

	dbx := mgr.GetDBClient().GetDB().WithContext(ctx)
	before := time.Now().AddDate(0, 0, -30)

	res := dbx.Where("status = ?", model.MediaItemDraft).
		Where("created_at < ?", before).
		Where("NOT EXISTS (SELECT 1 FROM media_item_versions v WHERE v.media_item_id = media_items.id)").
		Delete(&model.MediaItem{})
	if res.Error != nil {
		l.Error().Err(res.Error).Msg("stale draft cleanup failed")
		return
	}

	if res.RowsAffected > 0 {
		l.Info().Int64("affected", res.RowsAffected).Time("before", before).Msg("stale drafts cleaned")
	}
}
