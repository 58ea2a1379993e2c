package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pixelvault/pixelvault/pkg/configs"
	ctxPkg "github.com/pixelvault/pixelvault/pkg/context"
	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/db"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/mq"
	nlog "github.com/pixelvault/pixelvault/pkg/log"
	"github.com/pixelvault/pixelvault/pkg/queue"
)

// ModerationService 媒体项人工审核.
type ModerationService struct {
	dbClient *db.Client
	mqClient *mq.Client
}

// NewModerationService 从 context 获取存储客户端并创建服务.
func NewModerationService(c context.Context) *ModerationService {
	return &ModerationService{
		dbClient: ctxPkg.GetDBClient(c),
		mqClient: ctxPkg.GetMQClient(c),
	}
}

// Moderate 记录审核结论并迁移媒体项状态.
// 仅允许从 pending_moderation 迁出; 重复审核返回错误.
func (mos *ModerationService) Moderate(ctx context.Context, itemID, moderatorID uint, decision model.ModerationDecision, reason string) (*model.MediaItem, error) {
	var item model.MediaItem

	err := mos.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, itemID).Error; err != nil {
			return fmt.Errorf("load media item %d: %w", itemID, err)
		}

		if item.Status != model.MediaItemPendingModeration {
			return fmt.Errorf("media item %d already moderated (status %s)", itemID, item.Status)
		}

		var target model.MediaItemStatus

		switch decision {
		case model.DecisionApprove:
			target = model.MediaItemApproved
		case model.DecisionReject:
			target = model.MediaItemRejected
		default:
			return fmt.Errorf("unknown moderation decision: %d", decision)
		}

		now := time.Now().UTC()

		if err := tx.Model(&item).Updates(map[string]any{
			"status":       target,
			"moderated_at": now,
		}).Error; err != nil {
			return fmt.Errorf("update media item %d: %w", itemID, err)
		}

		action := model.ModerationAction{
			MediaItemID: &itemID,
			ModeratorID: moderatorID,
			Decision:    decision,
			Reason:      reason,
		}
		if err := tx.Create(&action).Error; err != nil {
			return fmt.Errorf("record moderation action: %w", err)
		}

		item.Status = target
		item.ModeratedAt = &now

		return nil
	})
	if err != nil {
		return nil, err
	}

	decisionName := "approve"
	if decision == model.DecisionReject {
		decisionName = "reject"
	}

	msg, err := queue.NewWatermillMessage(queue.TopicMediaModerated, queue.ModeratedPayload{
		MediaItemID: itemID,
		ModeratorID: moderatorID,
		Decision:    decisionName,
		Reason:      reason,
	}, queue.WithProducer(configs.AppName))
	if err == nil {
		err = mos.mqClient.Publisher().Publish(queue.TopicMediaModerated, msg)
	}

	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("item", itemID).Msg("publish moderated event failed")
	}

	return &item, nil
}

// ModeratePost 记录帖子审核结论并迁移帖子状态.
// 驳回必须给出理由. 批准后立即尝试一次非强制发布,
// 闸门扣留不视为错误, 只记录阻塞项.
func (mos *ModerationService) ModeratePost(ctx context.Context, postID, moderatorID uint, decision model.ModerationDecision, reason string) (*model.Post, error) {
	if decision == model.DecisionReject && reason == "" {
		return nil, fmt.Errorf("rejecting post %d requires a reason", postID)
	}

	var post model.Post

	err := mos.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&post, postID).Error; err != nil {
			return fmt.Errorf("load post %d: %w", postID, err)
		}

		if post.Status != model.PostPendingModeration {
			return fmt.Errorf("post %d already moderated (status %s)", postID, post.Status)
		}

		target := model.PostApproved
		if decision == model.DecisionReject {
			target = model.PostRejected
		}

		if err := tx.Model(&post).Update("status", target).Error; err != nil {
			return fmt.Errorf("update post %d: %w", postID, err)
		}

		action := model.ModerationAction{
			PostID:      &postID,
			ModeratorID: moderatorID,
			Decision:    decision,
			Reason:      reason,
		}
		if err := tx.Create(&action).Error; err != nil {
			return fmt.Errorf("record moderation action: %w", err)
		}

		post.Status = target

		return nil
	})
	if err != nil {
		return nil, err
	}

	if post.Status == model.PostApproved {
		ps := &PublishService{dbClient: mos.dbClient, mqClient: mos.mqClient}

		result, pubErr := ps.PublishPost(ctx, postID, false)

		switch {
		case pubErr != nil:
			nlog.Logger().Warn().Err(pubErr).Uint("post", postID).
				Msg("publish attempt after approval failed")
		case !result.Published:
			nlog.Logger().Info().Uint("post", postID).
				Int("blocking", len(result.Blocking)).
				Msg("post approved, publish held")
		default:
			post = *result.Post
		}
	}

	return &post, nil
}

// PendingQueue 分页列出待审核媒体项, 旧的在前.
func (mos *ModerationService) PendingQueue(ctx context.Context, limit, offset int) ([]model.MediaItem, int64, error) {
	var (
		items []model.MediaItem
		total int64
	)

	q := mos.dbClient.WithContext(ctx).
		Model(&model.MediaItem{}).
		Where("status = ?", model.MediaItemPendingModeration)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count pending items: %w", err)
	}

	if err := q.Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list pending items: %w", err)
	}

	return items, total, nil
}
