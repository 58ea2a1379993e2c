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

// PublishService 帖子发布闸门.
type PublishService struct {
	dbClient *db.Client
	mqClient *mq.Client
}

// NewPublishService 从 context 获取存储客户端并创建服务.
func NewPublishService(c context.Context) *PublishService {
	return &PublishService{
		dbClient: ctxPkg.GetDBClient(c),
		mqClient: ctxPkg.GetMQClient(c),
	}
}

// PublishResult 发布尝试的结果.
type PublishResult struct {
	Published bool
	Post      *model.Post
	// Blocking 为空表示闸门放行.
	Blocking []queue.BlockingReason
}

// PublishPost 尝试发布帖子.
// 在单个事务内对帖子与成员媒体项加行锁, 逐项检查审核状态与
// 衍生版本完备性; 任一项未就绪则整帖拦截, 不做部分发布.
// force 只豁免帖子级审核状态前置条件, 成员检查依然全量执行.
// 放行时帖子与已批准成员一并转为 published, 并选定封面项.
func (ps *PublishService) PublishPost(ctx context.Context, postID uint, force bool) (*PublishResult, error) {
	var (
		result  PublishResult
		post    model.Post
		itemIDs []uint
	)

	err := ps.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&post, postID).Error; err != nil {
			return fmt.Errorf("load post %d: %w", postID, err)
		}

		if post.Status == model.PostPublished {
			result.Published = true

			return nil
		}

		if post.Status != model.PostApproved && !force {
			return fmt.Errorf("post %d not publishable from status %s", postID, post.Status)
		}

		var members []model.PostMedia
		if err := tx.Where("post_id = ?", postID).
			Order("position ASC").
			Find(&members).Error; err != nil {
			return fmt.Errorf("load post media: %w", err)
		}

		if len(members) == 0 {
			result.Blocking = append(result.Blocking, queue.BlockingReason{
				Reason: "post has no media",
			})

			return nil
		}

		for _, m := range members {
			itemIDs = append(itemIDs, m.MediaItemID)
		}

		var items []model.MediaItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Versions").
			Where("id IN ?", itemIDs).
			Find(&items).Error; err != nil {
			return fmt.Errorf("load post items: %w", err)
		}

		byID := make(map[uint]*model.MediaItem, len(items))
		for i := range items {
			byID[items[i].ID] = &items[i]
		}

		for _, m := range members {
			item, ok := byID[m.MediaItemID]
			if !ok {
				result.Blocking = append(result.Blocking, queue.BlockingReason{
					MediaItemID: m.MediaItemID,
					Reason:      "media item missing",
				})

				continue
			}

			result.Blocking = append(result.Blocking, checkItemReady(item, post.IsBlurred)...)
		}

		if len(result.Blocking) > 0 {
			return nil
		}

		now := time.Now().UTC()

		// 已批准成员随帖子一并上线
		if err := tx.Model(&model.MediaItem{}).
			Where("id IN ? AND status = ?", itemIDs, model.MediaItemApproved).
			Update("status", model.MediaItemPublished).Error; err != nil {
			return fmt.Errorf("publish post items: %w", err)
		}

		updates := map[string]any{
			"status":       model.PostPublished,
			"published_at": now,
		}

		if post.FeaturedItemID == nil {
			if featured, ok := ChooseFeatured(members, items); ok {
				updates["featured_item_id"] = featured
				post.FeaturedItemID = &featured
			}
		}

		if err := tx.Model(&model.Post{}).
			Where("id = ?", postID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("publish post %d: %w", postID, err)
		}

		post.Status = model.PostPublished
		post.PublishedAt = &now
		result.Published = true

		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Post = &post

	ps.publishOutcome(&post, &result, itemIDs)

	return &result, nil
}

// checkItemReady 检查单个媒体项是否可随帖发布.
func checkItemReady(item *model.MediaItem, postBlurred bool) []queue.BlockingReason {
	var blocking []queue.BlockingReason

	switch item.Status {
	case model.MediaItemApproved, model.MediaItemPublished:
		// 就绪状态
	case model.MediaItemPendingModeration, model.MediaItemDraft:
		blocking = append(blocking, queue.BlockingReason{
			MediaItemID: item.ID,
			Reason:      "awaiting moderation",
		})
	default:
		blocking = append(blocking, queue.BlockingReason{
			MediaItemID: item.ID,
			Reason:      fmt.Sprintf("not publishable from status %s", item.Status),
		})
	}

	required := RequiredVersions(item.MediaType, item.IsBlurred || postBlurred)

	if missing := MissingVersions(required, item.Versions); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, v := range missing {
			names = append(names, v.String())
		}

		blocking = append(blocking, queue.BlockingReason{
			MediaItemID:     item.ID,
			Reason:          "derivative versions missing",
			MissingVersions: names,
		})
	}

	return blocking
}

// ChooseFeatured 选定帖子封面项: 位置最靠前的图片, 没有图片时取首个成员. 纯函数.
func ChooseFeatured(members []model.PostMedia, items []model.MediaItem) (uint, bool) {
	if len(members) == 0 {
		return 0, false
	}

	byID := make(map[uint]*model.MediaItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	for _, m := range members {
		if item, ok := byID[m.MediaItemID]; ok && item.MediaType == model.MediaTypePhoto {
			return m.MediaItemID, true
		}
	}

	return members[0].MediaItemID, true
}

// publishOutcome 发布闸门结果事件, 失败只记录.
func (ps *PublishService) publishOutcome(post *model.Post, result *PublishResult, itemIDs []uint) {
	var err error

	if result.Published {
		err = queue.PublishPostPublished(ps.mqClient.Publisher(), queue.PostPublishedPayload{
			PostID:      post.ID,
			OwnerID:     post.OwnerID,
			ItemIDs:     itemIDs,
			PublishedAt: post.PublishedAt,
		}, queue.WithProducer(configs.AppName))
	} else {
		held, buildErr := queue.NewWatermillMessage(queue.TopicPostPublishHeld, queue.PostPublishHeldPayload{
			PostID:   post.ID,
			Blocking: result.Blocking,
		}, queue.WithProducer(configs.AppName))
		if buildErr != nil {
			err = buildErr
		} else {
			err = ps.mqClient.Publisher().Publish(queue.TopicPostPublishHeld, held)
		}
	}

	if err != nil {
		nlog.Logger().Warn().Err(err).Uint("post", post.ID).Msg("publish gate event failed")
	}
}
