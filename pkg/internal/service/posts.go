package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	ctxPkg "github.com/pixelvault/pixelvault/pkg/context"
	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/db"
	"github.com/pixelvault/pixelvault/pkg/internal/storage/mq"
)

// PostService 帖子的组织与查询.
type PostService struct {
	dbClient *db.Client
	mqClient *mq.Client
}

// NewPostService 从 context 获取存储客户端并创建服务.
func NewPostService(c context.Context) *PostService {
	return &PostService{
		dbClient: ctxPkg.GetDBClient(c),
		mqClient: ctxPkg.GetMQClient(c),
	}
}

// slugify 将帖子名转为 URL 友好的 slug.
func slugify(name string) string {
	var b strings.Builder

	lastDash := true // 抑制前导连字符

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)

			lastDash = false
		case !lastDash:
			b.WriteByte('-')

			lastDash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// CreatePost 创建帖子并按顺序关联媒体项.
// 所有媒体项必须属于同一 owner; slug 冲突时追加帖子 ID.
func (pos *PostService) CreatePost(ctx context.Context, ownerID uint, name string, blurred bool, itemIDs []uint) (*model.Post, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("post needs at least one media item")
	}

	var count int64
	if err := pos.dbClient.WithContext(ctx).
		Model(&model.MediaItem{}).
		Where("id IN ? AND owner_id = ?", itemIDs, ownerID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("verify post items: %w", err)
	}

	if count != int64(len(itemIDs)) {
		return nil, fmt.Errorf("some media items missing or not owned by user %d", ownerID)
	}

	post := model.Post{
		OwnerID:   ownerID,
		Status:    model.PostPendingModeration,
		Name:      name,
		Slug:      slugify(name),
		IsBlurred: blurred,
	}

	err := pos.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&model.Post{}).
			Where("slug = ?", post.Slug).
			Count(&taken).Error; err != nil {
			return fmt.Errorf("check slug: %w", err)
		}

		if taken > 0 {
			post.Slug = fmt.Sprintf("%s-%d", post.Slug, time.Now().UnixMilli())
		}

		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}

		for i, itemID := range itemIDs {
			pm := model.PostMedia{
				PostID:      post.ID,
				MediaItemID: itemID,
				Position:    i,
			}
			if err := tx.Create(&pm).Error; err != nil {
				return fmt.Errorf("attach media item %d: %w", itemID, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// GetPost 加载帖子及其有序媒体成员.
func (pos *PostService) GetPost(ctx context.Context, postID uint) (*model.Post, error) {
	var post model.Post
	if err := pos.dbClient.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("post_media.position ASC")
		}).
		Preload("Media.MediaItem").
		Preload("Media.MediaItem.Versions").
		First(&post, postID).Error; err != nil {
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}

	return &post, nil
}
