package model

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus 帖子生命周期状态.
type PostStatus int

const (
	PostDraft PostStatus = iota
	PostPendingModeration
	PostApproved
	PostPublished
	PostPrivate
	PostRejected
	PostDeleted
	PostArchived
)

// String 返回帖子状态的可读名称.
func (s PostStatus) String() string {
	switch s {
	case PostDraft:
		return "draft"
	case PostPendingModeration:
		return "pending_moderation"
	case PostApproved:
		return "approved"
	case PostPublished:
		return "published"
	case PostPrivate:
		return "private"
	case PostRejected:
		return "rejected"
	case PostDeleted:
		return "deleted"
	case PostArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// Post 由若干媒体项组成的发布单元.
type Post struct {
	ID      uint       `gorm:"primaryKey" json:"id"`
	OwnerID uint       `gorm:"index;not null" json:"owner_id"`
	Status  PostStatus `gorm:"not null;index;default:0" json:"status"`
	Name    string     `gorm:"size:512" json:"name"`
	Slug    string     `gorm:"size:512;uniqueIndex" json:"slug"`
	// IsBlurred 帖子级脱敏标记, 会向下传导到成员媒体项的版本规划.
	IsBlurred bool `gorm:"not null;default:false" json:"is_blurred"`
	// FeaturedItemID 列表页封面使用的媒体项.
	FeaturedItemID *uint          `json:"featured_item_id,omitempty"`
	LikesCounter   int            `gorm:"not null;default:0" json:"likes_counter"`
	PublishedAt    *time.Time     `json:"published_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Media []PostMedia `gorm:"foreignKey:PostID" json:"media,omitempty"`
}

// TableName 指定表名.
func (Post) TableName() string { return "posts" }

// PostMedia 帖子与媒体项的有序关联.
type PostMedia struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	PostID      uint `gorm:"not null;uniqueIndex:idx_post_item" json:"post_id"`
	MediaItemID uint `gorm:"not null;uniqueIndex:idx_post_item;index" json:"media_item_id"`
	// Position 帖内展示顺序, 从 0 开始.
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`

	MediaItem MediaItem `gorm:"foreignKey:MediaItemID" json:"media_item,omitempty"`
}

// TableName 指定表名.
func (PostMedia) TableName() string { return "post_media" }

// AllModels 返回需要自动迁移的全部模型.
func AllModels() []any {
	return []any{
		&MediaItem{},
		&MediaItemVersion{},
		&HashType{},
		&MediaItemHash{},
		&DuplicateCluster{},
		&DuplicateClusterMember{},
		&ModerationAction{},
		&Post{},
		&PostMedia{},
		&Setting{},
	}
}
