// Package model 定义媒体资产、衍生版本、哈希与重复簇的数据库模型.
package model

import (
	"time"

	"gorm.io/gorm"
)

// MediaItemStatus 媒体项生命周期状态.
type MediaItemStatus int

const (
	MediaItemDraft MediaItemStatus = iota
	MediaItemPendingModeration
	MediaItemApproved
	MediaItemPublished
	MediaItemPrivate
	MediaItemRejected
	MediaItemDeleted
	MediaItemArchived
)

// String 返回状态的可读名称.
func (s MediaItemStatus) String() string {
	switch s {
	case MediaItemDraft:
		return "draft"
	case MediaItemPendingModeration:
		return "pending_moderation"
	case MediaItemApproved:
		return "approved"
	case MediaItemPublished:
		return "published"
	case MediaItemPrivate:
		return "private"
	case MediaItemRejected:
		return "rejected"
	case MediaItemDeleted:
		return "deleted"
	case MediaItemArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// MediaType 媒体大类.
type MediaType int

const (
	MediaTypePhoto MediaType = iota + 1
	MediaTypeVideo
)

// String 返回媒体类型的可读名称.
func (t MediaType) String() string {
	switch t {
	case MediaTypePhoto:
		return "photo"
	case MediaTypeVideo:
		return "video"
	default:
		return "unknown"
	}
}

// VersionType 衍生版本类型.
type VersionType int

const (
	VersionOriginal VersionType = iota + 1
	VersionThumbnail
	VersionPreview
	VersionBlurredThumbnail
	VersionBlurredPreview
	VersionWatermarked
)

// String 返回版本类型的可读名称.
func (v VersionType) String() string {
	switch v {
	case VersionOriginal:
		return "original"
	case VersionThumbnail:
		return "thumbnail"
	case VersionPreview:
		return "preview"
	case VersionBlurredThumbnail:
		return "blurred_thumbnail"
	case VersionBlurredPreview:
		return "blurred_preview"
	case VersionWatermarked:
		return "watermarked"
	default:
		return "unknown"
	}
}

// ParseVersionType 按可读名称解析版本类型.
func ParseVersionType(name string) (VersionType, bool) {
	for v := VersionOriginal; v <= VersionWatermarked; v++ {
		if v.String() == name {
			return v, true
		}
	}

	return 0, false
}

// MediaItem 上传的媒体资产.
type MediaItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OwnerID   uint            `gorm:"index;not null" json:"owner_id"`
	MediaType MediaType       `gorm:"not null;index" json:"media_type"`
	Status    MediaItemStatus `gorm:"not null;index;default:0" json:"status"`
	// IsBlurred 标记该项的脱敏版本是否对未授权访问者展示.
	IsBlurred        bool       `gorm:"not null;default:false" json:"is_blurred"`
	OriginalFilename string     `gorm:"size:512" json:"original_filename"`
	LikesCounter     int        `gorm:"not null;default:0" json:"likes_counter"`
	ModeratedAt      *time.Time `json:"moderated_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Versions []MediaItemVersion `gorm:"foreignKey:MediaItemID" json:"versions,omitempty"`
}

// TableName 指定表名.
func (MediaItem) TableName() string { return "media_items" }

// MediaItemVersion 媒体项的某一具体文件版本.
// 同一媒体项下每种版本类型至多一条记录.
type MediaItemVersion struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	MediaItemID uint        `gorm:"not null;uniqueIndex:idx_item_version_type" json:"media_item_id"`
	VersionType VersionType `gorm:"not null;uniqueIndex:idx_item_version_type" json:"version_type"`
	// ObjectKey 对象存储中的键.
	ObjectKey string `gorm:"size:1024;not null" json:"object_key"`
	FileSize  int64  `gorm:"not null;default:0" json:"file_size"`
	Width     int    `gorm:"not null;default:0" json:"width"`
	Height    int    `gorm:"not null;default:0" json:"height"`
	// DurationMs 视频时长, 图片为 0.
	DurationMs int64     `gorm:"not null;default:0" json:"duration_ms"`
	MimeType   string    `gorm:"size:128" json:"mime_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Hashes []MediaItemHash `gorm:"foreignKey:VersionID" json:"hashes,omitempty"`
}

// TableName 指定表名.
func (MediaItemVersion) TableName() string { return "media_item_versions" }

// HashType 哈希算法注册表, 按名称寻址.
type HashType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	// Description 算法说明.
	Description string    `gorm:"size:512" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定表名.
func (HashType) TableName() string { return "hash_types" }

// 内置哈希算法名称.
const (
	HashBlake3 = "blake3"
	HashPHash  = "phash"
)

// MediaItemHash 某版本文件在某算法下的哈希值.
// 同一版本下每种算法至多一条记录.
type MediaItemHash struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	VersionID  uint   `gorm:"not null;uniqueIndex:idx_version_hash_type" json:"version_id"`
	HashTypeID uint   `gorm:"not null;uniqueIndex:idx_version_hash_type" json:"hash_type_id"`
	HashValue  string `gorm:"size:128;not null;index" json:"hash_value"`
	CreatedAt  time.Time `json:"created_at"`

	HashType HashType `gorm:"foreignKey:HashTypeID" json:"hash_type,omitempty"`
}

// TableName 指定表名.
func (MediaItemHash) TableName() string { return "media_item_hashes" }

// DuplicateClusterStatus 重复簇的复核状态.
type DuplicateClusterStatus int

const (
	ClusterPending DuplicateClusterStatus = iota
	ClusterConfirmed
	ClusterIgnored
)

// String 返回簇状态的可读名称.
func (s DuplicateClusterStatus) String() string {
	switch s {
	case ClusterPending:
		return "pending"
	case ClusterConfirmed:
		return "confirmed"
	case ClusterIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// DuplicateCluster 共享同一哈希值的媒体项集合.
// (hash_type_id, hash_value) 全局唯一, 并发创建依赖该约束去重.
type DuplicateCluster struct {
	ID         uint                   `gorm:"primaryKey" json:"id"`
	HashTypeID uint                   `gorm:"not null;uniqueIndex:idx_cluster_hash" json:"hash_type_id"`
	HashValue  string                 `gorm:"size:128;not null;uniqueIndex:idx_cluster_hash" json:"hash_value"`
	Status     DuplicateClusterStatus `gorm:"not null;default:0;index" json:"status"`
	// BestItemID 簇内质量最优的媒体项, 可能尚未选出.
	BestItemID *uint     `json:"best_item_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Members []DuplicateClusterMember `gorm:"foreignKey:ClusterID" json:"members,omitempty"`
}

// TableName 指定表名.
func (DuplicateCluster) TableName() string { return "duplicate_clusters" }

// DuplicateClusterMember 簇成员关系.
type DuplicateClusterMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClusterID   uint      `gorm:"not null;uniqueIndex:idx_cluster_member" json:"cluster_id"`
	MediaItemID uint      `gorm:"not null;uniqueIndex:idx_cluster_member;index" json:"media_item_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定表名.
func (DuplicateClusterMember) TableName() string { return "duplicate_cluster_members" }

// ModerationDecision 审核结论.
type ModerationDecision int

const (
	DecisionApprove ModerationDecision = iota + 1
	DecisionReject
)

// ModerationAction 审核操作留痕. 针对媒体项或帖子, 二者居其一.
type ModerationAction struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	MediaItemID *uint              `gorm:"index" json:"media_item_id,omitempty"`
	PostID      *uint              `gorm:"index" json:"post_id,omitempty"`
	ModeratorID uint               `gorm:"not null" json:"moderator_id"`
	Decision    ModerationDecision `gorm:"not null" json:"decision"`
	Reason      string             `gorm:"size:1024" json:"reason"`
	CreatedAt   time.Time          `json:"created_at"`
}

// TableName 指定表名.
func (ModerationAction) TableName() string { return "moderation_actions" }
