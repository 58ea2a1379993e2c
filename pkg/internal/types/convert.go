package types

import (
	"time"

	"github.com/pixelvault/pixelvault/pkg/internal/model"
)

// NewVersionInfo 从模型转换版本摘要.
func NewVersionInfo(v *model.MediaItemVersion) VersionInfo {
	return VersionInfo{
		ID:         v.ID,
		Type:       v.VersionType.String(),
		ObjectKey:  v.ObjectKey,
		FileSize:   v.FileSize,
		Width:      v.Width,
		Height:     v.Height,
		DurationMs: v.DurationMs,
		MimeType:   v.MimeType,
	}
}

// NewMediaItemInfo 从模型转换媒体项摘要（含已加载的版本）.
func NewMediaItemInfo(item *model.MediaItem) MediaItemInfo {
	info := MediaItemInfo{
		ID:        item.ID,
		OwnerID:   item.OwnerID,
		MediaType: item.MediaType.String(),
		Status:    item.Status.String(),
		IsBlurred: item.IsBlurred,
	}
	for i := range item.Versions {
		info.Versions = append(info.Versions, NewVersionInfo(&item.Versions[i]))
	}

	return info
}

// NewPostInfo 从模型转换图集摘要.
func NewPostInfo(post *model.Post) PostInfo {
	info := PostInfo{
		ID:             post.ID,
		OwnerID:        post.OwnerID,
		Name:           post.Name,
		Slug:           post.Slug,
		Status:         post.Status.String(),
		IsBlurred:      post.IsBlurred,
		FeaturedItemID: post.FeaturedItemID,
	}
	if post.PublishedAt != nil {
		info.PublishedAt = post.PublishedAt.Format(time.RFC3339)
	}

	return info
}

// NewClusterInfo 从模型转换重复簇摘要. hashName 为簇哈希算法名.
func NewClusterInfo(cluster *model.DuplicateCluster, hashName string) ClusterInfo {
	info := ClusterInfo{
		ID:         cluster.ID,
		HashType:   hashName,
		HashValue:  cluster.HashValue,
		Status:     cluster.Status.String(),
		BestItemID: cluster.BestItemID,
	}
	for i := range cluster.Members {
		info.Members = append(info.Members, ClusterMemberInfo{MediaItemID: cluster.Members[i].MediaItemID})
	}

	return info
}
