package types

// CreatePostRequest 创建图集请求.
type CreatePostRequest struct {
	Name      string `binding:"required" json:"name"`
	IsBlurred bool   `json:"is_blurred"`
	ItemIDs   []uint `binding:"required,min=1" json:"item_ids"` // 按展示顺序排列
}

// PostInfo 图集摘要.
type PostInfo struct {
	ID             uint   `json:"id"`
	OwnerID        uint   `json:"owner_id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Status         string `json:"status"`
	IsBlurred      bool   `json:"is_blurred"`
	FeaturedItemID *uint  `json:"featured_item_id,omitempty"`
	PublishedAt    string `json:"published_at,omitempty"` // RFC3339
}

// PostMediaInfo 图集内单个媒体项.
type PostMediaInfo struct {
	Position int           `json:"position"`
	Item     MediaItemInfo `json:"item"`
}

// PostResponse 图集详情.
type PostResponse struct {
	Post  PostInfo        `json:"post"`
	Media []PostMediaInfo `json:"media"`
}

// BlockingItem 阻塞发布的媒体项及原因.
type BlockingItem struct {
	MediaItemID     uint     `json:"media_item_id"`
	Reason          string   `json:"reason"`
	MissingVersions []string `json:"missing_versions,omitempty"`
}

// PublishResponse 发布结果. Published 为 false 时 Blocking 说明扣留原因.
type PublishResponse struct {
	Published bool           `json:"published"`
	Post      PostInfo       `json:"post"`
	Blocking  []BlockingItem `json:"blocking,omitempty"`
}
