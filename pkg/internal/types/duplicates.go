package types

// ClusterMemberInfo 重复簇成员.
type ClusterMemberInfo struct {
	MediaItemID uint `json:"media_item_id"`
}

// ClusterInfo 重复簇摘要.
type ClusterInfo struct {
	ID         uint                `json:"id"`
	HashType   string              `json:"hash_type"`
	HashValue  string              `json:"hash_value"`
	Status     string              `json:"status"`
	BestItemID *uint               `json:"best_item_id,omitempty"` // 自动挑选的最优成员
	Members    []ClusterMemberInfo `json:"members,omitempty"`
}

// ClusterListResponse 重复簇列表.
type ClusterListResponse struct {
	Total    int64         `json:"total"`
	Clusters []ClusterInfo `json:"clusters"`
}

// ResolveClusterRequest 人工处置重复簇.
type ResolveClusterRequest struct {
	Status string `binding:"required,oneof=confirmed ignored" json:"status"`
}
