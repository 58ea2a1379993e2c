package types

// ModerateRequest 审核决定请求.
type ModerateRequest struct {
	Decision string `binding:"required,oneof=approve reject" json:"decision"`
	Reason   string `json:"reason,omitempty"` // 驳回时建议填写
}

// ModerateResponse 审核结果.
type ModerateResponse struct {
	Item MediaItemInfo `json:"item"`
}

// ModeratePostResponse 帖子审核结果.
type ModeratePostResponse struct {
	Post PostInfo `json:"post"`
}

// ModerationQueueResponse 待审核队列.
type ModerationQueueResponse struct {
	Total int64           `json:"total"`
	Items []MediaItemInfo `json:"items"`
}
