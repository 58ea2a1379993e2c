// Package types 定义 HTTP 层的请求与响应结构.
package types

// VersionInfo 单个媒体版本的摘要.
type VersionInfo struct {
	ID         uint   `json:"id"`
	Type       string `json:"type"`        // 版本类型 (ORIGINAL/THUMBNAIL/...)
	ObjectKey  string `json:"object_key"`  // 对象存储键
	FileSize   int64  `json:"file_size"`   // 字节数
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"` // 视频时长（毫秒）
	MimeType   string `json:"mime_type,omitempty"`
}

// MediaItemInfo 媒体项摘要.
type MediaItemInfo struct {
	ID        uint          `json:"id"`
	OwnerID   uint          `json:"owner_id"`
	MediaType string        `json:"media_type"` // photo / video
	Status    string        `json:"status"`
	IsBlurred bool          `json:"is_blurred"`
	Versions  []VersionInfo `json:"versions,omitempty"`
}

// UploadResponse 上传接收结果.
type UploadResponse struct {
	Item         MediaItemInfo `json:"item"`
	Original     VersionInfo   `json:"original"`
	Thumbnail    *VersionInfo  `json:"thumbnail,omitempty"`    // 图片同步生成的缩略图
	PlannedTasks []string      `json:"planned_tasks,omitempty"` // 已入队的派生任务
}

// DuplicateUploadResponse 逐字节重复上传的冲突响应.
type DuplicateUploadResponse struct {
	Error          string `json:"error"`
	ExistingItemID uint   `json:"existing_item_id"` // 已存在的媒体项
}

// EnsureDerivativesRequest 补齐派生版本请求.
type EnsureDerivativesRequest struct {
	PostBlurred bool `json:"post_blurred"` // 所属图集是否模糊（决定模糊版本需求）
	Regenerate  bool `json:"regenerate"`   // 忽略已有版本, 清除后重建
	// Subset 限定处理的版本类型名称, 空表示完整需求集.
	Subset []string `json:"subset"`
}

// EnsureDerivativesResponse 补齐派生版本结果.
type EnsureDerivativesResponse struct {
	Missing      []string `json:"missing"`       // 缺失的版本类型
	PlannedTasks []string `json:"planned_tasks"` // 已入队的任务
	Ordered      bool     `json:"ordered"`       // 任务是否链式有序执行
}
