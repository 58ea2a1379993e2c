package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 衍生任务领域 --------------------------

// TaskPayload 单个衍生任务.
// 图片任务单独投递, 互相独立; 视频任务通过 Chain 携带剩余步骤,
// 当前步骤落库提交后由工作进程投递下一步, 保证严格顺序.
type TaskPayload struct {
	Kind        TaskKind `json:"kind"`
	MediaItemID uint     `json:"media_item_id"`
	// Chain 当前步骤之后仍需执行的任务, 为空表示链条结束.
	Chain []TaskKind `json:"chain,omitempty"`
	// Attempt 冗余记录的投递次数, 重试由消息中间件驱动.
	Attempt int `json:"attempt,omitempty"`
}

// HashTaskPayload 哈希计算任务.
type HashTaskPayload struct {
	MediaItemID uint `json:"media_item_id"`
	VersionID   uint `json:"version_id"`
	// HashName 算法名称, 见 model 包的内置哈希常量.
	HashName string `json:"hash_name"`
}

// DeadTaskPayload 进入死信主题的任务快照.
type DeadTaskPayload struct {
	SourceTopic string `json:"source_topic"`
	MessageID   string `json:"message_id,omitempty"`
	Error       string `json:"error,omitempty"`
	// Raw 原始消息体, 供人工排查与重放.
	Raw []byte `json:"raw,omitempty"`
}

// -------------------------- 媒体事件领域 --------------------------

// VersionRef 标识媒体项的某个衍生版本.
type VersionRef struct {
	MediaItemID uint   `json:"media_item_id"`
	VersionID   uint   `json:"version_id"`
	VersionType string `json:"version_type"`
	ObjectKey   string `json:"object_key,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// VersionCreatedPayload 某衍生版本落库并写入对象存储.
type VersionCreatedPayload struct {
	Version VersionRef `json:"version"`
	// Reused 表示该版本此前已存在, 本次任务直接复用.
	Reused bool `json:"reused,omitempty"`
}

// VersionFailedPayload 某衍生版本生成失败（重试耗尽）.
type VersionFailedPayload struct {
	MediaItemID uint   `json:"media_item_id"`
	VersionType string `json:"version_type"`
	Error       string `json:"error"`
}

// HashComputedPayload 某版本文件的哈希计算完成.
type HashComputedPayload struct {
	Version   VersionRef `json:"version"`
	HashName  string     `json:"hash_name"`
	HashValue string     `json:"hash_value"`
}

// ClusteredPayload 媒体项被并入重复簇.
type ClusteredPayload struct {
	MediaItemID uint   `json:"media_item_id"`
	ClusterID   uint   `json:"cluster_id"`
	HashName    string `json:"hash_name"`
	HashValue   string `json:"hash_value"`
	// BestItemID 簇内当前最优项.
	BestItemID uint `json:"best_item_id,omitempty"`
}

// ModeratedPayload 审核结论落库.
type ModeratedPayload struct {
	MediaItemID uint   `json:"media_item_id"`
	ModeratorID uint   `json:"moderator_id"`
	Decision    string `json:"decision"` // approve / reject
	Reason      string `json:"reason,omitempty"`
}

// -------------------------- 帖子领域 --------------------------

// PostPublishedPayload 帖子通过发布闸门并上线.
type PostPublishedPayload struct {
	PostID      uint       `json:"post_id"`
	OwnerID     uint       `json:"owner_id"`
	ItemIDs     []uint     `json:"item_ids,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// PostPublishHeldPayload 发布被闸门拦截.
type PostPublishHeldPayload struct {
	PostID uint `json:"post_id"`
	// Blocking 逐项说明哪些媒体尚未就绪.
	Blocking []BlockingReason `json:"blocking"`
}

// BlockingReason 单个媒体项未就绪的原因.
type BlockingReason struct {
	MediaItemID uint   `json:"media_item_id"`
	Reason      string `json:"reason"`
	// MissingVersions 缺失的衍生版本类型名称.
	MissingVersions []string `json:"missing_versions,omitempty"`
}
