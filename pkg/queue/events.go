package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishVersionCreated 发布 pv.media.version.created 事件。
// 用于某衍生版本落库并写入对象存储后，通知下游流程（如哈希计算、发布闸门复查等）。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishVersionCreated(pub message.Publisher, payload VersionCreatedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMediaVersionCreated, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaVersionCreated, msg)
}

// ParseVersionCreated 将 Watermill 消息解析为强类型 Envelope（VersionCreatedPayload）。
func ParseVersionCreated(msg *message.Message) (Message[VersionCreatedPayload], error) {
	return ParseWatermillMessage[VersionCreatedPayload](msg)
}

// PublishHashComputed 发布 pv.media.hash.computed 事件。
func PublishHashComputed(pub message.Publisher, payload HashComputedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMediaHashComputed, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaHashComputed, msg)
}

// ParseHashComputed 将 Watermill 消息解析为强类型 Envelope（HashComputedPayload）。
func ParseHashComputed(msg *message.Message) (Message[HashComputedPayload], error) {
	return ParseWatermillMessage[HashComputedPayload](msg)
}

// PublishClustered 发布 pv.media.clustered 事件。
func PublishClustered(pub message.Publisher, payload ClusteredPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicMediaClustered, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicMediaClustered, msg)
}

// PublishPostPublished 发布 pv.post.published 事件。
func PublishPostPublished(pub message.Publisher, payload PostPublishedPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicPostPublished, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicPostPublished, msg)
}

// PublishHashTask 投递 pv.task.hash 哈希计算任务。
func PublishHashTask(pub message.Publisher, payload HashTaskPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicTaskHash, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicTaskHash, msg)
}

// ParseHashTask 将 Watermill 消息解析为强类型 Envelope（HashTaskPayload）。
func ParseHashTask(msg *message.Message) (Message[HashTaskPayload], error) {
	return ParseWatermillMessage[HashTaskPayload](msg)
}

// ParseTask 将 Watermill 消息解析为强类型 Envelope（TaskPayload）。
func ParseTask(msg *message.Message) (Message[TaskPayload], error) {
	return ParseWatermillMessage[TaskPayload](msg)
}
