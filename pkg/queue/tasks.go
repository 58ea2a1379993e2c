package queue

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
)

// TaskKind 衍生任务种类, 闭集枚举.
// 新增任务种类时必须同步扩展 Topic 与工作进程的分发 switch,
// 编译器的 exhaustive 检查配合测试保证两端不漏.
type TaskKind int

const (
	TaskUnknown TaskKind = iota
	// TaskPhotoThumbnail 图片缩略图（上传时同步生成, 补偿扫描仍可投递）.
	TaskPhotoThumbnail
	// TaskPhotoPreview 图片预览图.
	TaskPhotoPreview
	// TaskPhotoWatermarked 全尺寸水印图.
	TaskPhotoWatermarked
	// TaskPhotoBlurredThumbnail 脱敏缩略图.
	TaskPhotoBlurredThumbnail
	// TaskPhotoBlurredPreview 脱敏预览图.
	TaskPhotoBlurredPreview
	// TaskVideoWatermarked 视频水印转码, 视频链条的第一步.
	TaskVideoWatermarked
	// TaskVideoPreview 视频预览片段, 依赖水印版产物.
	TaskVideoPreview
	// TaskVideoThumbnail 视频中点帧缩略图, 链条最后一步.
	TaskVideoThumbnail
)

// String 返回任务种类的可读名称.
func (k TaskKind) String() string {
	switch k {
	case TaskPhotoThumbnail:
		return "photo_thumbnail"
	case TaskPhotoPreview:
		return "photo_preview"
	case TaskPhotoWatermarked:
		return "photo_watermarked"
	case TaskPhotoBlurredThumbnail:
		return "photo_blurred_thumbnail"
	case TaskPhotoBlurredPreview:
		return "photo_blurred_preview"
	case TaskVideoWatermarked:
		return "video_watermarked"
	case TaskVideoPreview:
		return "video_preview"
	case TaskVideoThumbnail:
		return "video_thumbnail"
	default:
		return "unknown"
	}
}

// Topic 返回该任务种类应投递的主题.
func (k TaskKind) Topic() string {
	switch k {
	case TaskVideoWatermarked, TaskVideoPreview, TaskVideoThumbnail:
		return TopicTaskVideo
	case TaskPhotoThumbnail, TaskPhotoPreview, TaskPhotoWatermarked,
		TaskPhotoBlurredThumbnail, TaskPhotoBlurredPreview:
		return TopicTaskImage
	default:
		return TopicTaskImage
	}
}

// SubmitGroup 将一组互相独立的任务分别投递, 无顺序保证.
// 用于图片衍生版本: 每个任务单独成消息, 失败互不影响.
func SubmitGroup(pub message.Publisher, itemID uint, kinds []TaskKind, opts ...func(*EventHeader)) error {
	for _, k := range kinds {
		payload := TaskPayload{Kind: k, MediaItemID: itemID}

		msg, err := NewWatermillMessage(k.Topic(), payload, opts...)
		if err != nil {
			return fmt.Errorf("encode task %s: %w", k, err)
		}

		if err := pub.Publish(k.Topic(), msg); err != nil {
			return fmt.Errorf("publish task %s: %w", k, err)
		}
	}

	return nil
}

// SubmitChain 投递链条的第一个任务, 剩余步骤随消息携带.
// 工作进程在当前步骤落库提交后调用 SubmitNext 续发, 保证严格顺序.
func SubmitChain(pub message.Publisher, itemID uint, kinds []TaskKind, opts ...func(*EventHeader)) error {
	if len(kinds) == 0 {
		return nil
	}

	head := kinds[0]
	payload := TaskPayload{Kind: head, MediaItemID: itemID, Chain: kinds[1:]}

	msg, err := NewWatermillMessage(head.Topic(), payload, opts...)
	if err != nil {
		return fmt.Errorf("encode chain head %s: %w", head, err)
	}

	if err := pub.Publish(head.Topic(), msg); err != nil {
		return fmt.Errorf("publish chain head %s: %w", head, err)
	}

	return nil
}

// SubmitNext 续发链条中的下一个任务.
// done 为刚完成的任务负载; 若链条已空则无操作.
func SubmitNext(pub message.Publisher, done TaskPayload, opts ...func(*EventHeader)) error {
	if len(done.Chain) == 0 {
		return nil
	}

	return SubmitChain(pub, done.MediaItemID, done.Chain, opts...)
}
