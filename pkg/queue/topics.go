// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：pv.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：media(媒体流水线)、post(帖子)、task(衍生任务)
// 动作：任务相关(requested/completed/failed)、事件相关(created/computed/clustered/published)

const (
	// 衍生任务领域. 工作进程按媒体大类订阅, 图片任务彼此独立,
	// 视频任务携带剩余链条, 由处理方在提交后续发下一步.
	TopicTaskImage = "pv.task.image" // 图片衍生任务（缩略图/预览/水印/脱敏）
	TopicTaskVideo = "pv.task.video" // 视频衍生任务（严格链式：水印→预览→缩略图）
	TopicTaskHash  = "pv.task.hash"  // 哈希计算任务（感知哈希等后台计算）
	TopicTaskDead  = "pv.task.dead"  // 重试耗尽后的死信主题

	// 媒体事件领域.
	TopicMediaVersionCreated = "pv.media.version.created" // 某衍生版本落库并写入对象存储
	TopicMediaVersionFailed  = "pv.media.version.failed"  // 某衍生版本生成失败（重试耗尽）
	TopicMediaHashComputed   = "pv.media.hash.computed"   // 某版本的哈希值计算完成
	TopicMediaClustered      = "pv.media.clustered"       // 媒体项被并入重复簇
	TopicMediaModerated      = "pv.media.moderated"       // 审核结论落库

	// 帖子领域.
	TopicPostPublished   = "pv.post.published"    // 帖子通过发布闸门并上线
	TopicPostPublishHeld = "pv.post.publish.held" // 发布被闸门拦截（媒体尚未就绪）
)

// 主题分组，用于批量订阅或权限控制.
var (
	// 任务相关主题集合.
	TaskTopics = []string{
		TopicTaskImage, TopicTaskVideo, TopicTaskHash, TopicTaskDead,
	}

	// 媒体事件相关主题集合.
	MediaTopics = []string{
		TopicMediaVersionCreated, TopicMediaVersionFailed,
		TopicMediaHashComputed, TopicMediaClustered, TopicMediaModerated,
	}

	// 帖子相关主题集合.
	PostTopics = []string{
		TopicPostPublished, TopicPostPublishHeld,
	}
)
