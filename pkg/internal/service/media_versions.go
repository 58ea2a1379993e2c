package service

import (
	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/queue"
)

// RequiredVersions 返回某媒体项除原始版本外必须具备的衍生版本集合.
// blurred 表示媒体项自身或其所属帖子被标记为脱敏展示.
// 纯函数, 不访问存储.
func RequiredVersions(mediaType model.MediaType, blurred bool) []model.VersionType {
	switch mediaType {
	case model.MediaTypePhoto:
		// 缩略图通常在上传时同步生成, 列入需求集以便失败后能补齐
		required := []model.VersionType{
			model.VersionThumbnail,
			model.VersionPreview,
			model.VersionWatermarked,
		}
		if blurred {
			required = append(required,
				model.VersionBlurredThumbnail,
				model.VersionBlurredPreview,
			)
		}

		return required
	case model.MediaTypeVideo:
		// 视频链条固定顺序: 水印 → 预览 → 缩略图
		return []model.VersionType{
			model.VersionWatermarked,
			model.VersionPreview,
			model.VersionThumbnail,
		}
	default:
		return nil
	}
}

// MissingVersions 求 required 与 existing 的差集, 保持 required 的顺序.
func MissingVersions(required []model.VersionType, existing []model.MediaItemVersion) []model.VersionType {
	have := make(map[model.VersionType]bool, len(existing))
	for _, v := range existing {
		have[v.VersionType] = true
	}

	missing := make([]model.VersionType, 0, len(required))

	for _, v := range required {
		if !have[v] {
			missing = append(missing, v)
		}
	}

	return missing
}

// taskForVersion 将缺失的衍生版本映射为任务种类.
func taskForVersion(mediaType model.MediaType, version model.VersionType) queue.TaskKind {
	if mediaType == model.MediaTypeVideo {
		switch version {
		case model.VersionWatermarked:
			return queue.TaskVideoWatermarked
		case model.VersionPreview:
			return queue.TaskVideoPreview
		case model.VersionThumbnail:
			return queue.TaskVideoThumbnail
		default:
			return queue.TaskUnknown
		}
	}

	switch version {
	case model.VersionThumbnail:
		return queue.TaskPhotoThumbnail
	case model.VersionPreview:
		return queue.TaskPhotoPreview
	case model.VersionWatermarked:
		return queue.TaskPhotoWatermarked
	case model.VersionBlurredThumbnail:
		return queue.TaskPhotoBlurredThumbnail
	case model.VersionBlurredPreview:
		return queue.TaskPhotoBlurredPreview
	default:
		return queue.TaskUnknown
	}
}

// Plan 针对一个媒体项的衍生任务计划.
type Plan struct {
	// Missing 缺失的版本类型, 按生成顺序.
	Missing []model.VersionType
	// Tasks 对应的任务种类.
	Tasks []queue.TaskKind
	// Ordered 为 true 时 Tasks 必须按序链式执行（视频）,
	// 否则各任务互相独立并行（图片）.
	Ordered bool
}

// BuildPlan 根据媒体类型与现有版本构建任务计划. 纯函数.
func BuildPlan(mediaType model.MediaType, blurred bool, existing []model.MediaItemVersion) Plan {
	return PlanVersions(mediaType, blurred, existing, nil, false)
}

// PlanVersions 构建任务计划的完整形态.
// subset 非 nil 时只处理与需求集的交集; regenerate 为 true 时
// 忽略已有版本, 整个选中集合都重新生成. 纯函数.
func PlanVersions(mediaType model.MediaType, blurred bool, existing []model.MediaItemVersion,
	subset []model.VersionType, regenerate bool,
) Plan {
	required := RequiredVersions(mediaType, blurred)

	if subset != nil {
		allowed := make(map[model.VersionType]bool, len(subset))
		for _, v := range subset {
			allowed[v] = true
		}

		filtered := make([]model.VersionType, 0, len(required))
		for _, v := range required {
			if allowed[v] {
				filtered = append(filtered, v)
			}
		}

		required = filtered
	}

	missing := required
	if !regenerate {
		missing = MissingVersions(required, existing)
	}

	tasks := make([]queue.TaskKind, 0, len(missing))

	for _, v := range missing {
		if k := taskForVersion(mediaType, v); k != queue.TaskUnknown {
			tasks = append(tasks, k)
		}
	}

	return Plan{
		Missing: missing,
		Tasks:   tasks,
		Ordered: mediaType == model.MediaTypeVideo,
	}
}
