package service

import (
	"testing"

	"github.com/pixelvault/pixelvault/pkg/internal/model"
	"github.com/pixelvault/pixelvault/pkg/queue"
)

func TestRequiredVersionsPhoto(t *testing.T) {
	got := RequiredVersions(model.MediaTypePhoto, false)

	want := []model.VersionType{model.VersionThumbnail, model.VersionPreview, model.VersionWatermarked}
	if len(got) != len(want) {
		t.Fatalf("expected %d versions, got %d", len(want), len(got))
	}

	for i, v := range want {
		if got[i] != v {
			t.Errorf("version %d: expected %s, got %s", i, v, got[i])
		}
	}
}

func TestRequiredVersionsBlurredPhoto(t *testing.T) {
	got := RequiredVersions(model.MediaTypePhoto, true)

	if len(got) != 5 {
		t.Fatalf("expected 5 versions for blurred photo, got %d", len(got))
	}

	have := make(map[model.VersionType]bool)
	for _, v := range got {
		have[v] = true
	}

	if !have[model.VersionBlurredThumbnail] || !have[model.VersionBlurredPreview] {
		t.Error("blurred photo must require blurred thumbnail and blurred preview")
	}
}

func TestRequiredVersionsVideoOrder(t *testing.T) {
	// 视频链条的顺序是硬约束: 预览与缩略图都从带水印版本生成
	got := RequiredVersions(model.MediaTypeVideo, true)

	want := []model.VersionType{
		model.VersionWatermarked,
		model.VersionPreview,
		model.VersionThumbnail,
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d versions, got %d", len(want), len(got))
	}

	for i, v := range want {
		if got[i] != v {
			t.Errorf("position %d: expected %s, got %s", i, v, got[i])
		}
	}
}

func TestMissingVersionsKeepsOrder(t *testing.T) {
	required := []model.VersionType{
		model.VersionWatermarked,
		model.VersionPreview,
		model.VersionThumbnail,
	}

	existing := []model.MediaItemVersion{
		{VersionType: model.VersionPreview},
		{VersionType: model.VersionOriginal},
	}

	missing := MissingVersions(required, existing)

	if len(missing) != 2 {
		t.Fatalf("expected 2 missing, got %d", len(missing))
	}

	if missing[0] != model.VersionWatermarked || missing[1] != model.VersionThumbnail {
		t.Errorf("unexpected missing set: %v", missing)
	}
}

func TestMissingVersionsComplete(t *testing.T) {
	required := RequiredVersions(model.MediaTypePhoto, false)

	existing := []model.MediaItemVersion{
		{VersionType: model.VersionOriginal},
		{VersionType: model.VersionThumbnail},
		{VersionType: model.VersionPreview},
		{VersionType: model.VersionWatermarked},
	}

	if missing := MissingVersions(required, existing); len(missing) != 0 {
		t.Errorf("expected no missing versions, got %v", missing)
	}
}

func TestBuildPlanPhotoParallel(t *testing.T) {
	plan := BuildPlan(model.MediaTypePhoto, false, nil)

	if plan.Ordered {
		t.Error("photo tasks must be independent, not ordered")
	}

	want := []queue.TaskKind{queue.TaskPhotoThumbnail, queue.TaskPhotoPreview, queue.TaskPhotoWatermarked}
	if len(plan.Tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(plan.Tasks))
	}

	for i, k := range want {
		if plan.Tasks[i] != k {
			t.Errorf("task %d: expected %s, got %s", i, k, plan.Tasks[i])
		}
	}
}

func TestBuildPlanVideoChain(t *testing.T) {
	plan := BuildPlan(model.MediaTypeVideo, false, nil)

	if !plan.Ordered {
		t.Fatal("video tasks must form an ordered chain")
	}

	want := []queue.TaskKind{
		queue.TaskVideoWatermarked,
		queue.TaskVideoPreview,
		queue.TaskVideoThumbnail,
	}

	for i, k := range want {
		if plan.Tasks[i] != k {
			t.Errorf("chain step %d: expected %s, got %s", i, k, plan.Tasks[i])
		}
	}
}

func TestBuildPlanVideoResume(t *testing.T) {
	// 水印已经生成过, 链条从预览继续
	existing := []model.MediaItemVersion{
		{VersionType: model.VersionOriginal},
		{VersionType: model.VersionWatermarked},
	}

	plan := BuildPlan(model.MediaTypeVideo, false, existing)

	if len(plan.Tasks) != 2 {
		t.Fatalf("expected 2 remaining tasks, got %d", len(plan.Tasks))
	}

	if plan.Tasks[0] != queue.TaskVideoPreview {
		t.Errorf("resume must start at preview, got %s", plan.Tasks[0])
	}
}

func TestPlanVersionsSubset(t *testing.T) {
	existing := []model.MediaItemVersion{
		{VersionType: model.VersionOriginal},
	}
	subset := []model.VersionType{model.VersionWatermarked, model.VersionOriginal}

	plan := PlanVersions(model.MediaTypePhoto, false, existing, subset, false)

	if len(plan.Tasks) != 1 || plan.Tasks[0] != queue.TaskPhotoWatermarked {
		t.Fatalf("expected only watermarked task, got %v", plan.Tasks)
	}
}

func TestPlanVersionsSubsetOutsideRequired(t *testing.T) {
	// 子集与需求集不相交时没有任务
	subset := []model.VersionType{model.VersionBlurredPreview}

	plan := PlanVersions(model.MediaTypePhoto, false, nil, subset, false)

	if len(plan.Tasks) != 0 {
		t.Fatalf("expected no tasks, got %v", plan.Tasks)
	}
}

func TestPlanVersionsRegenerate(t *testing.T) {
	// 重建时忽略已有版本, 整个需求集重新排期
	existing := []model.MediaItemVersion{
		{VersionType: model.VersionOriginal},
		{VersionType: model.VersionThumbnail},
		{VersionType: model.VersionPreview},
		{VersionType: model.VersionWatermarked},
	}

	plan := PlanVersions(model.MediaTypePhoto, false, existing, nil, true)

	if len(plan.Tasks) != 3 {
		t.Fatalf("expected full task set on regenerate, got %v", plan.Tasks)
	}
}

func TestParseVersionType(t *testing.T) {
	vt, ok := model.ParseVersionType("blurred_preview")
	if !ok || vt != model.VersionBlurredPreview {
		t.Errorf("ParseVersionType(blurred_preview) = %v, %v", vt, ok)
	}

	if _, ok := model.ParseVersionType("bogus"); ok {
		t.Error("unknown name must not parse")
	}
}
