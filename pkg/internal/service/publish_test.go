package service

import (
	"testing"

	"github.com/pixelvault/pixelvault/pkg/internal/model"
)

func readyPhoto(id uint, blurred bool) model.MediaItem {
	versions := []model.MediaItemVersion{
		{VersionType: model.VersionOriginal},
		{VersionType: model.VersionThumbnail},
		{VersionType: model.VersionPreview},
		{VersionType: model.VersionWatermarked},
	}

	if blurred {
		versions = append(versions,
			model.MediaItemVersion{VersionType: model.VersionBlurredThumbnail},
			model.MediaItemVersion{VersionType: model.VersionBlurredPreview},
		)
	}

	return model.MediaItem{
		ID:        id,
		MediaType: model.MediaTypePhoto,
		Status:    model.MediaItemApproved,
		IsBlurred: blurred,
		Versions:  versions,
	}
}

func TestCheckItemReadyApprovedComplete(t *testing.T) {
	item := readyPhoto(1, false)

	if blocking := checkItemReady(&item, false); len(blocking) != 0 {
		t.Errorf("expected no blocking reasons, got %v", blocking)
	}
}

func TestCheckItemReadyAwaitingModeration(t *testing.T) {
	item := readyPhoto(1, false)
	item.Status = model.MediaItemPendingModeration

	blocking := checkItemReady(&item, false)
	if len(blocking) != 1 {
		t.Fatalf("expected 1 blocking reason, got %d", len(blocking))
	}

	if blocking[0].Reason != "awaiting moderation" {
		t.Errorf("unexpected reason: %s", blocking[0].Reason)
	}
}

func TestCheckItemReadyRejected(t *testing.T) {
	item := readyPhoto(1, false)
	item.Status = model.MediaItemRejected

	blocking := checkItemReady(&item, false)
	if len(blocking) != 1 {
		t.Fatalf("expected 1 blocking reason, got %d", len(blocking))
	}
}

func TestCheckItemReadyMissingVersions(t *testing.T) {
	item := model.MediaItem{
		ID:        3,
		MediaType: model.MediaTypePhoto,
		Status:    model.MediaItemApproved,
		Versions: []model.MediaItemVersion{
			{VersionType: model.VersionOriginal},
			{VersionType: model.VersionThumbnail},
		},
	}

	blocking := checkItemReady(&item, false)
	if len(blocking) != 1 {
		t.Fatalf("expected 1 blocking reason, got %d", len(blocking))
	}

	if blocking[0].Reason != "derivative versions missing" {
		t.Errorf("unexpected reason: %s", blocking[0].Reason)
	}

	if len(blocking[0].MissingVersions) != 2 {
		t.Errorf("expected 2 missing versions, got %v", blocking[0].MissingVersions)
	}
}

func TestCheckItemReadyPostBlurredPropagates(t *testing.T) {
	// 项本身未脱敏, 但所属帖子脱敏: 模糊版本成为硬需求
	item := readyPhoto(4, false)

	blocking := checkItemReady(&item, true)
	if len(blocking) != 1 {
		t.Fatalf("expected 1 blocking reason for missing blurred versions, got %d", len(blocking))
	}

	if len(blocking[0].MissingVersions) != 2 {
		t.Errorf("expected blurred thumbnail and preview missing, got %v", blocking[0].MissingVersions)
	}
}

func TestChooseFeaturedPrefersFirstPhoto(t *testing.T) {
	members := []model.PostMedia{
		{MediaItemID: 10, Position: 0},
		{MediaItemID: 11, Position: 1},
		{MediaItemID: 12, Position: 2},
	}

	items := []model.MediaItem{
		{ID: 10, MediaType: model.MediaTypeVideo},
		{ID: 11, MediaType: model.MediaTypePhoto},
		{ID: 12, MediaType: model.MediaTypePhoto},
	}

	featured, ok := ChooseFeatured(members, items)
	if !ok {
		t.Fatal("expected a featured item")
	}

	if featured != 11 {
		t.Errorf("expected first photo (11), got %d", featured)
	}
}

func TestChooseFeaturedFallsBackToFirstMember(t *testing.T) {
	members := []model.PostMedia{
		{MediaItemID: 20, Position: 0},
		{MediaItemID: 21, Position: 1},
	}

	items := []model.MediaItem{
		{ID: 20, MediaType: model.MediaTypeVideo},
		{ID: 21, MediaType: model.MediaTypeVideo},
	}

	featured, ok := ChooseFeatured(members, items)
	if !ok {
		t.Fatal("expected a featured item")
	}

	if featured != 20 {
		t.Errorf("expected first member (20), got %d", featured)
	}
}

func TestChooseFeaturedEmpty(t *testing.T) {
	if _, ok := ChooseFeatured(nil, nil); ok {
		t.Error("expected no featured item for empty post")
	}
}
