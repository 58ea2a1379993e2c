package service

import "testing"

func TestBestCandidateLargestArea(t *testing.T) {
	candidates := []candidate{
		{MediaItemID: 1, Width: 800, Height: 600, FileSize: 500_000},
		{MediaItemID: 2, Width: 4000, Height: 3000, FileSize: 2_000_000},
		{MediaItemID: 3, Width: 1920, Height: 1080, FileSize: 900_000},
	}

	best, ok := BestCandidate(candidates)
	if !ok {
		t.Fatal("expected a best candidate")
	}

	if best != 2 {
		t.Errorf("expected item 2 (largest area), got %d", best)
	}
}

func TestBestCandidateTieBreakOnFileSize(t *testing.T) {
	candidates := []candidate{
		{MediaItemID: 1, Width: 1920, Height: 1080, FileSize: 900_000},
		{MediaItemID: 2, Width: 1920, Height: 1080, FileSize: 1_500_000},
	}

	best, ok := BestCandidate(candidates)
	if !ok {
		t.Fatal("expected a best candidate")
	}

	if best != 2 {
		t.Errorf("expected item 2 (larger file at same area), got %d", best)
	}
}

func TestBestCandidateFirstWinsOnFullTie(t *testing.T) {
	candidates := []candidate{
		{MediaItemID: 7, Width: 100, Height: 100, FileSize: 1000},
		{MediaItemID: 8, Width: 100, Height: 100, FileSize: 1000},
	}

	best, _ := BestCandidate(candidates)
	if best != 7 {
		t.Errorf("expected first candidate to win a full tie, got %d", best)
	}
}

func TestBestCandidateEmpty(t *testing.T) {
	if _, ok := BestCandidate(nil); ok {
		t.Error("expected no best candidate for empty input")
	}
}
