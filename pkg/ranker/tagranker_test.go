package ranker

import (
	"context"
	"testing"

	"github.com/careertools/resume-allocator/pkg/content"
)

func tagPool() (pool []content.ContentAtom) {
	pool = []content.ContentAtom{
		{
			ID:       "CH-01",
			Category: content.CategoryHighlight,
			Content:  "Cut p99 latency 40% by rearchitecting the ingest pipeline.",
			Tags: content.Tags{
				Themes:    []string{"latency", "pipelines"},
				Functions: []string{"platform engineering"},
			},
		},
		{
			ID:       "CH-02",
			Category: content.CategoryHighlight,
			Content:  "Led SOC2 certification effort across three product teams.",
			Tags: content.Tags{
				Themes:     []string{"compliance"},
				Industries: []string{"fintech"},
			},
		},
		{
			ID:       "CH-03",
			Category: content.CategoryHighlight,
			Content:  "Built internal developer portal adopted by 200 engineers.",
			Tags:     content.Tags{Themes: []string{"developer experience"}},
		},
	}
	return pool
}

func TestTagRankerScoresByOverlap(t *testing.T) {
	jd := "We run high-throughput data pipelines in fintech and care deeply about latency."

	candidates, err := NewTagRanker().Rank(context.Background(), Request{
		SlotKey:        "ch-1",
		Category:       content.CategoryHighlight,
		JobDescription: jd,
	}, tagPool())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if len(candidates) != 3 {
		t.Fatalf("Expected 3 candidates, got %d", len(candidates))
	}

	// CH-01 matches two themes (40), CH-02 one industry (10), CH-03 nothing.
	if candidates[0].ID != "CH-01" || candidates[0].Score != 40 {
		t.Errorf("Expected CH-01 first with score 40, got %s score %v", candidates[0].ID, candidates[0].Score)
	}
	if candidates[1].ID != "CH-02" || candidates[1].Score != 10 {
		t.Errorf("Expected CH-02 second with score 10, got %s score %v", candidates[1].ID, candidates[1].Score)
	}
	if candidates[2].ID != "CH-03" || candidates[2].Score != 0 {
		t.Errorf("Expected CH-03 last with score 0, got %s score %v", candidates[2].ID, candidates[2].Score)
	}

	if len(candidates[0].MatchedTags) != 2 {
		t.Errorf("Expected 2 matched tags for CH-01, got %v", candidates[0].MatchedTags)
	}
}

func TestTagRankerCaseInsensitive(t *testing.T) {
	pool := []content.ContentAtom{
		{ID: "SUM-01", Category: content.CategorySummary, Content: "x",
			Tags: content.Tags{Themes: []string{"Kubernetes"}}},
	}

	candidates, err := NewTagRanker().Rank(context.Background(), Request{
		SlotKey:        "summary",
		JobDescription: "Deep KUBERNETES experience required.",
	}, pool)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if candidates[0].Score == 0 {
		t.Error("Expected case-insensitive tag match to score")
	}
}

func TestTagRankerRespectsExclusions(t *testing.T) {
	candidates, err := NewTagRanker().Rank(context.Background(), Request{
		SlotKey:        "ch-1",
		JobDescription: "latency",
		Exclude:        []string{"CH-01", "CH-02", "CH-03"},
	}, tagPool())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if len(candidates) != 0 {
		t.Errorf("Expected no candidates when all bases excluded, got %d", len(candidates))
	}
}

func TestTagRankerScoreClamped(t *testing.T) {
	tags := content.Tags{
		Themes: []string{"go", "go ", "golang", "services", "latency", "pipelines"},
	}
	jd := "go golang services latency pipelines everything matches"

	score, _ := scoreAtomTags(tags, jd)
	if score > maxTagScore {
		t.Errorf("Expected score clamped to %d, got %v", maxTagScore, score)
	}
}

func TestTagRankerDeterministic(t *testing.T) {
	req := Request{SlotKey: "ch-1", JobDescription: "latency pipelines fintech compliance"}

	first, err := NewTagRanker().Rank(context.Background(), req, tagPool())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	second, err := NewTagRanker().Rank(context.Background(), req, tagPool())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	for i := range first {
		if first[i].ID != second[i].ID || first[i].Score != second[i].Score {
			t.Fatalf("Expected identical results across runs, got %v vs %v", first, second)
		}
	}
}
