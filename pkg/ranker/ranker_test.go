package ranker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/careertools/resume-allocator/pkg/content"
	"github.com/careertools/resume-allocator/pkg/llm"
)

// claudeTextResponse wraps text in the Claude messages response shape.
func claudeTextResponse(text string) (body []byte) {
	payload := map[string]interface{}{
		"id":   "test-id",
		"type": "message",
		"role": "assistant",
		"content": []map[string]string{
			{"type": "text", "text": text},
		},
	}
	body, _ = json.Marshal(payload)
	return body
}

func testPool() (pool []content.ContentAtom) {
	pool = []content.ContentAtom{
		{ID: "CH-01", Category: content.CategoryHighlight, Content: "Cut latency 40%."},
		{ID: "CH-02", Category: content.CategoryHighlight, Content: "Led cloud migration."},
		{ID: "CH-05-V1", Category: content.CategoryHighlight, Content: "Scaled the platform."},
	}
	return pool
}

func TestRank(t *testing.T) {
	rankingJSON := `{
		"ranked": [
			{"id": "CH-02", "score": 6.0, "matched_tags": ["cloud"]},
			{"id": "CH-01", "score": 9.5, "matched_tags": ["performance"], "reasoning": "direct match"},
			{"id": "CH-99", "score": 10.0}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(claudeTextResponse(rankingJSON))
	}))
	defer server.Close()

	client := llm.NewClientWithEndpoint("test-key", "", server.URL)
	r := NewLLMRanker(client)

	candidates, err := r.Rank(context.Background(), Request{
		SlotKey:        "ch-1",
		Category:       content.CategoryHighlight,
		JobDescription: "Staff engineer, performance focus",
	}, testPool())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	// CH-99 is not in the pool and must be dropped; results sorted by score.
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ID != "CH-01" || candidates[1].ID != "CH-02" {
		t.Errorf("Expected [CH-01, CH-02], got [%s, %s]", candidates[0].ID, candidates[1].ID)
	}
	if candidates[0].Content != "Cut latency 40%." {
		t.Errorf("Expected content joined from pool, got %q", candidates[0].Content)
	}
	if len(candidates[0].MatchedTags) != 1 || candidates[0].MatchedTags[0] != "performance" {
		t.Errorf("Expected matched tags carried through, got %v", candidates[0].MatchedTags)
	}
}

func TestRankExcludesBlockedBaseIDs(t *testing.T) {
	var promptSeen string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) > 0 {
			promptSeen = req.Messages[0].Content
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(claudeTextResponse(`{"ranked": [{"id": "CH-02", "score": 5.0}]}`))
	}))
	defer server.Close()

	client := llm.NewClientWithEndpoint("test-key", "", server.URL)
	r := NewLLMRanker(client)

	candidates, err := r.Rank(context.Background(), Request{
		SlotKey:        "ch-1",
		Category:       content.CategoryHighlight,
		JobDescription: "jd",
		Exclude:        []string{"CH-01", "CH-05"},
	}, testPool())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if len(candidates) != 1 || candidates[0].ID != "CH-02" {
		t.Errorf("Expected only CH-02, got %+v", candidates)
	}

	// Excluded atoms never reach the prompt; CH-05-V1 shares the excluded
	// CH-05 base id.
	if strings.Contains(promptSeen, "CH-01") || strings.Contains(promptSeen, "CH-05-V1") {
		t.Error("Excluded atoms appeared in the ranking prompt")
	}
}

func TestRankEmptyAfterExclusion(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(claudeTextResponse(`{"ranked": []}`))
	}))
	defer server.Close()

	client := llm.NewClientWithEndpoint("test-key", "", server.URL)
	r := NewLLMRanker(client)

	candidates, err := r.Rank(context.Background(), Request{
		SlotKey:        "ch-1",
		Category:       content.CategoryHighlight,
		JobDescription: "jd",
		Exclude:        []string{"CH-01", "CH-02", "CH-05"},
	}, testPool())
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}

	if len(candidates) != 0 {
		t.Errorf("Expected no candidates, got %+v", candidates)
	}
	if requests != 0 {
		t.Errorf("Expected no API call for fully excluded pool, got %d", requests)
	}
}

func TestRankAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := llm.NewClientWithEndpoint("test-key", "", server.URL)
	r := NewLLMRanker(client)

	_, err := r.Rank(context.Background(), Request{
		SlotKey:        "ch-1",
		Category:       content.CategoryHighlight,
		JobDescription: "jd",
	}, testPool())
	if err == nil {
		t.Error("Expected error for API failure, got nil")
	}
}
