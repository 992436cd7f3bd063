package allocator

import (
	"reflect"
	"testing"

	"github.com/careertools/resume-allocator/pkg/conflicts"
	"github.com/careertools/resume-allocator/pkg/content"
)

func testRegistry() (registry *conflicts.Registry) {
	registry = conflicts.NewRegistry([]conflicts.Rule{
		{IDA: "CH-01", IDB: "P1-B02", Reason: "same latency metric"},
	})
	return registry
}

func highlightSlot(key string, rank int, candidates ...content.ScoredCandidate) (slot content.Slot) {
	slot = content.Slot{
		SlotKey:      key,
		Category:     content.CategoryHighlight,
		PriorityRank: rank,
		Candidates:   candidates,
	}
	return slot
}

func TestAllocateVariantExclusivity(t *testing.T) {
	a := New(testRegistry())

	slots := []content.Slot{
		highlightSlot("ch-1", 1,
			content.ScoredCandidate{ID: "CH-05-V2", Score: 9},
			content.ScoredCandidate{ID: "CH-05-V1", Score: 7},
		),
		highlightSlot("ch-2", 2,
			content.ScoredCandidate{ID: "CH-05-V3", Score: 10},
			content.ScoredCandidate{ID: "CH-03-V1", Score: 6},
		),
	}

	allocation := a.Allocate(slots)

	first, ok := allocation.Assignments["ch-1"]
	if !ok {
		t.Fatal("Expected ch-1 assigned")
	}
	if first.ContentID != "CH-05-V2" {
		t.Errorf("Expected ch-1 -> CH-05-V2, got %s", first.ContentID)
	}

	second, ok := allocation.Assignments["ch-2"]
	if !ok {
		t.Fatal("Expected ch-2 assigned")
	}
	if second.ContentID != "CH-03-V1" {
		t.Errorf("Expected ch-2 -> CH-03-V1 (CH-05 base consumed), got %s", second.ContentID)
	}

	// The higher-scored sibling variant must be logged as blocked.
	entry := allocation.Log[1]
	foundBlocked := false
	for _, rejected := range entry.Rejected {
		if rejected.ID == "CH-05-V3" {
			foundBlocked = true
			if rejected.Reason != "base identity CH-05 already used" {
				t.Errorf("Unexpected rejection reason: %q", rejected.Reason)
			}
		}
	}
	if !foundBlocked {
		t.Error("Expected CH-05-V3 in ch-2's rejected list")
	}
}

func TestAllocateConflictRegistryBlocks(t *testing.T) {
	a := New(testRegistry())

	slots := []content.Slot{
		highlightSlot("ch-1", 1,
			content.ScoredCandidate{ID: "CH-01", Score: 8},
		),
		{
			SlotKey:        "p1-b1",
			Category:       content.CategoryPositionBullet,
			PositionNumber: 1,
			PriorityRank:   2,
			Candidates: []content.ScoredCandidate{
				{ID: "P1-B02", Score: 10},
			},
		},
	}

	allocation := a.Allocate(slots)

	if _, ok := allocation.Assignments["p1-b1"]; ok {
		t.Error("Expected p1-b1 skipped: P1-B02 conflicts with assigned CH-01")
	}

	entry := allocation.Log[1]
	if entry.Decision != content.DecisionSkipped {
		t.Fatalf("Expected skipped decision, got %s", entry.Decision)
	}
	if entry.Reason != content.ReasonAllBlocked {
		t.Errorf("Expected reason %q, got %q", content.ReasonAllBlocked, entry.Reason)
	}
}

func TestAllocateEmptySlot(t *testing.T) {
	a := New(testRegistry())

	allocation := a.Allocate([]content.Slot{
		highlightSlot("ch-1", 1),
	})

	if len(allocation.Assignments) != 0 {
		t.Error("Expected no assignments for empty candidate list")
	}

	entry := allocation.Log[0]
	if entry.Decision != content.DecisionSkipped {
		t.Fatalf("Expected skipped decision, got %s", entry.Decision)
	}
	if entry.Reason != content.ReasonNoCandidates {
		t.Errorf("Expected reason %q, got %q", content.ReasonNoCandidates, entry.Reason)
	}
}

func TestAllocateDisjointCategoriesIndependent(t *testing.T) {
	a := New(testRegistry())

	slots := []content.Slot{
		{
			SlotKey:      "summary",
			Category:     content.CategorySummary,
			PriorityRank: 1,
			Candidates: []content.ScoredCandidate{
				{ID: "SUM-01", Score: 8},
			},
		},
		highlightSlot("ch-1", 2,
			content.ScoredCandidate{ID: "CH-02", Score: 7},
		),
		{
			SlotKey:      "summary-alt",
			Category:     content.CategorySummary,
			PriorityRank: 3,
			Candidates: []content.ScoredCandidate{
				{ID: "SUM-02", Score: 6},
			},
		},
	}

	allocation := a.Allocate(slots)

	if len(allocation.Assignments) != 3 {
		t.Fatalf("Expected all 3 slots assigned, got %d", len(allocation.Assignments))
	}
	if allocation.Assignments["summary"].ContentID != "SUM-01" {
		t.Error("Expected summary -> SUM-01")
	}
	if allocation.Assignments["summary-alt"].ContentID != "SUM-02" {
		t.Error("Expected summary-alt -> SUM-02")
	}
}

func TestAllocateToleratesUnsortedCandidates(t *testing.T) {
	a := New(testRegistry())

	// Lowest score first: the allocator must still pick the max.
	allocation := a.Allocate([]content.Slot{
		highlightSlot("ch-1", 1,
			content.ScoredCandidate{ID: "CH-03", Score: 2},
			content.ScoredCandidate{ID: "CH-04", Score: 9},
			content.ScoredCandidate{ID: "CH-05", Score: 5},
		),
	})

	if allocation.Assignments["ch-1"].ContentID != "CH-04" {
		t.Errorf("Expected max-score CH-04, got %s", allocation.Assignments["ch-1"].ContentID)
	}
}

func TestAllocateStableTieBreak(t *testing.T) {
	a := New(testRegistry())

	allocation := a.Allocate([]content.Slot{
		highlightSlot("ch-1", 1,
			content.ScoredCandidate{ID: "CH-03", Score: 7},
			content.ScoredCandidate{ID: "CH-04", Score: 7},
		),
	})

	if allocation.Assignments["ch-1"].ContentID != "CH-03" {
		t.Errorf("Expected tie broken by input order (CH-03), got %s", allocation.Assignments["ch-1"].ContentID)
	}
}

func TestAllocatePriorityOrder(t *testing.T) {
	a := New(testRegistry())

	// Both slots want CH-07; the lower priority rank wins regardless of the
	// order slots appear in the input slice.
	slots := []content.Slot{
		highlightSlot("ch-2", 2,
			content.ScoredCandidate{ID: "CH-07", Score: 10},
			content.ScoredCandidate{ID: "CH-08", Score: 1},
		),
		highlightSlot("ch-1", 1,
			content.ScoredCandidate{ID: "CH-07", Score: 5},
		),
	}

	allocation := a.Allocate(slots)

	if allocation.Assignments["ch-1"].ContentID != "CH-07" {
		t.Errorf("Expected higher-priority ch-1 to take CH-07, got %s", allocation.Assignments["ch-1"].ContentID)
	}
	if allocation.Assignments["ch-2"].ContentID != "CH-08" {
		t.Errorf("Expected ch-2 to fall back to CH-08, got %s", allocation.Assignments["ch-2"].ContentID)
	}

	// Log order follows priority rank, not input order.
	if allocation.Log[0].SlotKey != "ch-1" || allocation.Log[1].SlotKey != "ch-2" {
		t.Errorf("Expected log ordered by priority, got %s then %s", allocation.Log[0].SlotKey, allocation.Log[1].SlotKey)
	}
}

func TestAllocateDeterminism(t *testing.T) {
	a := New(testRegistry())

	slots := []content.Slot{
		highlightSlot("ch-1", 1,
			content.ScoredCandidate{ID: "CH-05-V2", Score: 9},
			content.ScoredCandidate{ID: "CH-05-V1", Score: 7},
		),
		highlightSlot("ch-2", 2,
			content.ScoredCandidate{ID: "CH-05-V3", Score: 10},
			content.ScoredCandidate{ID: "CH-01", Score: 6},
		),
		{
			SlotKey:        "p1-b1",
			Category:       content.CategoryPositionBullet,
			PositionNumber: 1,
			PriorityRank:   3,
			Candidates: []content.ScoredCandidate{
				{ID: "P1-B02", Score: 10},
				{ID: "P1-B03", Score: 3},
			},
		},
	}

	first := a.Allocate(slots)
	second := a.Allocate(slots)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical allocations across runs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAllocateGreedyMonotonicity(t *testing.T) {
	a := New(testRegistry())

	full := []content.ScoredCandidate{
		{ID: "CH-03", Score: 4},
		{ID: "CH-04", Score: 9},
		{ID: "CH-05", Score: 6},
	}

	baseline := a.Allocate([]content.Slot{highlightSlot("ch-1", 1, full...)})
	baselineScore := baseline.Assignments["ch-1"].Score

	// Removing any single candidate never improves the assigned score.
	for skip := range full {
		reduced := make([]content.ScoredCandidate, 0, len(full)-1)
		for i, candidate := range full {
			if i != skip {
				reduced = append(reduced, candidate)
			}
		}

		allocation := a.Allocate([]content.Slot{highlightSlot("ch-1", 1, reduced...)})
		if assignment, ok := allocation.Assignments["ch-1"]; ok {
			if assignment.Score > baselineScore {
				t.Errorf("Removing %s improved score: %v > %v", full[skip].ID, assignment.Score, baselineScore)
			}
		}
	}
}

func TestAllocateDoesNotMutateInput(t *testing.T) {
	a := New(testRegistry())

	slots := []content.Slot{
		highlightSlot("ch-2", 2, content.ScoredCandidate{ID: "CH-03", Score: 5}),
		highlightSlot("ch-1", 1, content.ScoredCandidate{ID: "CH-04", Score: 5}),
	}

	a.Allocate(slots)

	if slots[0].SlotKey != "ch-2" || slots[1].SlotKey != "ch-1" {
		t.Error("Allocate reordered the caller's slot slice")
	}
}

func TestUsedContentIDs(t *testing.T) {
	a := New(testRegistry())

	allocation := a.Allocate([]content.Slot{
		highlightSlot("ch-1", 1, content.ScoredCandidate{ID: "CH-03", Score: 5}),
		highlightSlot("ch-2", 2),
		highlightSlot("ch-3", 3, content.ScoredCandidate{ID: "CH-04", Score: 5}),
	})

	used := allocation.UsedContentIDs()
	want := []string{"CH-03", "CH-04"}
	if !reflect.DeepEqual(used, want) {
		t.Errorf("Expected used ids %v, got %v", want, used)
	}
}
