// Package verify is the post-hoc correctness oracle for allocations. The
// allocator prevents exclusivity violations on the paths that go through it;
// this package detects them in any final output, including content assembled
// by paths that bypassed the allocator entirely.
package verify

import (
	"sort"

	"github.com/careertools/resume-allocator/pkg/conflicts"
	"github.com/careertools/resume-allocator/pkg/content"
)

// Duplicate records a base identity claimed by more than one slot.
type Duplicate struct {
	BaseID string   `json:"base_id"`
	Slots  []string `json:"slots"`
}

// ConflictHit records a conflict-registry pair whose sides both appear among
// assigned content.
type ConflictHit struct {
	IDA    string   `json:"id_a"`
	IDB    string   `json:"id_b"`
	Reason string   `json:"reason"`
	Slots  []string `json:"slots"`
}

// Report is the verification result. Violations are surfaced as data, not
// errors: by the time they are detectable the content already exists, and a
// human or downstream process decides whether to regenerate or accept it.
type Report struct {
	Valid      bool          `json:"valid"`
	Duplicates []Duplicate   `json:"duplicates,omitempty"`
	Conflicts  []ConflictHit `json:"conflicts,omitempty"`
}

// Check confirms that no base identity appears in more than one assigned slot
// and that no conflict pair from the registry co-occurs, directly or via base
// ids. All slot categories share one identity space: a summary and a bullet
// claiming the same base id is a violation. Check is pure and deterministic.
func Check(allocation content.Allocation, registry *conflicts.Registry) (report Report) {
	report = Report{
		Duplicates: []Duplicate{},
		Conflicts:  []ConflictHit{},
	}

	// Group assigned slots by base id.
	slotsByBase := make(map[string][]string)
	for slotKey, assignment := range allocation.Assignments {
		base := content.BaseID(assignment.ContentID)
		slotsByBase[base] = append(slotsByBase[base], slotKey)
	}

	bases := make([]string, 0, len(slotsByBase))
	for base := range slotsByBase {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	for _, base := range bases {
		slots := slotsByBase[base]
		if len(slots) > 1 {
			sort.Strings(slots)
			report.Duplicates = append(report.Duplicates, Duplicate{
				BaseID: base,
				Slots:  slots,
			})
		}
	}

	report.Conflicts = conflictHits(allocation, registry)
	report.Valid = len(report.Duplicates) == 0 && len(report.Conflicts) == 0

	return report
}

// conflictHits checks every registry rule against the assigned content. A
// rule side matches an assigned id exactly or through its base id, so a rule
// naming one variant still flags output that used a sibling wording of the
// same achievement.
func conflictHits(allocation content.Allocation, registry *conflicts.Registry) (hits []ConflictHit) {
	hits = []ConflictHit{}

	assigned := make([]content.Assignment, 0, len(allocation.Assignments))
	for _, assignment := range allocation.Assignments {
		assigned = append(assigned, assignment)
	}
	sort.Slice(assigned, func(i, j int) bool {
		return assigned[i].SlotKey < assigned[j].SlotKey
	})

	for _, rule := range registry.Rules() {
		slotsA := matchingSlots(assigned, rule.IDA)
		slotsB := matchingSlots(assigned, rule.IDB)
		if len(slotsA) == 0 || len(slotsB) == 0 {
			continue
		}

		slots := append(slotsA, slotsB...)
		sort.Strings(slots)
		hits = append(hits, ConflictHit{
			IDA:    rule.IDA,
			IDB:    rule.IDB,
			Reason: rule.Reason,
			Slots:  slots,
		})
	}

	return hits
}

func matchingSlots(assigned []content.Assignment, ruleID string) (slots []string) {
	ruleBase := content.BaseID(ruleID)
	for _, assignment := range assigned {
		if assignment.ContentID == ruleID || content.BaseID(assignment.ContentID) == ruleBase {
			slots = append(slots, assignment.SlotKey)
		}
	}
	return slots
}
