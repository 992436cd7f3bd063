package allocator

import (
	"fmt"
	"sort"

	"github.com/careertools/resume-allocator/pkg/conflicts"
	"github.com/careertools/resume-allocator/pkg/content"
)

// Allocator assigns ranked candidates to output slots under the exclusivity
// rules: no base identity is consumed twice, and no conflict pair from the
// registry co-occurs. It is a pure computation over an immutable input
// snapshot; a single value is safe to share across goroutines.
type Allocator struct {
	registry *conflicts.Registry
}

// New creates an allocator backed by the given conflict registry.
func New(registry *conflicts.Registry) (allocator *Allocator) {
	allocator = &Allocator{
		registry: registry,
	}
	return allocator
}

// Allocate performs a single-pass greedy allocation over the slots in
// priority-rank order. Each slot receives its highest-scored candidate whose
// base identity is still free and whose conflict partners are all unused;
// ties keep the earlier candidate in the input list. A slot with no usable
// candidate is skipped, never an error - the log records whether it had no
// candidates at all or only blocked ones.
//
// The trade-off is deliberate: the pass is O(total candidates), auditable
// through the log, and deterministic, but not globally score-optimal. Slot
// priority order encodes which category wins contention over a shared
// achievement.
func (a *Allocator) Allocate(slots []content.Slot) (allocation content.Allocation) {
	// Work on a copy so the caller's slice order is untouched.
	ordered := make([]content.Slot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PriorityRank < ordered[j].PriorityRank
	})

	allocation = content.Allocation{
		Assignments: make(map[string]content.Assignment),
		Log:         []content.LogEntry{},
	}

	usedBase := make(map[string]bool)

	for _, slot := range ordered {
		entry := a.allocateSlot(slot, usedBase)
		if entry.Decision == content.DecisionAssigned {
			allocation.Assignments[slot.SlotKey] = content.Assignment{
				SlotKey:   slot.SlotKey,
				ContentID: entry.ContentID,
				Content:   contentFor(slot.Candidates, entry.ContentID),
				Score:     entry.Score,
			}
			usedBase[content.BaseID(entry.ContentID)] = true
		}
		allocation.Log = append(allocation.Log, entry)
	}

	return allocation
}

// allocateSlot picks the winner for one slot and explains every candidate's
// fate. It does not mutate usedBase.
func (a *Allocator) allocateSlot(slot content.Slot, usedBase map[string]bool) (entry content.LogEntry) {
	entry = content.LogEntry{
		SlotKey:  slot.SlotKey,
		Decision: content.DecisionSkipped,
		Rejected: []content.RejectedCandidate{},
	}

	if len(slot.Candidates) == 0 {
		entry.Reason = content.ReasonNoCandidates
		return entry
	}

	// Partition candidates into available and blocked, keeping input order.
	available := make([]content.ScoredCandidate, 0, len(slot.Candidates))
	for _, candidate := range slot.Candidates {
		reason, blocked := a.blockedReason(candidate.ID, usedBase)
		if blocked {
			entry.Rejected = append(entry.Rejected, content.RejectedCandidate{
				ID:     candidate.ID,
				Reason: reason,
			})
			continue
		}
		available = append(available, candidate)
	}

	if len(available) == 0 {
		entry.Reason = content.ReasonAllBlocked
		return entry
	}

	// Select the max score; input is normally pre-sorted descending but that
	// is not relied on. A strict comparison keeps ties stable on input order.
	chosen := available[0]
	for _, candidate := range available[1:] {
		if candidate.Score > chosen.Score {
			chosen = candidate
		}
	}

	entry.Decision = content.DecisionAssigned
	entry.ContentID = chosen.ID
	entry.Score = chosen.Score

	for _, candidate := range available {
		if candidate.ID == chosen.ID {
			continue
		}
		entry.Rejected = append(entry.Rejected, content.RejectedCandidate{
			ID:     candidate.ID,
			Reason: fmt.Sprintf("outscored by %s", chosen.ID),
		})
	}

	return entry
}

// blockedReason reports whether the candidate is excluded by the current used
// set, and why.
func (a *Allocator) blockedReason(id string, usedBase map[string]bool) (reason string, blocked bool) {
	base := content.BaseID(id)
	if usedBase[base] {
		reason = fmt.Sprintf("base identity %s already used", base)
		blocked = true
		return reason, blocked
	}

	// Sorted iteration keeps the logged reason deterministic when more than
	// one conflict partner is already used.
	conflictBases := make([]string, 0)
	for conflictBase := range a.registry.ConflictsOf(id) {
		conflictBases = append(conflictBases, conflictBase)
	}
	sort.Strings(conflictBases)
	for _, conflictBase := range conflictBases {
		if usedBase[conflictBase] {
			reason = fmt.Sprintf("conflicts with used base identity %s", conflictBase)
			blocked = true
			return reason, blocked
		}
	}

	blocked = false
	return reason, blocked
}

func contentFor(candidates []content.ScoredCandidate, id string) (text string) {
	for _, candidate := range candidates {
		if candidate.ID == id {
			text = candidate.Content
			return text
		}
	}
	return text
}
