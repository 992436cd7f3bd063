package content

import "fmt"

// Default slot counts used when the caller does not override them.
const (
	DefaultHighlightSlots = 4
	DefaultBulletsPerSlot = 3
	firstPriorityRank     = 1
)

// BuildSlotPlan constructs the fixed set of output slots in fill-priority
// order: the summary first, then career highlights, then each position's
// overview followed by its bullets, positions in the order given. Priority
// encodes the business preference for which category wins contention over a
// shared achievement; earlier slots consume candidates first.
//
// Candidate lists are left empty; the caller populates them from the ranker
// before allocation.
func BuildSlotPlan(highlightCount int, positions []int, bulletsPerPosition int) (slots []Slot) {
	if highlightCount <= 0 {
		highlightCount = DefaultHighlightSlots
	}
	if bulletsPerPosition <= 0 {
		bulletsPerPosition = DefaultBulletsPerSlot
	}

	rank := firstPriorityRank
	slots = []Slot{}

	slots = append(slots, Slot{
		SlotKey:      "summary",
		Category:     CategorySummary,
		PriorityRank: rank,
	})
	rank++

	for i := 1; i <= highlightCount; i++ {
		slots = append(slots, Slot{
			SlotKey:      fmt.Sprintf("ch-%d", i),
			Category:     CategoryHighlight,
			PriorityRank: rank,
		})
		rank++
	}

	for _, pos := range positions {
		slots = append(slots, Slot{
			SlotKey:        fmt.Sprintf("p%d-ov", pos),
			Category:       CategoryPositionOverview,
			PositionNumber: pos,
			PriorityRank:   rank,
		})
		rank++

		for i := 1; i <= bulletsPerPosition; i++ {
			slots = append(slots, Slot{
				SlotKey:        fmt.Sprintf("p%d-b%d", pos, i),
				Category:       CategoryPositionBullet,
				PositionNumber: pos,
				PriorityRank:   rank,
			})
			rank++
		}
	}

	return slots
}
