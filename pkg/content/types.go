package content

// Category identifies the kind of resume section a content atom belongs to.
type Category string

const (
	// CategorySummary is the professional summary at the top of the resume.
	CategorySummary Category = "summary"
	// CategoryHighlight is a career highlight bullet.
	CategoryHighlight Category = "highlight"
	// CategoryPositionOverview is the overview paragraph for a position.
	CategoryPositionOverview Category = "position-overview"
	// CategoryPositionBullet is an achievement bullet under a position.
	CategoryPositionBullet Category = "position-bullet"
)

// Categories lists all valid content categories.
//
//nolint:gochecknoglobals // Category enumeration constant
var Categories = []Category{
	CategorySummary,
	CategoryHighlight,
	CategoryPositionOverview,
	CategoryPositionBullet,
}

// Valid reports whether c is a known category.
func (c Category) Valid() (valid bool) {
	for _, known := range Categories {
		if c == known {
			valid = true
			return valid
		}
	}
	valid = false
	return valid
}

// PositionScoped reports whether atoms of this category belong to a specific position.
func (c Category) PositionScoped() (scoped bool) {
	scoped = c == CategoryPositionOverview || c == CategoryPositionBullet
	return scoped
}

// Tags holds the classification labels attached to an atom. The labels are
// consumed only by the external ranker; the allocation core treats them as opaque.
type Tags struct {
	Industries []string `json:"industries,omitempty"`
	Functions  []string `json:"functions,omitempty"`
	Themes     []string `json:"themes,omitempty"`
}

// ContentAtom is an immutable unit of pre-written resume text. Atoms sharing a
// base id are variants of the same underlying achievement and are mutually
// exclusive in any allocation.
type ContentAtom struct {
	ID             string   `json:"id"`
	Category       Category `json:"category"`
	PositionNumber int      `json:"position_number,omitempty"`
	Content        string   `json:"content"`
	Tags           Tags     `json:"tags,omitempty"`
}

// BaseID returns the variant-independent identity of the atom.
func (a ContentAtom) BaseID() (base string) {
	base = BaseID(a.ID)
	return base
}

// ScoredCandidate is a content atom reference plus the relevance score the
// external ranker assigned to it for one specific slot. Higher is better.
type ScoredCandidate struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Score       float64  `json:"score"`
	MatchedTags []string `json:"matched_tags,omitempty"`
}

// Slot is a single allocation target in the output resume.
type Slot struct {
	SlotKey        string            `json:"slot_key"`
	Category       Category          `json:"category"`
	PositionNumber int               `json:"position_number,omitempty"`
	PriorityRank   int               `json:"priority_rank"`
	Candidates     []ScoredCandidate `json:"candidates,omitempty"`
}

// Decision is the outcome recorded for a slot in the allocation log.
type Decision string

const (
	// DecisionAssigned means a candidate was selected for the slot.
	DecisionAssigned Decision = "assigned"
	// DecisionSkipped means the slot was left unassigned.
	DecisionSkipped Decision = "skipped"
)

// Skip reasons recorded in the allocation log. Diagnostics rely on the
// distinction between an empty candidate list and a fully blocked one.
const (
	ReasonNoCandidates = "no candidates available"
	ReasonAllBlocked   = "all candidates blocked"
)

// Assignment records the candidate selected for a slot.
type Assignment struct {
	SlotKey   string  `json:"slot_key"`
	ContentID string  `json:"content_id"`
	Content   string  `json:"content"`
	Score     float64 `json:"score"`
}

// RejectedCandidate explains why a candidate was not selected for its slot.
type RejectedCandidate struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// LogEntry describes the allocation decision for a single slot.
type LogEntry struct {
	SlotKey   string              `json:"slot_key"`
	Decision  Decision            `json:"decision"`
	ContentID string              `json:"content_id,omitempty"`
	Score     float64             `json:"score,omitempty"`
	Reason    string              `json:"reason,omitempty"`
	Rejected  []RejectedCandidate `json:"rejected,omitempty"`
}

// Allocation is the complete result of allocating candidates to slots: one
// assignment per filled slot plus an ordered log entry for every slot,
// assigned or skipped.
type Allocation struct {
	Assignments map[string]Assignment `json:"assignments"`
	Log         []LogEntry            `json:"allocation_log"`
}

// UsedContentIDs returns the assigned content ids in slot allocation order.
// Downstream consumers treat this as the authoritative record of what was used.
func (a Allocation) UsedContentIDs() (ids []string) {
	ids = []string{}
	for _, entry := range a.Log {
		if entry.Decision == DecisionAssigned {
			ids = append(ids, entry.ContentID)
		}
	}
	return ids
}
