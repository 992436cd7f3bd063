package ledger

import (
	"sort"
	"sync"

	"github.com/careertools/resume-allocator/pkg/conflicts"
	"github.com/careertools/resume-allocator/pkg/content"
)

// Snapshot is the serializable form of a ledger: two flat lists of base ids,
// suitable for storage in a session record.
type Snapshot struct {
	UsedBaseIDs    []string `json:"used_base_ids"`
	BlockedBaseIDs []string `json:"blocked_base_ids"`
}

// Ledger is the durable per-session record of which base identities have been
// consumed and which are blocked, directly or through the conflict registry.
// It grows monotonically: an approved section's identities remain consumed for
// the life of the session. The ledger is a low-level store, not a policy
// enforcer - Commit never re-validates what it is given.
//
// All operations are serialized through an internal mutex, so a single ledger
// value is safe for concurrent use. Cross-process serialization is the session
// store's job.
type Ledger struct {
	mu       sync.Mutex
	registry *conflicts.Registry
	used     map[string]bool
	blocked  map[string]bool
}

// New creates an empty ledger backed by the given conflict registry.
func New(registry *conflicts.Registry) (l *Ledger) {
	l = &Ledger{
		registry: registry,
		used:     make(map[string]bool),
		blocked:  make(map[string]bool),
	}
	return l
}

// FromSnapshot restores a ledger from persisted session state.
func FromSnapshot(registry *conflicts.Registry, snap Snapshot) (l *Ledger) {
	l = New(registry)
	for _, id := range snap.UsedBaseIDs {
		l.used[id] = true
	}
	for _, id := range snap.BlockedBaseIDs {
		l.blocked[id] = true
	}
	return l
}

// IsAvailable reports whether the given content id can still be used: neither
// its base id nor any base id it conflicts with has been consumed or blocked.
func (l *Ledger) IsAvailable(id string) (available bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for blockedID := range l.registry.ConflictsOf(id) {
		if l.used[blockedID] || l.blocked[blockedID] {
			available = false
			return available
		}
	}

	available = true
	return available
}

// Commit records the given content ids as used, blocking their base ids and
// every base id the registry links to them. It returns the full new blocked
// set. Commit never fails: ids that are already blocked are committed anyway,
// since validation belongs to the allocator and verifier, not the ledger.
func (l *Ledger) Commit(ids []string) (blocked []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range ids {
		l.used[content.BaseID(id)] = true
		for blockedID := range l.registry.ConflictsOf(id) {
			l.blocked[blockedID] = true
		}
	}

	blocked = l.blockedLocked()
	return blocked
}

// BlockedIDs returns a sorted snapshot of every blocked base id. Callers pass
// this to the ranking service as an exclusion filter so it never wastes a rank
// slot on content that is already off the table.
func (l *Ledger) BlockedIDs() (blocked []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	blocked = l.blockedLocked()
	return blocked
}

// Snapshot returns the ledger's serializable state.
func (l *Ledger) Snapshot() (snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap = Snapshot{
		UsedBaseIDs:    sortedKeys(l.used),
		BlockedBaseIDs: sortedKeys(l.blocked),
	}
	return snap
}

// blockedLocked returns the sorted union of used and blocked base ids.
// Callers must hold l.mu.
func (l *Ledger) blockedLocked() (blocked []string) {
	union := make(map[string]bool, len(l.used)+len(l.blocked))
	for id := range l.used {
		union[id] = true
	}
	for id := range l.blocked {
		union[id] = true
	}
	blocked = sortedKeys(union)
	return blocked
}

func sortedKeys(set map[string]bool) (keys []string) {
	keys = make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
