// Package history indexes past allocation runs so repeat applications can see
// which achievements they have already led with elsewhere.
package history

import "time"

// IndexedAllocation is one past allocation run, reduced to what the usage
// report needs.
type IndexedAllocation struct {
	Company     string    `json:"company"`
	Path        string    `json:"path"`
	AllocatedAt time.Time `json:"allocated_at"`
	SlotsFilled int       `json:"slots_filled"`
	UsedIDs     []string  `json:"used_ids"`
	UsedBaseIDs []string  `json:"used_base_ids"`
}

// AllocationIndex is the searchable index over all past allocation runs.
type AllocationIndex struct {
	Allocations []IndexedAllocation `json:"allocations"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Version     string              `json:"version"`
}

// BaseUsage reports how often one base identity has been used across runs.
type BaseUsage struct {
	BaseID    string   `json:"base_id"`
	Count     int      `json:"count"`
	Companies []string `json:"companies"`
}
