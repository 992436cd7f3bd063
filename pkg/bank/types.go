package bank

import (
	"sort"

	"github.com/careertools/resume-allocator/pkg/content"
)

// Bank is the complete content bank: profile metadata plus every pre-written
// content atom available for allocation.
type Bank struct {
	Profile Profile               `json:"profile"`
	Atoms   []content.ContentAtom `json:"atoms"`
}

// Profile represents personal information carried through to rendering.
type Profile struct {
	Name     string            `json:"name"`
	Title    string            `json:"title"`
	Location string            `json:"location"`
	Profiles map[string]string `json:"profiles,omitempty"`
}

// PoolFor returns the atoms eligible for a slot of the given category. For
// position-scoped categories the position number must also match.
func (b *Bank) PoolFor(category content.Category, positionNumber int) (atoms []content.ContentAtom) {
	atoms = []content.ContentAtom{}
	for _, atom := range b.Atoms {
		if atom.Category != category {
			continue
		}
		if category.PositionScoped() && atom.PositionNumber != positionNumber {
			continue
		}
		atoms = append(atoms, atom)
	}
	return atoms
}

// Positions returns the distinct position numbers present in the bank, in
// ascending order.
func (b *Bank) Positions() (positions []int) {
	seen := make(map[int]bool)
	positions = []int{}
	for _, atom := range b.Atoms {
		if !atom.Category.PositionScoped() {
			continue
		}
		if !seen[atom.PositionNumber] {
			seen[atom.PositionNumber] = true
			positions = append(positions, atom.PositionNumber)
		}
	}
	sort.Ints(positions)
	return positions
}

// Variants returns every atom sharing the given base id.
func (b *Bank) Variants(baseID string) (atoms []content.ContentAtom) {
	atoms = []content.ContentAtom{}
	for _, atom := range b.Atoms {
		if atom.BaseID() == baseID {
			atoms = append(atoms, atom)
		}
	}
	return atoms
}

// ByID looks up a single atom by its exact id.
func (b *Bank) ByID(id string) (atom content.ContentAtom, found bool) {
	for _, candidate := range b.Atoms {
		if candidate.ID == id {
			atom = candidate
			found = true
			return atom, found
		}
	}
	found = false
	return atom, found
}
