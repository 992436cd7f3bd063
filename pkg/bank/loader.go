package bank

import (
	"encoding/json"
	"os"

	"github.com/careertools/resume-allocator/pkg/content"
	"github.com/pkg/errors"
)

// Load reads the content bank from a JSON file.
func Load(path string) (b Bank, err error) {
	// Read file
	var fileData []byte
	fileData, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read content bank: %s", path)
		return b, err
	}

	// Parse JSON
	err = json.Unmarshal(fileData, &b)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse content bank JSON: %s", path)
		return b, err
	}

	// Validate data
	err = b.Validate()
	if err != nil {
		err = errors.Wrap(err, "content bank validation failed")
		return b, err
	}

	return b, err
}

// Validate checks that the bank is well-formed: every atom has a unique id,
// a known category, non-empty content, and a position number when its
// category is position-scoped.
func (b *Bank) Validate() (err error) {
	if len(b.Atoms) == 0 {
		err = errors.New("no atoms found in content bank")
		return err
	}

	if b.Profile.Name == "" {
		err = errors.New("profile name is required")
		return err
	}

	seen := make(map[string]bool)
	for i, atom := range b.Atoms {
		if atom.ID == "" {
			err = errors.Errorf("atom at index %d missing id", i)
			return err
		}
		if seen[atom.ID] {
			err = errors.Errorf("duplicate atom id: %s", atom.ID)
			return err
		}
		seen[atom.ID] = true

		if !atom.Category.Valid() {
			err = errors.Errorf("atom %s has unknown category: %s", atom.ID, atom.Category)
			return err
		}
		if atom.Content == "" {
			err = errors.Errorf("atom %s missing content", atom.ID)
			return err
		}
		if atom.Category.PositionScoped() && atom.PositionNumber <= 0 {
			err = errors.Errorf("atom %s is position-scoped but has no position number", atom.ID)
			return err
		}
		if !atom.Category.PositionScoped() && atom.PositionNumber != 0 {
			err = errors.Errorf("atom %s carries a position number but category %s is not position-scoped", atom.ID, atom.Category)
			return err
		}
		if content.BaseID(atom.ID) == "" {
			err = errors.Errorf("atom %s has an empty base id", atom.ID)
			return err
		}
	}

	return err
}
