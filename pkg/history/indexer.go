package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/careertools/resume-allocator/pkg/content"
	"github.com/pkg/errors"
)

const indexVersion = "1.0.0"

// Indexer scans allocation files under the output directory and builds a
// searchable index.
type Indexer struct {
	outputPath string
	indexPath  string
}

// NewIndexer creates an indexer over the given output directory. The index is
// written to .allocation-index.json inside it.
func NewIndexer(outputPath string) (indexer *Indexer, err error) {
	if outputPath == "" {
		err = errors.New("output path is required")
		return indexer, err
	}

	indexer = &Indexer{
		outputPath: outputPath,
		indexPath:  filepath.Join(outputPath, ".allocation-index.json"),
	}

	return indexer, err
}

// Index scans all allocation.json files under the output directory and
// rebuilds the index from scratch.
func (idx *Indexer) Index(ctx context.Context) (count int, err error) {
	allocations := []IndexedAllocation{}

	walkErr := filepath.Walk(idx.outputPath, func(path string, info os.FileInfo, walkErr error) (walkFuncErr error) {
		walkFuncErr = idx.processAllocationFile(path, info, walkErr, &allocations, &count)
		return walkFuncErr
	})
	if walkErr != nil {
		err = errors.Wrap(walkErr, "failed to walk output directory")
		return count, err
	}

	index := AllocationIndex{
		Allocations: allocations,
		UpdatedAt:   time.Now(),
		Version:     indexVersion,
	}

	err = idx.writeIndex(index)
	if err != nil {
		return count, err
	}

	return count, err
}

// processAllocationFile handles a single file during the directory walk.
// Unparseable files are skipped so one bad run cannot poison the index.
func (idx *Indexer) processAllocationFile(path string, info os.FileInfo, walkErr error, allocations *[]IndexedAllocation, count *int) (err error) {
	if walkErr != nil {
		err = walkErr
		return err
	}

	if info.IsDir() || info.Name() != "allocation.json" {
		return err
	}

	var allocation content.Allocation
	allocation, err = idx.loadAllocation(path)
	if err != nil {
		err = nil
		//nolint:nilerr // Intentionally swallowing error to skip bad allocation files
		return err
	}

	usedIDs := allocation.UsedContentIDs()
	baseIDs := uniqueBaseIDs(usedIDs)

	*allocations = append(*allocations, IndexedAllocation{
		// The per-company output directory name stands in for the company.
		Company:     filepath.Base(filepath.Dir(path)),
		Path:        path,
		AllocatedAt: info.ModTime(),
		SlotsFilled: len(usedIDs),
		UsedIDs:     usedIDs,
		UsedBaseIDs: baseIDs,
	})
	*count++

	return err
}

func (idx *Indexer) loadAllocation(path string) (allocation content.Allocation, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read allocation file: %s", path)
		return allocation, err
	}

	err = json.Unmarshal(data, &allocation)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse allocation file: %s", path)
		return allocation, err
	}

	return allocation, err
}

func (idx *Indexer) writeIndex(index AllocationIndex) (err error) {
	var data []byte
	data, err = json.MarshalIndent(index, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal index")
		return err
	}

	err = os.WriteFile(idx.indexPath, data, 0644)
	if err != nil {
		err = errors.Wrap(err, "failed to write index file")
		return err
	}

	return err
}

// LoadIndex loads the existing index from disk. A missing index is returned
// empty, not as an error.
func (idx *Indexer) LoadIndex() (index AllocationIndex, err error) {
	var data []byte
	data, err = os.ReadFile(idx.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			index = AllocationIndex{
				Allocations: []IndexedAllocation{},
				UpdatedAt:   time.Now(),
				Version:     indexVersion,
			}
			err = nil
			return index, err
		}
		err = errors.Wrap(err, "failed to read index file")
		return index, err
	}

	err = json.Unmarshal(data, &index)
	if err != nil {
		err = errors.Wrap(err, "failed to parse index file")
		return index, err
	}

	return index, err
}

// uniqueBaseIDs reduces content ids to their sorted, deduplicated base identities.
func uniqueBaseIDs(ids []string) (bases []string) {
	seen := make(map[string]bool, len(ids))
	bases = []string{}
	for _, id := range ids {
		base := content.BaseID(id)
		if seen[base] {
			continue
		}
		seen[base] = true
		bases = append(bases, base)
	}
	sort.Strings(bases)
	return bases
}
