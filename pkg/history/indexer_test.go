package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/careertools/resume-allocator/pkg/content"
)

func writeAllocation(t *testing.T, dir string, ids ...string) {
	t.Helper()

	allocation := content.Allocation{
		Assignments: map[string]content.Assignment{},
		Log:         []content.LogEntry{},
	}
	for i, id := range ids {
		key := "slot-" + string(rune('a'+i))
		allocation.Assignments[key] = content.Assignment{SlotKey: key, ContentID: id}
		allocation.Log = append(allocation.Log, content.LogEntry{
			SlotKey:   key,
			Decision:  content.DecisionAssigned,
			ContentID: id,
		})
	}

	err := os.MkdirAll(dir, 0750)
	if err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	data, err := json.Marshal(allocation)
	if err != nil {
		t.Fatalf("Failed to marshal allocation: %v", err)
	}

	err = os.WriteFile(filepath.Join(dir, "allocation.json"), data, 0600)
	if err != nil {
		t.Fatalf("Failed to write allocation: %v", err)
	}
}

func TestIndexScansAllocations(t *testing.T) {
	outDir := t.TempDir()
	writeAllocation(t, filepath.Join(outDir, "acme"), "SUM-01", "CH-05-V2", "P1-B02")
	writeAllocation(t, filepath.Join(outDir, "globex"), "CH-05-V3")

	indexer, err := NewIndexer(outDir)
	if err != nil {
		t.Fatalf("NewIndexer failed: %v", err)
	}

	count, err := indexer.Index(context.Background())
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 indexed allocations, got %d", count)
	}

	index, err := indexer.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	if len(index.Allocations) != 2 {
		t.Fatalf("Expected 2 entries in index, got %d", len(index.Allocations))
	}

	for _, run := range index.Allocations {
		if run.Company == "acme" {
			wantBases := []string{"CH-05", "P1-B02", "SUM-01"}
			if !reflect.DeepEqual(run.UsedBaseIDs, wantBases) {
				t.Errorf("Expected base ids %v, got %v", wantBases, run.UsedBaseIDs)
			}
			if run.SlotsFilled != 3 {
				t.Errorf("Expected 3 slots filled, got %d", run.SlotsFilled)
			}
		}
	}
}

func TestIndexSkipsBadFiles(t *testing.T) {
	outDir := t.TempDir()
	writeAllocation(t, filepath.Join(outDir, "acme"), "SUM-01")

	badDir := filepath.Join(outDir, "broken")
	err := os.MkdirAll(badDir, 0750)
	if err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	err = os.WriteFile(filepath.Join(badDir, "allocation.json"), []byte("not json"), 0600)
	if err != nil {
		t.Fatalf("Failed to write bad file: %v", err)
	}

	indexer, err := NewIndexer(outDir)
	if err != nil {
		t.Fatalf("NewIndexer failed: %v", err)
	}

	count, err := indexer.Index(context.Background())
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected bad file skipped, got count %d", count)
	}
}

func TestLoadIndexMissingReturnsEmpty(t *testing.T) {
	indexer, err := NewIndexer(t.TempDir())
	if err != nil {
		t.Fatalf("NewIndexer failed: %v", err)
	}

	index, err := indexer.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	if len(index.Allocations) != 0 {
		t.Errorf("Expected empty index, got %d entries", len(index.Allocations))
	}
}

func TestNewIndexerRequiresPath(t *testing.T) {
	_, err := NewIndexer("")
	if err == nil {
		t.Error("Expected error for empty output path, got nil")
	}
}

func TestReporterUsage(t *testing.T) {
	outDir := t.TempDir()
	writeAllocation(t, filepath.Join(outDir, "acme"), "CH-05-V2", "SUM-01")
	writeAllocation(t, filepath.Join(outDir, "globex"), "CH-05-V3")
	writeAllocation(t, filepath.Join(outDir, "initech"), "CH-05", "P1-B02")

	indexer, err := NewIndexer(outDir)
	if err != nil {
		t.Fatalf("NewIndexer failed: %v", err)
	}
	_, err = indexer.Index(context.Background())
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	usages, err := NewReporter(indexer).Usage()
	if err != nil {
		t.Fatalf("Usage failed: %v", err)
	}

	// CH-05 used in all three runs regardless of variant suffix.
	if usages[0].BaseID != "CH-05" || usages[0].Count != 3 {
		t.Errorf("Expected CH-05 used 3 times first, got %s count %d", usages[0].BaseID, usages[0].Count)
	}
	wantCompanies := []string{"acme", "globex", "initech"}
	if !reflect.DeepEqual(usages[0].Companies, wantCompanies) {
		t.Errorf("Expected companies %v, got %v", wantCompanies, usages[0].Companies)
	}

	// Single-use bases follow, ordered by base id.
	if usages[1].BaseID != "P1-B02" || usages[2].BaseID != "SUM-01" {
		t.Errorf("Expected tie broken by base id, got %s then %s", usages[1].BaseID, usages[2].BaseID)
	}
}

func TestFormatReport(t *testing.T) {
	reporter := NewReporter(nil)

	empty := reporter.FormatReport(nil)
	if !strings.Contains(empty, "No previous allocations") {
		t.Errorf("Expected empty-index message, got %q", empty)
	}

	formatted := reporter.FormatReport([]BaseUsage{
		{BaseID: "CH-05", Count: 2, Companies: []string{"acme", "globex"}},
	})
	if !strings.Contains(formatted, "CH-05: used 2 time(s) (acme, globex)") {
		t.Errorf("Unexpected report format: %q", formatted)
	}
}
