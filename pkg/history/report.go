package history

import (
	"fmt"
	"sort"
)

// Reporter aggregates the index into usage reports.
type Reporter struct {
	indexer *Indexer
}

// NewReporter creates a reporter over the given indexer.
func NewReporter(indexer *Indexer) (reporter *Reporter) {
	reporter = &Reporter{
		indexer: indexer,
	}
	return reporter
}

// Usage returns per-base-identity usage across all indexed runs, most-used
// first, with base id breaking ties.
func (r *Reporter) Usage() (usages []BaseUsage, err error) {
	var index AllocationIndex
	index, err = r.indexer.LoadIndex()
	if err != nil {
		return usages, err
	}

	counts := make(map[string]int)
	companies := make(map[string]map[string]bool)

	for _, run := range index.Allocations {
		for _, base := range run.UsedBaseIDs {
			counts[base]++
			if companies[base] == nil {
				companies[base] = make(map[string]bool)
			}
			companies[base][run.Company] = true
		}
	}

	usages = []BaseUsage{}
	for base, count := range counts {
		names := make([]string, 0, len(companies[base]))
		for name := range companies[base] {
			names = append(names, name)
		}
		sort.Strings(names)

		usages = append(usages, BaseUsage{
			BaseID:    base,
			Count:     count,
			Companies: names,
		})
	}

	sort.Slice(usages, func(i, j int) bool {
		if usages[i].Count != usages[j].Count {
			return usages[i].Count > usages[j].Count
		}
		return usages[i].BaseID < usages[j].BaseID
	})

	return usages, err
}

// FormatReport renders the usage list as a readable text report.
func (r *Reporter) FormatReport(usages []BaseUsage) (formatted string) {
	if len(usages) == 0 {
		formatted = "No previous allocations indexed."
		return formatted
	}

	formatted = fmt.Sprintf("Base identity usage across %d indexed achievements:\n\n", len(usages))
	for _, usage := range usages {
		formatted += fmt.Sprintf("- %s: used %d time(s)", usage.BaseID, usage.Count)
		if len(usage.Companies) > 0 {
			formatted += " ("
			for i, name := range usage.Companies {
				if i > 0 {
					formatted += ", "
				}
				formatted += name
			}
			formatted += ")"
		}
		formatted += "\n"
	}

	return formatted
}
