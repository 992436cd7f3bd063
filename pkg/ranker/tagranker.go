package ranker

import (
	"context"
	"sort"
	"strings"

	"github.com/careertools/resume-allocator/pkg/content"
)

// Tag class weights for offline scoring. Themes describe the actual work in an
// atom and matter most; industries are the weakest signal since job postings
// name their industry regardless of what the role involves.
//
//nolint:gochecknoglobals // Scoring configuration constants
var tagClassWeights = map[string]float64{
	"theme":    20,
	"function": 15,
	"industry": 10,
}

// maxTagScore caps offline scores. Scores are only ever compared within a
// single slot's candidate list, so the scale need not match the LLM ranker's.
const maxTagScore = 100

// TagRanker scores candidates by matching their tags against the job
// description text. It is deterministic and needs no API key, at the cost of
// cruder relevance than the LLM ranker. Used as the offline fallback.
type TagRanker struct{}

// NewTagRanker creates an offline tag-overlap ranker.
func NewTagRanker() (ranker *TagRanker) {
	ranker = &TagRanker{}
	return ranker
}

// Rank scores the pool by weighted tag overlap with the job description.
// Excluded base ids are filtered out first. Atoms with no matching tags score
// zero but are still returned; the allocator decides what to do with them.
func (r *TagRanker) Rank(ctx context.Context, req Request, pool []content.ContentAtom) (candidates []content.ScoredCandidate, err error) {
	candidates = []content.ScoredCandidate{}

	eligible := filterExcluded(pool, req.Exclude)
	if len(eligible) == 0 {
		return candidates, err
	}

	jd := strings.ToLower(req.JobDescription)

	for _, atom := range eligible {
		score, matched := scoreAtomTags(atom.Tags, jd)
		candidates = append(candidates, content.ScoredCandidate{
			ID:          atom.ID,
			Content:     atom.Content,
			Score:       score,
			MatchedTags: matched,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates, err
}

// scoreAtomTags sums the class weight of every tag that appears in the
// lowercased job description, clamped to maxTagScore.
func scoreAtomTags(tags content.Tags, jd string) (score float64, matched []string) {
	classes := []struct {
		name   string
		labels []string
	}{
		{"theme", tags.Themes},
		{"function", tags.Functions},
		{"industry", tags.Industries},
	}

	for _, class := range classes {
		weight := tagClassWeights[class.name]
		for _, label := range class.labels {
			if label == "" {
				continue
			}
			if strings.Contains(jd, strings.ToLower(label)) {
				score += weight
				matched = append(matched, label)
			}
		}
	}

	if score > maxTagScore {
		score = maxTagScore
	}

	return score, matched
}
