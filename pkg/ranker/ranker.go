// Package ranker supplies per-slot candidate lists to the allocation engine.
// Relevance scoring is an external concern: the core consumes whatever scores
// a Ranker produces as already-final numbers and re-checks exclusivity itself.
package ranker

import (
	"context"
	"sort"

	"github.com/careertools/resume-allocator/pkg/content"
	"github.com/careertools/resume-allocator/pkg/llm"
	"github.com/pkg/errors"
)

// Request describes one slot's candidate query.
type Request struct {
	SlotKey        string
	Category       content.Category
	PositionNumber int
	JobDescription string
	// Exclude lists base ids already blocked for the session. Passing it is a
	// performance optimization so no rank slot is wasted on dead content; the
	// allocator re-checks exclusivity regardless.
	Exclude []string
}

// Ranker produces a scored candidate list for a slot from a pool of eligible
// atoms. Implementations should order results by descending score, but
// consumers must not depend on that.
type Ranker interface {
	Rank(ctx context.Context, req Request, pool []content.ContentAtom) (candidates []content.ScoredCandidate, err error)
}

// LLMRanker scores candidates by prompting Claude with the job description
// and the eligible atoms.
type LLMRanker struct {
	client *llm.Client
}

// NewLLMRanker creates a ranker backed by the given client.
func NewLLMRanker(client *llm.Client) (ranker *LLMRanker) {
	ranker = &LLMRanker{
		client: client,
	}
	return ranker
}

// rankedAtom is one scored entry in the model's response.
type rankedAtom struct {
	ID          string   `json:"id"`
	Score       float64  `json:"score"`
	MatchedTags []string `json:"matched_tags,omitempty"`
	Reasoning   string   `json:"reasoning,omitempty"`
}

// rankingResponse is the JSON document the model returns.
type rankingResponse struct {
	Ranked []rankedAtom `json:"ranked"`
}

// Rank scores the pool against the request's job description. Excluded base
// ids are filtered out before prompting. Ids the model invents are dropped;
// results are sorted by descending score with input order breaking ties.
func (r *LLMRanker) Rank(ctx context.Context, req Request, pool []content.ContentAtom) (candidates []content.ScoredCandidate, err error) {
	candidates = []content.ScoredCandidate{}

	eligible := filterExcluded(pool, req.Exclude)
	if len(eligible) == 0 {
		return candidates, err
	}

	prompt := buildRankingPrompt(req, eligible)

	var response rankingResponse
	err = r.client.CompleteJSON(ctx, prompt, &response)
	if err != nil {
		err = errors.Wrapf(err, "ranking request failed for slot %s", req.SlotKey)
		return candidates, err
	}

	// Join scores back to the pool; unknown ids are model hallucinations.
	byID := make(map[string]content.ContentAtom, len(eligible))
	for _, atom := range eligible {
		byID[atom.ID] = atom
	}

	for _, ranked := range response.Ranked {
		atom, known := byID[ranked.ID]
		if !known {
			continue
		}
		candidates = append(candidates, content.ScoredCandidate{
			ID:          atom.ID,
			Content:     atom.Content,
			Score:       ranked.Score,
			MatchedTags: ranked.MatchedTags,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates, err
}

// filterExcluded drops atoms whose base id is in the exclusion set.
func filterExcluded(pool []content.ContentAtom, exclude []string) (eligible []content.ContentAtom) {
	if len(exclude) == 0 {
		eligible = pool
		return eligible
	}

	excluded := make(map[string]bool, len(exclude))
	for _, base := range exclude {
		excluded[base] = true
	}

	eligible = []content.ContentAtom{}
	for _, atom := range pool {
		if excluded[atom.BaseID()] {
			continue
		}
		eligible = append(eligible, atom)
	}
	return eligible
}
