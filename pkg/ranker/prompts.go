package ranker

import (
	"encoding/json"
	"fmt"

	"github.com/careertools/resume-allocator/pkg/content"
)

// buildRankingPrompt creates the per-slot ranking prompt.
func buildRankingPrompt(req Request, pool []content.ContentAtom) (prompt string) {
	poolJSON, _ := json.MarshalIndent(pool, "", "  ")

	positionNote := ""
	if req.Category.PositionScoped() {
		positionNote = fmt.Sprintf("\nThe slot belongs to position %d of the resume; all candidates already match that position.\n", req.PositionNumber)
	}

	prompt = fmt.Sprintf(`You are an expert career consultant scoring pre-written resume content against a job description.

JOB DESCRIPTION:
%s

SLOT: %s (category: %s)
%s
CANDIDATE CONTENT:
%s

Score each candidate 0.0-10.0 on relevance to this specific role. Higher is better.
- Prioritize transferable TECHNICAL PATTERNS (distributed systems, scale, reliability, security architecture) over surface domain-keyword matching
- Do NOT downrank a candidate just because its industry differs from the job's industry
- List the tags from the candidate that matched the job's needs
- Score every candidate exactly once, using the candidate's id verbatim

Return ONLY valid JSON in this exact format (no markdown, no commentary):
{
  "ranked": [
    {
      "id": "candidate-id-here",
      "score": 8.5,
      "matched_tags": ["tag1", "tag2"],
      "reasoning": "why this is relevant"
    }
  ]
}`, req.JobDescription, req.SlotKey, req.Category, positionNote, string(poolJSON))

	return prompt
}
