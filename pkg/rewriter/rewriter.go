// Package rewriter turns assigned content atoms into role-tailored prose.
// It consumes the allocation's slot mapping as the authoritative record of
// what was used and never changes which atoms were selected; the verifier has
// already signed off on the selection by the time rewriting happens.
package rewriter

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/careertools/resume-allocator/pkg/content"
	"github.com/careertools/resume-allocator/pkg/llm"
	"github.com/pkg/errors"
)

// Rewriter rewrites assigned content via Claude.
type Rewriter struct {
	client *llm.Client
}

// New creates a rewriter backed by the given client.
func New(client *llm.Client) (rewriter *Rewriter) {
	rewriter = &Rewriter{
		client: client,
	}
	return rewriter
}

// section is one slot's raw text as presented to the model.
type section struct {
	SlotKey   string `json:"slot_key"`
	ContentID string `json:"content_id"`
	Text      string `json:"text"`
}

// rewriteResponse is the JSON document the model returns.
type rewriteResponse struct {
	Sections []section `json:"sections"`
}

// Rewrite tailors every assigned slot's text to the job description and
// returns a slot-key to prose mapping. The model may rephrase but must not
// introduce content for slots it was not given; unknown slot keys in the
// response are dropped, and slots missing from the response keep their raw
// text so a partial model answer never loses content.
func (r *Rewriter) Rewrite(ctx context.Context, allocation content.Allocation, jobDescription, company, role string) (rewritten map[string]string, err error) {
	rewritten = make(map[string]string)
	if len(allocation.Assignments) == 0 {
		return rewritten, err
	}

	// Stable section order keeps the prompt deterministic.
	sections := make([]section, 0, len(allocation.Assignments))
	for _, assignment := range allocation.Assignments {
		sections = append(sections, section{
			SlotKey:   assignment.SlotKey,
			ContentID: assignment.ContentID,
			Text:      assignment.Content,
		})
	}
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].SlotKey < sections[j].SlotKey
	})

	prompt := buildRewritePrompt(sections, jobDescription, company, role)

	var response rewriteResponse
	err = r.client.CompleteJSON(ctx, prompt, &response)
	if err != nil {
		err = errors.Wrap(err, "rewrite request failed")
		return rewritten, err
	}

	// Start from the raw text, then overlay what the model returned.
	for _, s := range sections {
		rewritten[s.SlotKey] = s.Text
	}
	for _, s := range response.Sections {
		if _, known := rewritten[s.SlotKey]; !known {
			continue
		}
		if s.Text != "" {
			rewritten[s.SlotKey] = s.Text
		}
	}

	return rewritten, err
}

// buildRewritePrompt creates the rewrite prompt.
func buildRewritePrompt(sections []section, jobDescription, company, role string) (prompt string) {
	sectionsJSON, _ := json.MarshalIndent(sections, "", "  ")

	prompt = fmt.Sprintf(`You are an expert resume writer tailoring pre-approved content to a specific role.

TARGET: %s at %s

JOB DESCRIPTION:
%s

APPROVED SECTIONS:
%s

Rewrite each section's text so it speaks directly to this role's requirements.
- Keep every fact, metric, and number exactly as given - invent NOTHING
- Adjust emphasis and vocabulary to mirror the job description
- Keep each rewrite roughly the same length as the original
- Return every section you were given, keyed by its slot_key

Return ONLY valid JSON in this exact format (no markdown, no commentary):
{
  "sections": [
    {
      "slot_key": "slot-key-here",
      "content_id": "id-here",
      "text": "rewritten text"
    }
  ]
}`, role, company, jobDescription, string(sectionsJSON))

	return prompt
}
