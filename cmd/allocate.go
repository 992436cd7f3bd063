package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/careertools/resume-allocator/pkg/allocator"
	"github.com/careertools/resume-allocator/pkg/bank"
	"github.com/careertools/resume-allocator/pkg/config"
	"github.com/careertools/resume-allocator/pkg/content"
	"github.com/careertools/resume-allocator/pkg/jd"
	"github.com/careertools/resume-allocator/pkg/llm"
	"github.com/careertools/resume-allocator/pkg/ranker"
	"github.com/careertools/resume-allocator/pkg/rewriter"
	"github.com/careertools/resume-allocator/pkg/verify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var company string

//nolint:gochecknoglobals // Cobra boilerplate
var role string

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var highlightSlots int

//nolint:gochecknoglobals // Cobra boilerplate
var bulletsPerPosition int

//nolint:gochecknoglobals // Cobra boilerplate
var skipRewrite bool

//nolint:gochecknoglobals // Cobra boilerplate
var allocateCmd = &cobra.Command{
	Use:   "allocate <jd-file-or-url>",
	Short: "Rank, allocate, and verify content for a job description",
	Long: `Allocate fills every resume slot in one shot: each slot's candidates are
ranked against the job description, the batch allocator assigns them under the
exclusivity rules, and the verifier signs off before anything is written.

The job description can be provided as:
- A file path (e.g., jd.txt)
- A URL (e.g., https://example.com/jobs/123)

Example:
  resume-allocator allocate jd.txt --company "Acme Corp" --role "Staff Engineer"
  resume-allocator allocate https://example.com/jobs/123 --company "Acme" --role "SRE" --skip-rewrite`,
	Args: cobra.ExactArgs(1),
	RunE: runAllocate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(allocateCmd)
	allocateCmd.Flags().StringVar(&company, "company", "", "Company name (used for the output directory)")
	allocateCmd.Flags().StringVar(&role, "role", "", "Role title (passed to the ranker and rewriter)")
	allocateCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	allocateCmd.Flags().IntVar(&highlightSlots, "highlights", 0, "Number of career highlight slots (default from config)")
	allocateCmd.Flags().IntVar(&bulletsPerPosition, "bullets", 0, "Bullet slots per position (default from config)")
	allocateCmd.Flags().BoolVar(&skipRewrite, "skip-rewrite", false, "Write the allocation without rewriting content")
}

func runAllocate(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log, err := buildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Load config and inputs
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		return err
	}

	var jobDescription string
	jobDescription, err = jd.FetchWithContext(ctx, args[0])
	if err != nil {
		return err
	}

	var contentBank bank.Bank
	contentBank, err = bank.Load(cfg.BankLocation)
	if err != nil {
		return err
	}

	registry, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	log.Infow("inputs loaded",
		"atoms", len(contentBank.Atoms),
		"conflict_rules", len(registry.Rules()),
	)

	// Rank candidates for every slot
	slots, err := rankSlots(ctx, cfg, contentBank, jobDescription, log)
	if err != nil {
		return err
	}

	// Allocate and verify
	allocation := allocator.New(registry).Allocate(slots)
	for _, entry := range allocation.Log {
		if entry.Decision == content.DecisionAssigned {
			log.Debugw("slot assigned", "slot", entry.SlotKey, "content_id", entry.ContentID, "score", entry.Score)
		} else {
			log.Infow("slot skipped", "slot", entry.SlotKey, "reason", entry.Reason)
		}
	}

	report := verify.Check(allocation, registry)
	if !report.Valid {
		reportJSON, _ := json.MarshalIndent(report, "", "  ")
		err = errors.Errorf("allocation failed verification:\n%s", string(reportJSON))
		return err
	}

	// Write artifacts
	outDir, err := resolveOutputDir(cfg, company)
	if err != nil {
		return err
	}

	err = writeJSON(filepath.Join(outDir, "allocation.json"), allocation)
	if err != nil {
		return err
	}
	log.Infow("allocation written",
		"path", filepath.Join(outDir, "allocation.json"),
		"assigned", len(allocation.Assignments),
		"slots", len(allocation.Log),
	)

	if skipRewrite {
		return err
	}
	if cfg.AnthropicAPIKey == "" {
		log.Infow("no API key configured, skipping rewrite")
		return err
	}

	// Rewrite assigned content into role-tailored prose
	client := llm.NewClient(cfg.AnthropicAPIKey, cfg.GetRewritingModel())
	var sections map[string]string
	sections, err = rewriter.New(client).Rewrite(ctx, allocation, jobDescription, company, role)
	if err != nil {
		return err
	}

	err = writeJSON(filepath.Join(outDir, "resume-sections.json"), sections)
	if err != nil {
		return err
	}
	log.Infow("rewritten sections written", "path", filepath.Join(outDir, "resume-sections.json"))

	return err
}

// rankSlots builds the slot plan from the bank's positions and fills every
// slot's candidate list through the ranker.
func rankSlots(ctx context.Context, cfg config.Config, contentBank bank.Bank, jobDescription string, log *zap.SugaredLogger) (slots []content.Slot, err error) {
	highlights := highlightSlots
	if highlights == 0 {
		highlights = cfg.Defaults.HighlightSlots
	}
	bullets := bulletsPerPosition
	if bullets == 0 {
		bullets = cfg.Defaults.BulletsPerPosition
	}

	slots = content.BuildSlotPlan(highlights, contentBank.Positions(), bullets)

	var r ranker.Ranker
	if cfg.AnthropicAPIKey == "" {
		log.Infow("no API key configured, ranking offline by tag overlap")
		r = ranker.NewTagRanker()
	} else {
		r = ranker.NewLLMRanker(llm.NewClient(cfg.AnthropicAPIKey, cfg.GetRankingModel()))
	}

	for i := range slots {
		pool := contentBank.PoolFor(slots[i].Category, slots[i].PositionNumber)
		if len(pool) == 0 {
			continue
		}

		var candidates []content.ScoredCandidate
		candidates, err = r.Rank(ctx, ranker.Request{
			SlotKey:        slots[i].SlotKey,
			Category:       slots[i].Category,
			PositionNumber: slots[i].PositionNumber,
			JobDescription: jobDescription,
		}, pool)
		if err != nil {
			return slots, err
		}

		slots[i].Candidates = candidates
		log.Debugw("slot ranked", "slot", slots[i].SlotKey, "candidates", len(candidates))
	}

	return slots, err
}

// resolveOutputDir creates and returns the per-company output directory.
func resolveOutputDir(cfg config.Config, companyName string) (outDir string, err error) {
	base := outputDir
	if base == "" {
		base = cfg.Defaults.OutputDir
	}

	dirName := "untitled"
	if companyName != "" {
		dirName = strings.ToLower(strings.ReplaceAll(companyName, " ", "-"))
	}

	outDir = filepath.Join(base, dirName)
	err = os.MkdirAll(outDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outDir)
		return outDir, err
	}

	return outDir, err
}

func writeJSON(path string, v interface{}) (err error) {
	var data []byte
	data, err = json.MarshalIndent(v, "", "  ")
	if err != nil {
		err = errors.Wrapf(err, "failed to marshal %s", path)
		return err
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		err = errors.Wrapf(err, "failed to write %s", path)
		return err
	}

	return err
}
