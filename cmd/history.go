package cmd

import (
	"context"
	"fmt"

	"github.com/careertools/resume-allocator/pkg/config"
	"github.com/careertools/resume-allocator/pkg/history"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var historyOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Index and report past allocation runs",
	Long: `History tracks which base identities past allocations have used, across every
company directory under the output root. Run 'history index' after generating
resumes, then 'history show' to see which achievements are getting overworked.`,
}

//nolint:gochecknoglobals // Cobra boilerplate
var historyIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the allocation index from the output directory",
	Args:  cobra.NoArgs,
	RunE:  runHistoryIndex,
}

//nolint:gochecknoglobals // Cobra boilerplate
var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show base identity usage across indexed allocations",
	Args:  cobra.NoArgs,
	RunE:  runHistoryShow,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyIndexCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyCmd.PersistentFlags().StringVar(&historyOutputDir, "output-dir", "", "Output directory to index (default from config)")
}

// historyIndexer builds an indexer over the configured output directory.
func historyIndexer() (indexer *history.Indexer, err error) {
	outDir := historyOutputDir
	if outDir == "" {
		var cfg config.Config
		cfg, err = config.Load(getConfigFile())
		if err != nil {
			return indexer, err
		}
		outDir = cfg.Defaults.OutputDir
	}

	indexer, err = history.NewIndexer(outDir)
	return indexer, err
}

func runHistoryIndex(cmd *cobra.Command, args []string) (err error) {
	indexer, err := historyIndexer()
	if err != nil {
		return err
	}

	var count int
	count, err = indexer.Index(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d allocation(s)\n", count)
	return err
}

func runHistoryShow(cmd *cobra.Command, args []string) (err error) {
	indexer, err := historyIndexer()
	if err != nil {
		return err
	}

	reporter := history.NewReporter(indexer)
	usages, err := reporter.Usage()
	if err != nil {
		return err
	}

	fmt.Println(reporter.FormatReport(usages))
	return err
}
