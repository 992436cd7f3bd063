package cmd

import (
	"os"

	"github.com/careertools/resume-allocator/pkg/config"
	"github.com/careertools/resume-allocator/pkg/conflicts"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "resume-allocator",
	Short: "Allocate resume content to output slots without redundancy",
	Long: `resume-allocator fills the slots of a tailored resume from a bank of
pre-written content atoms, guaranteeing that no two slots describe the same
underlying achievement - even across differently-worded variants and across
categories linked by the conflict table.

Relevance ranking and prose rewriting are delegated to the Claude API; the
allocation itself is deterministic and fully auditable through its log.`,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.resume-allocator/config.json)")
}

// getConfigFile returns the config file path.
func getConfigFile() (result string) {
	result = configFile
	return result
}

// buildLogger creates the CLI logger. Verbose mode enables debug output.
func buildLogger() (log *zap.SugaredLogger, err error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	var zapLogger *zap.Logger
	zapLogger, err = cfg.Build()
	if err != nil {
		return log, err
	}

	log = zapLogger.Sugar()
	return log, err
}

// loadRegistry builds the conflict registry from the configured table, or the
// built-in default table when none is configured.
func loadRegistry(cfg config.Config) (registry *conflicts.Registry, err error) {
	rules := conflicts.DefaultRules
	if cfg.ConflictTableLocation != "" {
		rules, err = conflicts.LoadRules(cfg.ConflictTableLocation)
		if err != nil {
			return registry, err
		}
	}

	registry = conflicts.NewRegistry(rules)
	return registry, err
}
