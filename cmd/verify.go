package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/careertools/resume-allocator/pkg/conflicts"
	"github.com/careertools/resume-allocator/pkg/content"
	"github.com/careertools/resume-allocator/pkg/verify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var conflictTablePath string

//nolint:gochecknoglobals // Cobra boilerplate
var verifyCmd = &cobra.Command{
	Use:   "verify <allocation-file>",
	Short: "Verify a saved allocation against the exclusivity rules",
	Long: `Verify re-checks an allocation file: no base identity may appear in more
than one slot, and no conflict pair may co-occur. Useful as a safety net for
content that was assembled or edited outside the allocator.

Exits non-zero when the allocation is invalid; the violation report is printed
either way.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&conflictTablePath, "conflict-table", "", "Conflict table JSON (default: built-in table)")
}

func runVerify(cmd *cobra.Command, args []string) (err error) {
	// Load allocation
	var data []byte
	data, err = os.ReadFile(args[0])
	if err != nil {
		err = errors.Wrapf(err, "failed to read allocation file: %s", args[0])
		return err
	}

	var allocation content.Allocation
	err = json.Unmarshal(data, &allocation)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse allocation file: %s", args[0])
		return err
	}

	// Build registry
	rules := conflicts.DefaultRules
	if conflictTablePath != "" {
		rules, err = conflicts.LoadRules(conflictTablePath)
		if err != nil {
			return err
		}
	}

	// Check and report
	report := verify.Check(allocation, conflicts.NewRegistry(rules))

	var out []byte
	out, err = json.MarshalIndent(report, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal report")
		return err
	}
	fmt.Println(string(out))

	if !report.Valid {
		err = errors.Errorf("allocation is invalid: %d duplicate base ids, %d conflict pairs",
			len(report.Duplicates), len(report.Conflicts))
		return err
	}

	return err
}
