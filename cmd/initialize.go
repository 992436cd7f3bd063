package cmd

import (
	"fmt"

	"github.com/careertools/resume-allocator/pkg/config"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	Long: `Init writes a template config file to $HOME/.resume-allocator/config.json
(or the path given with --config). Edit it to point at your content bank and,
optionally, your API key and conflict table.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	err = config.InitConfig(getConfigFile())
	if err != nil {
		return err
	}

	fmt.Println("Configuration file created. Edit it before running allocate.")
	return err
}
