// internal/cli/stage.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	stageBinDir string
	stageDryRun bool
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Copy runtime libraries next to the produced binary",
	Long: `Resolve the target platform and copy every runtime artifact into the
binary output directory, skipping files that are already up to date.

Examples:
  sdklink stage --platform Win64 --bin-dir ./Binaries/Win64
  sdklink stage --bin-dir ./Binaries/Win64 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runStage,
}

func init() {
	stageCmd.Flags().StringVar(&stageBinDir, "bin-dir", "", "binary output directory (default: binary_output_dir from config)")
	stageCmd.Flags().BoolVar(&stageDryRun, "dry-run", false, "print what would be copied")
}

func runStage(cmd *cobra.Command, args []string) error {
	m, err := newModule(cmd)
	if err != nil {
		return err
	}

	set, err := m.Resolve(m.Platform())
	if err != nil {
		return err
	}

	res, err := m.Stage(cmd.Context(), set, stageBinDir, stageDryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verb := "staged"
	if stageDryRun {
		verb = "would stage"
	}
	for _, path := range res.Copied {
		fmt.Fprintf(out, "%s %s\n", verb, path)
	}
	fmt.Fprintf(out, "%d %s, %d up to date\n", len(res.Copied), verb, len(res.Skipped))
	return nil
}
