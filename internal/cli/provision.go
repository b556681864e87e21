// internal/cli/provision.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var provisionStrip int

var provisionCmd = &cobra.Command{
	Use:   "provision [archive]",
	Short: "Unpack a prebuilt SDK archive into the module",
	Long: `Extract a prebuilt AWS SDK binary archive (.tar.xz, .tar.zst, .tar.gz or .tar)
into <module-root>/<platform> and check that every registered component is present.

Examples:
  sdklink provision aws-sdk-cpp-win64.tar.zst --platform Win64
  sdklink provision aws-sdk-cpp-win64.tar.xz --strip-components 1`,
	Args: cobra.ExactArgs(1),
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().IntVar(&provisionStrip, "strip-components", 0, "strip leading path elements from archive entries")
}

func runProvision(cmd *cobra.Command, args []string) error {
	m, err := newModule(cmd)
	if err != nil {
		return err
	}

	p := m.Platform()
	report, err := m.Provision(cmd.Context(), args[0], p, provisionStrip)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Provisioned %d files for %s into %s\n", len(report.Files), p, report.Dir)
	return nil
}
