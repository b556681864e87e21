// internal/cli/components.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List registered SDK components",
	Long:  `List the SDK libraries the module links, in declaration order.`,
	Args:  cobra.NoArgs,
	RunE:  runComponents,
}

func runComponents(cmd *cobra.Command, args []string) error {
	m, err := newModule(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, c := range m.Registry().All() {
		fmt.Fprintln(out, c.Name)
	}
	return nil
}
