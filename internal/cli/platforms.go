// internal/cli/platforms.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aws-samples/ambit-sdklink/pkg/platform"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List known target platforms",
	Long:  `List every platform name sdklink recognizes and whether the AWSSDK module can be linked on it.`,
	Args:  cobra.NoArgs,
	RunE:  runPlatforms,
}

func runPlatforms(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	host := platform.Detect()

	fmt.Fprintf(out, "Host platform: %s\n\n", host)
	fmt.Fprintf(out, "Platforms:\n")
	for _, p := range platform.Known {
		marker := " "
		if p == host {
			marker = "*"
		}
		status := "unsupported"
		if caps, err := platform.Lookup(p); err == nil {
			status = fmt.Sprintf("supported (%s, link %s, runtime %s)", caps.Linkage, caps.LinkExtension, caps.RuntimeExtension)
		}
		fmt.Fprintf(out, "  %s %-11s %s\n", marker, p, status)
	}

	fmt.Fprintf(out, "\n* = host platform\n")
	return nil
}
