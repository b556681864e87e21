// internal/cli/resolve.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aws-samples/ambit-sdklink/pkg/directive"
)

var (
	resolveFormat string
	resolveVerify bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the build directives for the target platform",
	Long: `Resolve every registered SDK component for the target platform and
print the include paths, link inputs, definitions and staging instructions.

Examples:
  sdklink resolve --platform Win64
  sdklink resolve --platform Win64 --format yaml
  sdklink resolve --verify --module-root ./Source/ThirdParty/AWSSDK`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "", "output format (json, yaml, toml)")
	resolveCmd.Flags().BoolVar(&resolveVerify, "verify", false, "check that every artifact exists and is well formed")
}

func runResolve(cmd *cobra.Command, args []string) error {
	if resolveFormat != "" {
		cfg.OutputFormat = resolveFormat
	}
	if resolveVerify {
		cfg.VerifyArtifacts = true
	}

	format, err := directive.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return err
	}

	m, err := newModule(cmd)
	if err != nil {
		return err
	}

	set, err := m.Resolve(m.Platform())
	if err != nil {
		return err
	}

	if err := set.Encode(cmd.OutOrStdout(), format); err != nil {
		return fmt.Errorf("writing directives: %w", err)
	}
	return nil
}
