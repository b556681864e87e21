// internal/cli/root.go
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aws-samples/ambit-sdklink"
	"github.com/aws-samples/ambit-sdklink/internal/logging"
	"github.com/aws-samples/ambit-sdklink/pkg/config"
)

var (
	cfgFile      string
	platformName string
	moduleRoot   string
	manifestPath string
	logFormat    string
	debug        bool
	cfg          *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sdklink",
	Short: "Resolve AWS SDK link directives for the Ambit plugin",
	Long: `sdklink - native SDK link resolution for the Ambit plugin

Computes include paths, import libraries, preprocessor definitions and
runtime staging instructions for the AWSSDK third-party module on a
given target platform.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/sdklink/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&platformName, "platform", "", "target platform (default: detected from host)")
	rootCmd.PersistentFlags().StringVar(&moduleRoot, "module-root", "", "AWSSDK module directory")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "component manifest (.toml or .yaml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(componentsCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	// Override config with flags
	if platformName != "" {
		cfg.Platform = platformName
	}
	if moduleRoot != "" {
		cfg.ModuleRoot = moduleRoot
	}
	if manifestPath != "" {
		cfg.Manifest = manifestPath
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	return cfg.Validate()
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	return logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
}

func newModule(cmd *cobra.Command) (*sdklink.Module, error) {
	m, err := sdklink.NewModule(cfg, newLogger(cmd))
	if err != nil {
		return nil, err
	}
	return m, nil
}
