// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aws-samples/ambit-sdklink/pkg/directive"
)

// Config holds sdklink configuration
type Config struct {
	ModuleRoot      string `yaml:"module_root"`
	Platform        string `yaml:"platform"`          // Empty means detect from the host
	Manifest        string `yaml:"manifest"`          // Empty means the built-in AWSSDK list
	BinaryOutputDir string `yaml:"binary_output_dir"` // Used by the stage command
	OutputFormat    string `yaml:"output_format"`
	VerifyArtifacts bool   `yaml:"verify_artifacts"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		ModuleRoot:   getDefaultModuleRoot(),
		Platform:     "", // Auto-detect
		OutputFormat: string(directive.FormatJSON),
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// DefaultPath is $HOME/.config/sdklink/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sdklink", "config.yaml"), nil
}

// LoadConfig loads configuration from file.
// A missing file yields the defaults; fields absent from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from SDKLINK_* variables, after loading
// envFiles (or ./.env when none are given) into the process environment.
// Only a missing implicit ./.env is tolerated.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading env file: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("SDKLINK_MODULE_ROOT")); v != "" {
		c.ModuleRoot = v
	}
	if v := strings.TrimSpace(os.Getenv("SDKLINK_PLATFORM")); v != "" {
		c.Platform = v
	}
	if v := strings.TrimSpace(os.Getenv("SDKLINK_MANIFEST")); v != "" {
		c.Manifest = v
	}
	if v := strings.TrimSpace(os.Getenv("SDKLINK_BINARY_OUTPUT_DIR")); v != "" {
		c.BinaryOutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv("SDKLINK_VERIFY_ARTIFACTS")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.VerifyArtifacts = b
		}
	}
	return nil
}

// Validate checks enumerated fields
func (c *Config) Validate() error {
	if c.ModuleRoot == "" {
		return fmt.Errorf("module_root is required")
	}
	if _, err := directive.ParseFormat(c.OutputFormat); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}

func getDefaultModuleRoot() string {
	if path := os.Getenv("SDKLINK_MODULE_ROOT"); path != "" {
		return path
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	return filepath.Join(wd, "Source", "ThirdParty", "AWSSDK")
}
