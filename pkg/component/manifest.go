// pkg/component/manifest.go
package component

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk form of a component list, e.g. components.toml:
//
//	module = "AWSSDK"
//	components = ["aws-c-common", "aws-cpp-sdk-s3"]
type Manifest struct {
	Module     string   `toml:"module" yaml:"module"`
	Components []string `toml:"components" yaml:"components"`
}

// LoadManifest reads a .toml, .yaml or .yml manifest and builds its Registry
func LoadManifest(path string) (*Registry, error) {
	m, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}

	r, err := New(m.Components...)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return r, nil
}

// ReadManifest decodes a manifest file without validating its entries
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format: %q", ext)
	}

	return &m, nil
}
