// Package directive holds the build directives produced by resolution and
// consumed by the host build orchestrator.
package directive

import (
	"path/filepath"
	"strings"

	"github.com/aws-samples/ambit-sdklink/pkg/platform"
)

// BinaryOutputDir is the token the orchestrator replaces with the directory
// holding the produced binary.
const BinaryOutputDir = "$(BinaryOutputDir)"

// StagingInstruction copies Source next to the produced binary
type StagingInstruction struct {
	Destination string `json:"destination" yaml:"destination" toml:"destination"` // Relative to BinaryOutputDir
	Source      string `json:"source" yaml:"source" toml:"source"`                // Absolute artifact path
}

// Resolve expands the BinaryOutputDir token against binDir
func (s StagingInstruction) Resolve(binDir string) string {
	rel := strings.TrimPrefix(s.Destination, BinaryOutputDir)
	rel = strings.TrimLeft(rel, `/\`)
	return filepath.Join(binDir, filepath.FromSlash(rel))
}

// ResolvedArtifact is the outcome of resolving one component for one platform
type ResolvedArtifact struct {
	Component           string           `json:"component" yaml:"component" toml:"component"`
	LinkInputPath       string           `json:"link_input" yaml:"link_input" toml:"link_input"`
	RuntimeArtifactPath string           `json:"runtime_artifact,omitempty" yaml:"runtime_artifact,omitempty" toml:"runtime_artifact,omitempty"`
	Linkage             platform.Linkage `json:"linkage" yaml:"linkage" toml:"linkage"`
}

// BuildDirectiveSet is the aggregate output of one resolution.
// All slices are ordered and free of duplicates.
type BuildDirectiveSet struct {
	Platform     platform.Platform    `json:"platform" yaml:"platform" toml:"platform"`
	IncludePaths []string             `json:"include_paths" yaml:"include_paths" toml:"include_paths"`
	LinkInputs   []string             `json:"link_inputs" yaml:"link_inputs" toml:"link_inputs"`
	Definitions  []string             `json:"definitions" yaml:"definitions" toml:"definitions"`
	Staging      []StagingInstruction `json:"staging" yaml:"staging" toml:"staging"`
	Artifacts    []ResolvedArtifact   `json:"artifacts" yaml:"artifacts" toml:"artifacts"`
}

// New creates an empty set for p
func New(p platform.Platform) *BuildDirectiveSet {
	return &BuildDirectiveSet{
		Platform:     p,
		IncludePaths: []string{},
		LinkInputs:   []string{},
		Definitions:  []string{},
		Staging:      []StagingInstruction{},
		Artifacts:    []ResolvedArtifact{},
	}
}

// AddIncludePath appends path unless already present
func (s *BuildDirectiveSet) AddIncludePath(path string) {
	s.IncludePaths = appendUnique(s.IncludePaths, path)
}

// AddLinkInput appends a linker input unless already present
func (s *BuildDirectiveSet) AddLinkInput(path string) {
	s.LinkInputs = appendUnique(s.LinkInputs, path)
}

// AddDefinition appends a preprocessor symbol unless already present
func (s *BuildDirectiveSet) AddDefinition(def string) {
	s.Definitions = appendUnique(s.Definitions, def)
}

// AddStaging registers a copy of source to dest, relative to BinaryOutputDir
func (s *BuildDirectiveSet) AddStaging(dest, source string) {
	for _, existing := range s.Staging {
		if existing.Destination == dest && existing.Source == source {
			return
		}
	}
	s.Staging = append(s.Staging, StagingInstruction{Destination: dest, Source: source})
}

// AddArtifact records a resolved component
func (s *BuildDirectiveSet) AddArtifact(a ResolvedArtifact) {
	s.Artifacts = append(s.Artifacts, a)
}

// Artifact returns the resolved artifact for a component name
func (s *BuildDirectiveSet) Artifact(name string) (ResolvedArtifact, bool) {
	for _, a := range s.Artifacts {
		if a.Component == name {
			return a, true
		}
	}
	return ResolvedArtifact{}, false
}

// Clone returns a deep copy
func (s *BuildDirectiveSet) Clone() *BuildDirectiveSet {
	return &BuildDirectiveSet{
		Platform:     s.Platform,
		IncludePaths: append([]string{}, s.IncludePaths...),
		LinkInputs:   append([]string{}, s.LinkInputs...),
		Definitions:  append([]string{}, s.Definitions...),
		Staging:      append([]StagingInstruction{}, s.Staging...),
		Artifacts:    append([]ResolvedArtifact{}, s.Artifacts...),
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
