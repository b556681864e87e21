// Package resolver turns registered SDK components into the build directives
// for one target platform.
package resolver

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aws-samples/ambit-sdklink/internal/logging"
	"github.com/aws-samples/ambit-sdklink/pkg/artifact"
	"github.com/aws-samples/ambit-sdklink/pkg/component"
	"github.com/aws-samples/ambit-sdklink/pkg/directive"
	"github.com/aws-samples/ambit-sdklink/pkg/platform"
)

// IncludeDir is the SDK header directory below the module root
const IncludeDir = "Include"

// GlobalDefinitions are required by every consumer of the dynamically linked SDK.
var GlobalDefinitions = []string{
	"USE_IMPORT_EXPORT",
	"AWS_CRT_CPP_USE_IMPORT_EXPORT",
}

// Options configures a Resolver
type Options struct {
	// Logger receives debug output per component; nil discards
	Logger *slog.Logger

	// Checker, when set, verifies every computed artifact on disk
	Checker artifact.Checker
}

// Resolver maps components onto platform artifacts
type Resolver struct {
	logger  *slog.Logger
	checker artifact.Checker
}

// New creates a Resolver
func New(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{
		logger:  logger,
		checker: opts.Checker,
	}
}

// Resolve computes the directives for every component in reg on platform p.
// It either succeeds for every component or returns a nil set.
func (r *Resolver) Resolve(reg *component.Registry, p platform.Platform, moduleRoot string) (*directive.BuildDirectiveSet, error) {
	if reg == nil {
		return nil, &component.ConfigError{Reason: "registry is required"}
	}
	if moduleRoot == "" {
		return nil, &component.ConfigError{Reason: "module root is required"}
	}

	caps, err := platform.Lookup(p)
	if err != nil {
		r.logger.Debug("resolution failed", "platform", p, "error", err)
		return nil, err
	}

	artifactDir := filepath.Join(moduleRoot, p.String())
	set := directive.New(p)

	for _, c := range reg.All() {
		a, err := r.resolveComponent(c, caps, artifactDir)
		if err != nil {
			r.logger.Debug("resolution failed", "platform", p, "component", c.Name, "error", err)
			return nil, err
		}

		set.AddLinkInput(a.LinkInputPath)
		if a.Linkage == platform.Dynamic {
			// Stage the library along with the target so it can be loaded at runtime
			dest := directive.BinaryOutputDir + "/" + filepath.Base(a.RuntimeArtifactPath)
			set.AddStaging(dest, a.RuntimeArtifactPath)
		}
		set.AddArtifact(a)

		r.logger.Debug("resolved component",
			"component", c.Name,
			"link_input", a.LinkInputPath,
			"linkage", a.Linkage.String(),
		)
	}

	set.AddIncludePath(moduleRoot)
	set.AddIncludePath(filepath.Join(moduleRoot, IncludeDir))

	for _, def := range GlobalDefinitions {
		set.AddDefinition(def)
	}
	for _, def := range caps.Definitions {
		set.AddDefinition(def)
	}

	r.logger.Info("resolved SDK components",
		"platform", p,
		"components", reg.Len(),
		"staged", len(set.Staging),
	)
	return set, nil
}

func (r *Resolver) resolveComponent(c component.Component, caps platform.Capabilities, dir string) (directive.ResolvedArtifact, error) {
	a := directive.ResolvedArtifact{
		Component:     c.Name,
		LinkInputPath: filepath.Join(dir, c.Name+caps.LinkExtension),
		Linkage:       caps.Linkage,
	}
	if caps.Linkage == platform.Dynamic {
		a.RuntimeArtifactPath = filepath.Join(dir, c.Name+caps.RuntimeExtension)
	}

	if r.checker == nil {
		return a, nil
	}
	if err := r.checker.CheckLinkInput(a.LinkInputPath); err != nil {
		return directive.ResolvedArtifact{}, fmt.Errorf("component %s: %w", c.Name, err)
	}
	if a.RuntimeArtifactPath != "" {
		if err := r.checker.CheckRuntime(a.RuntimeArtifactPath); err != nil {
			return directive.ResolvedArtifact{}, fmt.Errorf("component %s: %w", c.Name, err)
		}
	}
	return a, nil
}

// Resolve uses a default Resolver
func Resolve(reg *component.Registry, p platform.Platform, moduleRoot string) (*directive.BuildDirectiveSet, error) {
	return New(Options{}).Resolve(reg, p, moduleRoot)
}
