// sdklink.go
package sdklink

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aws-samples/ambit-sdklink/internal/logging"
	"github.com/aws-samples/ambit-sdklink/pkg/artifact"
	"github.com/aws-samples/ambit-sdklink/pkg/component"
	"github.com/aws-samples/ambit-sdklink/pkg/config"
	"github.com/aws-samples/ambit-sdklink/pkg/directive"
	"github.com/aws-samples/ambit-sdklink/pkg/platform"
	"github.com/aws-samples/ambit-sdklink/pkg/provision"
	"github.com/aws-samples/ambit-sdklink/pkg/resolver"
	"github.com/aws-samples/ambit-sdklink/pkg/stage"
)

// Re-export types for convenience
type (
	Config             = config.Config
	Platform           = platform.Platform
	Registry           = component.Registry
	BuildDirectiveSet  = directive.BuildDirectiveSet
	StagingInstruction = directive.StagingInstruction
	ResolvedArtifact   = directive.ResolvedArtifact
	StageResult        = stage.Result
	ProvisionReport    = provision.Report
)

// Re-export platform constants
const (
	Win64      = platform.Win64
	Linux      = platform.Linux
	LinuxArm64 = platform.LinuxArm64
	Mac        = platform.Mac
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// Module resolves the AWSSDK third-party module of the plugin
type Module struct {
	config   *Config
	registry *component.Registry
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// NewModule creates a Module from cfg. The component list comes from
// cfg.Manifest when set, otherwise the built-in AWS SDK list is used.
func NewModule(cfg *Config, logger *slog.Logger) (*Module, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Op: "configure", Err: err}
	}

	reg := component.AWSSDK()
	if cfg.Manifest != "" {
		var err error
		reg, err = component.LoadManifest(cfg.Manifest)
		if err != nil {
			return nil, &Error{Op: "load manifest", Err: err}
		}
	}

	opts := resolver.Options{Logger: logger}
	if cfg.VerifyArtifacts {
		opts.Checker = artifact.NewFileChecker()
	}

	return &Module{
		config:   cfg,
		registry: reg,
		resolver: resolver.New(opts),
		logger:   logger,
	}, nil
}

// Registry returns the module's components
func (m *Module) Registry() *Registry {
	return m.registry
}

// Platform returns the configured platform, or the host platform when unset
func (m *Module) Platform() Platform {
	if m.config.Platform == "" {
		return platform.Detect()
	}
	return platform.Parse(m.config.Platform)
}

// Resolve computes the build directives for p
func (m *Module) Resolve(p Platform) (*BuildDirectiveSet, error) {
	set, err := m.resolver.Resolve(m.registry, p, m.config.ModuleRoot)
	if err != nil {
		return nil, &Error{Op: "resolve", Platform: p.String(), Err: err}
	}
	return set, nil
}

// Stage copies the runtime artifacts of set into binDir
func (m *Module) Stage(ctx context.Context, set *BuildDirectiveSet, binDir string, dryRun bool) (*StageResult, error) {
	if set == nil {
		return nil, &Error{Op: "stage", Err: fmt.Errorf("directive set cannot be nil")}
	}
	if binDir == "" {
		binDir = m.config.BinaryOutputDir
	}

	res, err := stage.New(stage.Config{DryRun: dryRun, Logger: m.logger}).Apply(ctx, set, binDir)
	if err != nil {
		return res, &Error{Op: "stage", Platform: set.Platform.String(), Err: err}
	}
	return res, nil
}

// Provision unpacks an SDK archive into the artifact directory for p and
// fails if any registered component is still missing afterwards.
func (m *Module) Provision(ctx context.Context, archivePath string, p Platform, stripComponents int) (*ProvisionReport, error) {
	caps, err := platform.Lookup(p)
	if err != nil {
		return nil, &Error{Op: "provision", Platform: p.String(), Err: err}
	}

	dest := filepath.Join(m.config.ModuleRoot, p.String())
	prov := provision.New(provision.Config{StripComponents: stripComponents, Logger: m.logger})

	report, err := prov.Unpack(ctx, archivePath, dest)
	if err != nil {
		return nil, &Error{Op: "provision", Platform: p.String(), Err: err}
	}

	if missing := report.Missing(m.registry, caps); len(missing) > 0 {
		return report, &Error{
			Op:       "provision",
			Platform: p.String(),
			Err:      fmt.Errorf("%w: %v", ErrArtifactMissing, missing),
		}
	}
	return report, nil
}
