package resolver

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aws-samples/ambit-sdklink/pkg/artifact"
	"github.com/aws-samples/ambit-sdklink/pkg/component"
	"github.com/aws-samples/ambit-sdklink/pkg/directive"
	"github.com/aws-samples/ambit-sdklink/pkg/platform"
)

func mustRegistry(t *testing.T, names ...string) *component.Registry {
	t.Helper()
	r, err := component.New(names...)
	require.NoError(t, err)
	return r
}

func TestResolveWin64(t *testing.T) {
	root := filepath.Join("plugins", "Ambit", "Source", "ThirdParty", "AWSSDK")
	reg := mustRegistry(t, "aws-c-common", "aws-cpp-sdk-s3")

	set, err := Resolve(reg, platform.Win64, root)
	require.NoError(t, err)

	dir := filepath.Join(root, "Win64")
	assert.Equal(t, platform.Win64, set.Platform)
	assert.Equal(t, []string{
		filepath.Join(dir, "aws-c-common.lib"),
		filepath.Join(dir, "aws-cpp-sdk-s3.lib"),
	}, set.LinkInputs)

	assert.Equal(t, []directive.StagingInstruction{
		{Destination: "$(BinaryOutputDir)/aws-c-common.dll", Source: filepath.Join(dir, "aws-c-common.dll")},
		{Destination: "$(BinaryOutputDir)/aws-cpp-sdk-s3.dll", Source: filepath.Join(dir, "aws-cpp-sdk-s3.dll")},
	}, set.Staging)

	assert.Equal(t, []string{root, filepath.Join(root, "Include")}, set.IncludePaths)
	assert.Equal(t, []string{
		"USE_IMPORT_EXPORT",
		"AWS_CRT_CPP_USE_IMPORT_EXPORT",
		"USE_WINDOWS_DLL_SEMANTICS",
	}, set.Definitions)

	require.Len(t, set.Artifacts, 2)
	for _, a := range set.Artifacts {
		assert.Equal(t, platform.Dynamic, a.Linkage)
		assert.NotEmpty(t, a.RuntimeArtifactPath)
	}
}

func TestResolveUnsupportedPlatform(t *testing.T) {
	reg := mustRegistry(t, "aws-c-common", "aws-cpp-sdk-s3")

	for _, p := range []platform.Platform{platform.Linux, platform.Mac, "Android"} {
		t.Run(p.String(), func(t *testing.T) {
			set, err := Resolve(reg, p, "/sdk")
			require.Error(t, err)
			assert.Nil(t, set, "no partial directives on failure")
			assert.True(t, errors.Is(err, platform.ErrUnsupportedPlatform))

			var unsupported *platform.UnsupportedError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, p, unsupported.Platform)
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	reg := component.AWSSDK()

	first, err := Resolve(reg, platform.Win64, "/sdk")
	require.NoError(t, err)
	second, err := Resolve(reg, platform.Win64, "/sdk")
	require.NoError(t, err)

	for _, f := range directive.Formats {
		var a, b bytes.Buffer
		require.NoError(t, first.Encode(&a, f))
		require.NoError(t, second.Encode(&b, f))
		assert.Equal(t, a.String(), b.String(), string(f))
	}
}

func TestGlobalsPresentForAnyRegistry(t *testing.T) {
	registries := map[string]*component.Registry{
		"empty":  mustRegistry(t),
		"single": mustRegistry(t, "aws-crt-cpp"),
		"full":   component.AWSSDK(),
	}

	for name, reg := range registries {
		t.Run(name, func(t *testing.T) {
			set, err := Resolve(reg, platform.Win64, "/sdk")
			require.NoError(t, err)
			assert.Equal(t, []string{"/sdk", filepath.Join("/sdk", "Include")}, set.IncludePaths)
			for _, def := range GlobalDefinitions {
				assert.Contains(t, set.Definitions, def)
			}
			assert.Len(t, set.LinkInputs, reg.Len())
			assert.Len(t, set.Staging, reg.Len())
		})
	}
}

func TestResolveNilRegistry(t *testing.T) {
	_, err := Resolve(nil, platform.Win64, "/sdk")
	assert.ErrorIs(t, err, component.ErrConfiguration)
}

func TestResolveFailureLoggedAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	_, err := New(Options{Logger: logger}).Resolve(mustRegistry(t, "aws-c-common"), platform.Linux, "/sdk")
	require.Error(t, err)
	assert.Empty(t, buf.String(), "failures are returned to the caller, not logged above debug")

	buf.Reset()
	logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err = New(Options{Logger: logger}).Resolve(mustRegistry(t, "aws-c-common"), platform.Linux, "/sdk")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "resolution failed")
}

func TestResolveEmptyModuleRoot(t *testing.T) {
	set, err := Resolve(mustRegistry(t, "aws-c-common"), platform.Win64, "")
	assert.Nil(t, set)
	assert.ErrorIs(t, err, component.ErrConfiguration)
	assert.ErrorContains(t, err, "module root is required")
}

type failingChecker struct {
	bad string
}

func (c failingChecker) CheckLinkInput(path string) error {
	if filepath.Base(path) == c.bad {
		return &artifact.Error{Path: path, Err: artifact.ErrArtifactMissing}
	}
	return nil
}

func (c failingChecker) CheckRuntime(path string) error {
	return c.CheckLinkInput(path)
}

func TestResolveWithCheckerIsAtomic(t *testing.T) {
	reg := mustRegistry(t, "aws-c-common", "aws-c-io", "aws-cpp-sdk-s3")

	r := New(Options{Checker: failingChecker{bad: "aws-c-io.dll"}})
	set, err := r.Resolve(reg, platform.Win64, "/sdk")
	require.Error(t, err)
	assert.Nil(t, set)
	assert.ErrorIs(t, err, artifact.ErrArtifactMissing)
	assert.Contains(t, err.Error(), "aws-c-io")

	r = New(Options{Checker: failingChecker{}})
	set, err = r.Resolve(reg, platform.Win64, "/sdk")
	require.NoError(t, err)
	assert.Len(t, set.Artifacts, 3)
}

func TestResolveWithFileChecker(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Win64")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aws-c-common.lib"), []byte("not an archive"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aws-c-common.dll"), []byte("MZ"), 0o644))

	r := New(Options{Checker: artifact.NewFileChecker()})
	set, err := r.Resolve(mustRegistry(t, "aws-c-common"), platform.Win64, root)
	assert.Nil(t, set)
	assert.ErrorIs(t, err, artifact.ErrInvalidArtifact)
}
