package cli

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aws-samples/ambit-sdklink"
	"github.com/aws-samples/ambit-sdklink/pkg/directive"
)

// run executes the root command with fresh flag state
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, platformName, moduleRoot, manifestPath, logFormat, debug = "", "", "", "", "", false
	resolveFormat, resolveVerify = "", false
	stageBinDir, stageDryRun = "", false
	provisionStrip = 0

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func manifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "components.yaml")
	require.NoError(t, os.WriteFile(path, []byte("components:\n  - aws-c-common\n  - aws-cpp-sdk-s3\n"), 0o644))
	return path
}

func TestResolveCommandJSON(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, "resolve", "--platform", "Win64", "--module-root", root, "--manifest", manifest(t))
	require.NoError(t, err)

	var set directive.BuildDirectiveSet
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	assert.Equal(t, []string{
		filepath.Join(root, "Win64", "aws-c-common.lib"),
		filepath.Join(root, "Win64", "aws-cpp-sdk-s3.lib"),
	}, set.LinkInputs)
	assert.Len(t, set.Staging, 2)
}

func TestResolveCommandYAML(t *testing.T) {
	out, err := run(t, "resolve", "--platform", "win64", "--module-root", t.TempDir(), "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "platform: Win64")
	assert.Contains(t, out, "USE_WINDOWS_DLL_SEMANTICS")
	assert.Contains(t, out, "aws-cpp-sdk-identity-management.lib")
}

func TestResolveCommandUnsupportedPlatform(t *testing.T) {
	out, err := run(t, "resolve", "--platform", "Linux", "--module-root", t.TempDir())
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, errors.Is(err, sdklink.ErrUnsupportedPlatform))
	assert.Contains(t, err.Error(), "Linux")
}

func TestResolveCommandBadFormat(t *testing.T) {
	_, err := run(t, "resolve", "--platform", "Win64", "--module-root", t.TempDir(), "--format", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestComponentsCommand(t *testing.T) {
	out, err := run(t, "components", "--module-root", t.TempDir())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 18)
	assert.Equal(t, "aws-c-auth", lines[0])
}

func TestPlatformsCommand(t *testing.T) {
	out, err := run(t, "platforms")
	require.NoError(t, err)
	assert.Contains(t, out, "Win64")
	assert.Contains(t, out, "supported (dynamic, link .lib, runtime .dll)")
	assert.Contains(t, out, "Mac")
}

func TestStageCommandDryRun(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Win64"), 0o755))
	for _, name := range []string{"aws-c-common.dll", "aws-cpp-sdk-s3.dll"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, "Win64", name), []byte("MZ"), 0o644))
	}

	bin := filepath.Join(t.TempDir(), "Binaries")
	out, err := run(t, "stage", "--platform", "Win64", "--module-root", root,
		"--manifest", manifest(t), "--bin-dir", bin, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would stage "+filepath.Join(bin, "aws-c-common.dll"))
	assert.Contains(t, out, "2 would stage, 0 up to date")
}

func TestProvisionCommand(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, name := range []string{"sdk/aws-c-common.lib", "sdk/aws-c-common.dll", "sdk/aws-cpp-sdk-s3.lib", "sdk/aws-cpp-sdk-s3.dll"} {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: 2, Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte("MZ"))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	archive := filepath.Join(t.TempDir(), "sdk.tar")
	require.NoError(t, os.WriteFile(archive, buf.Bytes(), 0o644))

	root := t.TempDir()
	out, err := run(t, "provision", archive, "--platform", "Win64", "--module-root", root,
		"--manifest", manifest(t), "--strip-components", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Provisioned 4 files for Win64")
	assert.FileExists(t, filepath.Join(root, "Win64", "aws-cpp-sdk-s3.dll"))
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sdklink version "+version)
}
