package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitfolio/gitfolio/internal/config"
	"github.com/gitfolio/gitfolio/internal/logging"
)

// execute runs the root command with args against an isolated config and
// store directory, returning stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	t.Setenv(config.EnvConfigFile, filepath.Join(dir, "config.yaml"))
	t.Setenv(config.EnvCacheDir, filepath.Join(dir, "store"))

	cmd := NewRootCmd("1.0.0")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	root := NewRootCmd("1.2.3")
	assert.Equal(t, "gitfolio", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"repos", "featured", "repo", "search", "profile", "export", "cache", "theme", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCmd_ReusesContextTraceID(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfigFile, filepath.Join(dir, "config.yaml"))
	t.Setenv(config.EnvCacheDir, filepath.Join(dir, "store"))

	traceID := logging.NewTraceID()
	ctx := logging.ContextWithTraceID(context.Background(), traceID)

	cmd := NewRootCmd("1.0.0")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--debug", "theme"})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, errOut.String(), traceID,
		"a trace ID already on the context is carried into the logs")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	root := NewRootCmd("1.0.0")
	for _, flag := range []string{"debug", "config", "username", "no-cache", "cache-ttl"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing persistent flag %s", flag)
	}
}

func TestCommandsRequireUsername(t *testing.T) {
	for _, name := range []string{"repos", "featured", "profile"} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, t.TempDir(), name)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "no GitHub username configured")
		})
	}
}

func TestThemeCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme: auto")

	out, err = execute(t, dir, "theme", "dark")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme set to dark")

	out, err = execute(t, dir, "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme: dark")

	_, err = execute(t, dir, "theme", "neon")
	require.Error(t, err)
}

func TestThemeAnimationsCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "theme", "animations", "off")
	require.NoError(t, err)
	assert.Contains(t, out, "Animations off")

	_, err = execute(t, dir, "theme", "animations", "sideways")
	require.Error(t, err)
}

func TestCacheCmds(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries:   0")

	out, err = execute(t, dir, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 cached entries.")

	out, err = execute(t, dir, "cache", "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 expired entries.")
}

func TestCacheCmds_DisabledCache(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "--no-cache", "cache", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache is disabled")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gitfolio 1.0.0")
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{in: 512, want: "512 B"},
		{in: 2048, want: "2.0 KiB"},
		{in: 3 << 20, want: "3.0 MiB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}

func TestAppPresenterUsesConfig(t *testing.T) {
	t.Parallel()

	app := &App{Config: config.Default()}
	assert.NotNil(t, app.Presenter())
}
