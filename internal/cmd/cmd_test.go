package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hoppxi/nightsvg/internal/manager"
	"github.com/hoppxi/nightsvg/internal/recolor"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const icon = `<svg viewBox="0 0 24 24" fill="#000000"><path d="M0 0"/></svg>`

// setup points the commands at a scratch working directory and fresh config.
// AppFs is rooted at the working directory so a config file written through
// it is the one the config search finds.
func setup(t *testing.T) afero.Fs {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	fs := afero.NewBasePathFs(afero.NewOsFs(), dir)
	oldFs, oldCfg := AppFs, manager.Config
	AppFs, manager.Config = fs, manager.NewConfig()
	t.Cleanup(func() { AppFs, manager.Config = oldFs, oldCfg })

	resetFlags(rootCmd)
	return fs
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		// nil would fall back to os.Args
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeIcons(t *testing.T, fs afero.Fs, dir string, names ...string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(dir, 0o755))
	for _, n := range names {
		require.NoError(t, afero.WriteFile(fs, dir+"/"+n, []byte(icon), 0o644))
	}
}

func readString(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(b)
}

func TestRoot_NoArgsConvertsIntoNight(t *testing.T) {
	fs := setup(t)
	writeIcons(t, fs, ".", "a.svg", "b.svg")
	require.NoError(t, fs.Mkdir("night", 0o755))

	out, err := execute(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "converted=2")

	assert.Equal(t, `<svg viewBox="0 0 24 24" fill="white"><path d="M0 0"/></svg>`, readString(t, fs, "night/a.svg"))
	assert.Equal(t, icon, readString(t, fs, "a.svg"))
}

func TestRoot_NoArgsWithoutNightFails(t *testing.T) {
	fs := setup(t)
	writeIcons(t, fs, ".", "a.svg")

	_, err := execute(t, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "night")
}

func TestConvert_JSONReport(t *testing.T) {
	fs := setup(t)
	writeIcons(t, fs, "icons", "a.svg", "b.svg")

	out, err := execute(t, "", "convert", "icons", "dark", "--mkdir", "--fill", "#eee", "--json")
	require.NoError(t, err)

	var rr recolor.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rr))
	assert.Equal(t, recolor.Summary{Total: 2, Converted: 2}, rr.Summary)
	assert.Equal(t, "dark", rr.Dst)

	assert.Contains(t, readString(t, fs, "dark/b.svg"), `fill="#eee"`)
}

func TestCheck(t *testing.T) {
	fs := setup(t)
	writeIcons(t, fs, "icons", "a.svg", "b.svg")
	require.NoError(t, fs.Mkdir("icons/night", 0o755))

	_, err := execute(t, "", "convert", "icons")
	require.NoError(t, err)

	out, err := execute(t, "", "check", "icons")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 2 icon(s) checked")

	require.NoError(t, fs.Remove("icons/night/b.svg"))
	out, err = execute(t, "", "check", "icons")
	require.Error(t, err)
	assert.Contains(t, out, "missing: b.svg")
}

func TestInit(t *testing.T) {
	fs := setup(t)

	_, err := execute(t, "", "init")
	require.NoError(t, err)

	var fc FileConfig
	require.NoError(t, yaml.Unmarshal([]byte(readString(t, fs, "nightsvg.yaml")), &fc))
	want, err := DefaultFileConfig()
	require.NoError(t, err)
	assert.Equal(t, want, fc)
	// dst stays unset so it follows src
	assert.Equal(t, FileConfig{Src: ".", Fill: "white", Jobs: 1}, fc)

	require.NoError(t, afero.WriteFile(fs, "nightsvg.yaml", []byte("fill: gold\n"), 0o644))

	out, err := execute(t, "n\n", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Overwrite?")
	assert.Equal(t, "fill: gold\n", readString(t, fs, "nightsvg.yaml"))

	_, err = execute(t, "", "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, readString(t, fs, "nightsvg.yaml"), "fill: white")
}

func TestInit_ThenConvertUsesSourceNight(t *testing.T) {
	fs := setup(t)

	out, err := execute(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "dst=night")

	writeIcons(t, fs, "icons", "a.svg")
	require.NoError(t, fs.Mkdir("icons/night", 0o755))

	_, err = execute(t, "", "convert", "icons")
	require.NoError(t, err)
	assert.Equal(t, `<svg viewBox="0 0 24 24" fill="white"><path d="M0 0"/></svg>`, readString(t, fs, "icons/night/a.svg"))

	exists, err := afero.DirExists(fs, "night")
	require.NoError(t, err)
	assert.False(t, exists)
}

// writeBrokenIcon adds an icon that is listed but cannot be read.
func writeBrokenIcon(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.Symlink("does-not-exist", filepath.Join(dir, name)))
}

func TestConvert_KeepGoing(t *testing.T) {
	fs := setup(t)
	writeIcons(t, fs, "icons", "a.svg", "c.svg")
	writeBrokenIcon(t, "icons", "bad.svg")

	out, err := execute(t, "", "convert", "icons", "--mkdir", "--keep-going")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.svg")
	assert.Contains(t, out, "total=3 converted=2 planned=0 failed=1")

	for _, n := range []string{"a.svg", "c.svg"} {
		assert.Contains(t, readString(t, fs, "icons/night/"+n), `fill="white"`)
	}
}

func TestConvert_StopsAtFirstFailure(t *testing.T) {
	fs := setup(t)
	writeIcons(t, fs, "icons", "a.svg", "c.svg")
	writeBrokenIcon(t, "icons", "bad.svg")

	_, err := execute(t, "", "convert", "icons", "--mkdir")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.svg")

	assert.Contains(t, readString(t, fs, "icons/night/a.svg"), `fill="white"`)
	exists, err := afero.Exists(fs, "icons/night/c.svg")
	require.NoError(t, err)
	assert.False(t, exists)
}
