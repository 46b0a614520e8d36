package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/voxelsplace/plyslim/api"
	"github.com/voxelsplace/plyslim/internal/config"
	"github.com/voxelsplace/plyslim/ply"
	"github.com/voxelsplace/plyslim/utils"
)

const splatPLY = "ply\nformat ascii 1.0\nelement vertex 2\n" +
	"property float x\nproperty float y\nproperty float z\n" +
	"property float f_dc_0\nproperty float f_dc_1\nproperty float f_dc_2\n" +
	"property float f_rest_0\nproperty float f_rest_1\nproperty float opacity\nend_header\n" +
	"1 2 3 0 0 0 9 9 0\n4 5 6 1 1 1 9 9 2\n"

const directPLY = "ply\nformat ascii 1.0\nelement vertex 1\n" +
	"property float x\nproperty float y\nproperty float z\nend_header\n1 2 3\n"

// isolate moves the test into an empty directory with no PLYSLIM_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range []string{config.EnvDropPrefixes, config.EnvSuffix, config.EnvWorkers} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSimplifyCommand(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "scene.ply", splatPLY)

	_, err := execute(t, "simplify", in)
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(dir, "scene_dc.ply"))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "f_rest_")
	assert.Contains(t, string(out), "1 2 3 0 0 0 0\n")
}

func TestSimplifyCommand_OutputAndManifest(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "scene.ply", splatPLY)
	outPath := filepath.Join(dir, "small.ply")
	manifestPath := filepath.Join(dir, "run.yaml")

	_, err := execute(t, "simplify", "-o", outPath, "--manifest", manifestPath, in)
	require.NoError(t, err)
	assert.FileExists(t, outPath)

	m, err := utils.ReadManifest(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Simplified)
	assert.Equal(t, []string{ply.HigherOrderPrefix}, m.DropPrefixes)
}

func TestSimplifyCommand_Errors(t *testing.T) {
	dir := isolate(t)
	splat := writeFile(t, dir, "scene.ply", splatPLY)
	direct := writeFile(t, dir, "direct.ply", directPLY)
	broken := writeFile(t, dir, "broken.ply", "ply\nformat ascii 1.0\nelement vertex 5\nproperty float x\nproperty float f_rest_0\nend_header\n1 2\n")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no args", []string{"simplify"}, ExitUsageError},
		{"unknown flag", []string{"simplify", "--bogus", splat}, ExitUsageError},
		{"output with two inputs", []string{"simplify", "-o", "x.ply", splat, direct}, ExitUsageError},
		{"not a ply", []string{"simplify", writeFile(t, dir, "notes.txt", splatPLY)}, ExitUsageError},
		{"workers zero", []string{"simplify", "--workers", "0", splat}, ExitConfigError},
		{"nothing to remove", []string{"simplify", direct}, ExitNoChange},
		{"every property dropped", []string{"simplify", "--drop-prefix", "x", "--drop-prefix", "y", "--drop-prefix", "z", direct}, ExitNothingKept},
		{"truncated", []string{"simplify", broken}, ExitTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, ExitCodeForError(err))
		})
	}
}

func TestResolveSettings_Precedence(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, config.ConfigFileName, "drop_prefixes: [f_rest_, opacity]\nsuffix: _cfg\nworkers: 2\n")
	t.Setenv(config.EnvSuffix, "_env")

	cmd := newSimplifyCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--workers", "3"}))

	cfg, err := resolveSettings(cmd, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"f_rest_", "opacity"}, cfg.DropPrefixes)
	assert.Equal(t, "_env", cfg.Suffix)
	assert.Equal(t, 3, cfg.Workers)
	assert.False(t, cfg.Compress)
}

func TestResolveSettings_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := resolveSettings(newSimplifyCmd(), dir)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestResolveSettings_InvalidFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, config.ConfigFileName, "workers: -1\n")

	_, err := resolveSettings(newSimplifyCmd(), dir)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestInspectCommand(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "scene.ply", splatPLY)

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "inspect", in)
		require.NoError(t, err)
		assert.Contains(t, out, "vertices:    2")
		assert.Contains(t, out, "9, 2 removable")
		assert.Contains(t, out, "- float    f_rest_1")
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, "inspect", "--yaml", "--drop-prefix", "opacity", in)
		require.NoError(t, err)
		var info api.Info
		require.NoError(t, yaml.Unmarshal([]byte(out), &info))
		assert.Equal(t, "ascii", info.Format)
		assert.Equal(t, 1, info.Removable)
		assert.Len(t, info.Properties, 9)
	})

	t.Run("dump", func(t *testing.T) {
		out, err := execute(t, "inspect", "--dump", in)
		require.NoError(t, err)
		assert.Contains(t, out, "ply.Header")
		assert.Contains(t, out, "f_rest_0")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := execute(t, "inspect", writeFile(t, dir, "bad.ply", "ply\nelement vertex x\nend_header\n"))
		assert.Equal(t, ExitMalformedHeader, ExitCodeForError(err))
	})
}

func TestGLBCommand(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "scene.ply", splatPLY)
	out := filepath.Join(dir, "scene.glb")

	_, err := execute(t, "glb", in, out)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	var doc gltf.Document
	require.NoError(t, gltf.NewDecoder(f).Decode(&doc))
	require.Len(t, doc.Meshes, 1)
	assert.Equal(t, gltf.PrimitivePoints, doc.Meshes[0].Primitives[0].Mode)

	_, err = execute(t, "glb", in)
	assert.Equal(t, ExitUsageError, ExitCodeForError(err))
}

func TestPackCommands(t *testing.T) {
	dir := isolate(t)
	a := writeFile(t, dir, "a.ply", splatPLY)
	b := writeFile(t, dir, "b.ply", directPLY)
	pack := filepath.Join(dir, "all.plypack")
	outDir := filepath.Join(dir, "out")

	_, err := execute(t, "pack", "-c", "zlib", pack, a, b)
	require.NoError(t, err)
	_, err = execute(t, "unpack", pack, outDir)
	require.NoError(t, err)

	for name, want := range map[string]string{"a.ply": splatPLY, "b.ply": directPLY} {
		got, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}

	_, err = execute(t, "pack", "-c", "lzma", pack, a)
	assert.Equal(t, ExitUsageError, ExitCodeForError(err))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "plyslim dev"), out)
}

func TestGenCommand(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "bench")

	_, err := execute(t, "gen", "-n", "2", "--vertices", "8", "--seed", "7", out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "1.ply"))
	require.NoError(t, err)
	assert.True(t, api.WouldChange(data))

	_, err = execute(t, "gen", "--degree", "5", out)
	assert.Equal(t, ExitUsageError, ExitCodeForError(err))
}
