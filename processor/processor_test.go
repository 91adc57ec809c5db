package processor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/CodMac/go-treesitter-jsdeps/graph"
	"github.com/CodMac/go-treesitter-jsdeps/model"
	"github.com/CodMac/go-treesitter-jsdeps/processor"
	"github.com/CodMac/go-treesitter-jsdeps/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/CodMac/go-treesitter-jsdeps/x/commonjs" // 确保注册 CommonJS
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestEntryProcessor_ProcessEntries(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app1.js":   `require("./shared"); require("./only1");`,
		"app2.js":   `require("./shared");`,
		"app3.js":   ``,
		"shared.js": ``,
		"only1.js":  ``,
	})
	entries := []string{
		filepath.Join(dir, "app1.js"),
		filepath.Join(dir, "app2.js"),
		filepath.Join(dir, "app3.js"),
	}

	builder, err := graph.NewBuilder(model.CommonJS)
	require.NoError(t, err)

	proc := processor.NewEntryProcessor(builder, 2)
	results, err := proc.ProcessEntries(context.Background(), entries)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, entry := range entries {
		assert.Equal(t, entry, results[i].Root, "results keep input order")
	}
	assert.Equal(t, 3, results[0].Len())
	assert.Equal(t, 2, results[1].Len())
	assert.Equal(t, 1, results[2].Len())
}

func TestEntryProcessor_FirstErrorWins(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.js":  ``,
		"bad.js": `require("./nowhere");`,
	})

	builder, err := graph.NewBuilder(model.CommonJS)
	require.NoError(t, err)

	proc := processor.NewEntryProcessor(builder, 1)
	results, err := proc.ProcessEntries(context.Background(), []string{
		filepath.Join(dir, "ok.js"),
		filepath.Join(dir, "bad.js"),
	})
	assert.Nil(t, results)

	var invalid *resolver.InvalidDependencyError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "./nowhere", invalid.Specifier)
}

func TestEntryProcessor_Canceled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": ``})
	builder, err := graph.NewBuilder(model.CommonJS)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = processor.NewEntryProcessor(builder, 0).ProcessEntries(ctx, []string{filepath.Join(dir, "a.js")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEntryProcessor_Empty(t *testing.T) {
	builder, err := graph.NewBuilder(model.CommonJS)
	require.NoError(t, err)

	results, err := processor.NewEntryProcessor(builder, 4).ProcessEntries(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestDiscoverEntries(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.js":                  ``,
		"view.jsx":                  ``,
		"readme.md":                 ``,
		"lib/util.js":               ``,
		".cache/skip.js":            ``,
		"node_modules/dep/index.js": ``,
	})

	files, err := processor.DiscoverEntries(dir, []string{".js", ".jsx"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "index.js"),
		filepath.Join(dir, "view.jsx"),
		filepath.Join(dir, "lib", "util.js"),
	}, files)

	single, err := processor.DiscoverEntries(filepath.Join(dir, "readme.md"), []string{".js"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "readme.md")}, single)

	_, err = processor.DiscoverEntries(filepath.Join(dir, "missing"), []string{".js"})
	assert.Error(t, err)
}
