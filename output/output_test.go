package output_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CodMac/go-treesitter-jsdeps/graph"
	"github.com/CodMac/go-treesitter-jsdeps/model"
	"github.com/CodMac/go-treesitter-jsdeps/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/CodMac/go-treesitter-jsdeps/x/commonjs"
)

// sampleResult 构造 index -> (./a, ./lib/b), lib/b -> ../a 的依赖图
func sampleResult(t *testing.T) (*graph.Result, string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.js": `require("./a"); require("./lib/b");`,
		"a.js":     ``,
		"lib/b.js": `require("../a");`,
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	b, err := graph.NewBuilder(model.CommonJS)
	require.NoError(t, err)
	res, err := b.Resolve(filepath.Join(dir, "index.js"))
	require.NoError(t, err)
	return res, dir
}

func TestExportJSON(t *testing.T) {
	res, dir := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, output.ExportJSON(&buf, res))

	var got map[string]map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]map[string]string{
		filepath.Join(dir, "index.js"): {
			"./a":     filepath.Join(dir, "a.js"),
			"./lib/b": filepath.Join(dir, "lib", "b.js"),
		},
		filepath.Join(dir, "a.js"):        {},
		filepath.Join(dir, "lib", "b.js"): {"../a": filepath.Join(dir, "a.js")},
	}, got)
}

func TestExportJSONL(t *testing.T) {
	res, dir := sampleResult(t)

	var buf bytes.Buffer
	count, err := output.ExportJSONL(&buf, res)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var records []output.ModuleRecord
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var rec output.ModuleRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.Len(t, records, 3)

	assert.Equal(t, filepath.Join(dir, "index.js"), records[0].Path)
	assert.True(t, records[0].Root)
	assert.Equal(t, []output.DependencyRecord{
		{Specifier: "./a", Path: filepath.Join(dir, "a.js")},
		{Specifier: "./lib/b", Path: filepath.Join(dir, "lib", "b.js")},
	}, records[0].Dependencies)
	assert.False(t, records[1].Root)
	assert.NotNil(t, records[1].Dependencies)
	assert.Empty(t, records[1].Dependencies)
}

func TestExportDOT(t *testing.T) {
	res, dir := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, output.ExportDOT(&buf, res))
	dot := buf.String()

	assert.True(t, strings.HasPrefix(dot, "digraph modules {\n"))
	assert.Contains(t, dot, `[label="index.js", color=red];`)
	assert.Contains(t, dot, `[label="lib/b.js"];`)
	assert.Contains(t, dot, `"`+filepath.Join(dir, "lib", "b.js")+`" -> "`+filepath.Join(dir, "a.js")+`" [label="../a"];`)
	assert.Equal(t, 3, strings.Count(dot, " -> "))
}

func TestExportMermaidHTML(t *testing.T) {
	res, _ := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, output.ExportMermaidHTML(&buf, res))
	html := buf.String()

	assert.Contains(t, html, "<h1>index.js</h1>")
	assert.Contains(t, html, "graph LR")
	assert.Contains(t, html, `-- "./lib/b" -->`)
	assert.Contains(t, html, `-- "../a" -->`)
	assert.Equal(t, 2, strings.Count(html, "    subgraph "), "root directory and lib")
	assert.True(t, strings.HasSuffix(html, "</html>\n"))
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]output.Format{
		"json":     output.FormatJSON,
		"JSONL":    output.FormatJSONL,
		"mermaid":  output.FormatMermaid,
		"html":     output.FormatMermaid,
		"dot":      output.FormatDOT,
		"graphviz": output.FormatDOT,
	} {
		got, err := output.ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := output.ParseFormat("yaml")
	assert.Error(t, err)
}

func TestExport_Dispatch(t *testing.T) {
	res, _ := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, output.Export(&buf, output.FormatDOT, res))
	assert.Contains(t, buf.String(), "digraph")

	assert.Error(t, output.Export(&buf, output.Format("svg"), res))
}
