package resolver_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/CodMac/go-treesitter-jsdeps/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
}

func TestPathResolver_Defaults(t *testing.T) {
	r := resolver.NewPathResolver()
	assert.Equal(t, []string{".js", ".jsx"}, r.Extensions())
}

func TestPathResolver_Resolve(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "exact.txt", "both.js", "both.jsx", "only.jsx", "sub/inner.js", "dir.js/keep.js")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "folder"), 0o755))

	r := resolver.NewPathResolver()
	cases := []struct {
		name      string
		candidate string
		want      string
	}{
		{"exact file", "exact.txt", filepath.Join(dir, "exact.txt")},
		{"js before jsx", "both", filepath.Join(dir, "both.js")},
		{"jsx fallback", "only", filepath.Join(dir, "only.jsx")},
		{"nested", "sub/inner", filepath.Join(dir, "sub", "inner.js")},
		{"dot segments", "sub/../both", filepath.Join(dir, "both.js")},
		{"absolute", filepath.Join(dir, "sub", "inner"), filepath.Join(dir, "sub", "inner.js")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Resolve(tc.candidate, dir)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPathResolver_CustomOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "both.js", "both.jsx", "x.ts")

	r := resolver.NewPathResolver(".jsx", ".js", ".ts")
	got, err := r.Resolve("both", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "both.jsx"), got)

	got, err = r.Resolve("x", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x.ts"), got)
}

func TestPathResolver_Invalid(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "dir.js/keep.js")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "folder"), 0o755))
	r := resolver.NewPathResolver()

	t.Run("missing", func(t *testing.T) {
		_, err := r.Resolve("missing", dir)
		var invalid *resolver.InvalidDependencyError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "missing", invalid.Specifier)
		assert.Equal(t, filepath.Join(dir, "missing"), invalid.Candidate)
		assert.Equal(t, []string{
			filepath.Join(dir, "missing"),
			filepath.Join(dir, "missing.js"),
			filepath.Join(dir, "missing.jsx"),
		}, invalid.Tried)
	})

	t.Run("directories never match", func(t *testing.T) {
		_, err := r.Resolve("folder", dir)
		assert.Error(t, err)

		// dir.js 是目录, 也不会作为 dir 的扩展名候选
		_, err = r.Resolve("dir", dir)
		assert.Error(t, err)
	})
}

func TestInvalidDependencyError_WithReferrer(t *testing.T) {
	base := &resolver.InvalidDependencyError{Specifier: "missing", Candidate: "/p/missing", Tried: []string{"/p/missing"}}
	withRef := base.WithReferrer("./missing", "/p/index.js")

	assert.Equal(t, "missing", base.Specifier, "original is not modified")
	assert.Equal(t, "./missing", withRef.Specifier)
	assert.Equal(t, "/p/index.js", withRef.Referrer)
	assert.Contains(t, withRef.Error(), `"./missing"`)
	assert.Contains(t, withRef.Error(), "/p/index.js")
	assert.NotContains(t, base.Error(), " in ")
}
