package noisefilter_test

import (
	"testing"

	"github.com/CodMac/go-treesitter-jsdeps/noisefilter"
	"github.com/stretchr/testify/assert"
)

func TestNodeBuiltinFilter(t *testing.T) {
	f := noisefilter.NewNodeBuiltinFilter()

	for _, spec := range []string{"fs", "path", "node:fs", "node:test", "fs/promises", "stream/web"} {
		assert.True(t, f.IsNoise(spec), spec)
	}
	for _, spec := range []string{"./fs", "../path", "fs.js", "lodash", "/abs/fs", "./node:fs"} {
		assert.False(t, f.IsNoise(spec), spec)
	}
}

func TestDefaultNoiseFilter(t *testing.T) {
	f := &noisefilter.DefaultNoiseFilter{}
	assert.False(t, f.IsNoise("fs"))
	assert.False(t, f.IsNoise("./a"))
}
