package noisefilter

import "strings"

// NoiseFilter 判断一个模块标识是否应在解析前被忽略
type NoiseFilter interface {
	IsNoise(specifier string) bool
}

// DefaultNoiseFilter 默认过滤器：不忽略任何模块标识
type DefaultNoiseFilter struct{}

func (d *DefaultNoiseFilter) IsNoise(specifier string) bool { return false }

// NodeBuiltinFilter 忽略 Node.js 内置模块 (fs, path, node:fs, fs/promises ...)
type NodeBuiltinFilter struct{}

func NewNodeBuiltinFilter() *NodeBuiltinFilter {
	return &NodeBuiltinFilter{}
}

func (f *NodeBuiltinFilter) IsNoise(specifier string) bool {
	if strings.HasPrefix(specifier, "node:") {
		return true
	}
	name, _, _ := strings.Cut(specifier, "/")
	return nodeBuiltinModules[name]
}

// nodeBuiltinModules 是 Node.js 顶层内置模块名
var nodeBuiltinModules = map[string]bool{
	"assert":              true,
	"async_hooks":         true,
	"buffer":              true,
	"child_process":       true,
	"cluster":             true,
	"console":             true,
	"constants":           true,
	"crypto":              true,
	"dgram":               true,
	"diagnostics_channel": true,
	"dns":                 true,
	"domain":              true,
	"events":              true,
	"fs":                  true,
	"http":                true,
	"http2":               true,
	"https":               true,
	"inspector":           true,
	"module":              true,
	"net":                 true,
	"os":                  true,
	"path":                true,
	"perf_hooks":          true,
	"process":             true,
	"punycode":            true,
	"querystring":         true,
	"readline":            true,
	"repl":                true,
	"stream":              true,
	"string_decoder":      true,
	"sys":                 true,
	"timers":              true,
	"tls":                 true,
	"trace_events":        true,
	"tty":                 true,
	"url":                 true,
	"util":                true,
	"v8":                  true,
	"vm":                  true,
	"wasi":                true,
	"worker_threads":      true,
	"zlib":                true,
}
