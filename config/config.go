package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/CodMac/go-treesitter-jsdeps/graph"
	"github.com/CodMac/go-treesitter-jsdeps/model"
	"github.com/CodMac/go-treesitter-jsdeps/noisefilter"
	"github.com/CodMac/go-treesitter-jsdeps/output"
	"github.com/CodMac/go-treesitter-jsdeps/parser"
	"github.com/CodMac/go-treesitter-jsdeps/resolver"
	"github.com/CodMac/go-treesitter-jsdeps/x/esmodule"
	"gopkg.in/yaml.v3"
)

// MaxConfigFileSize 配置文件大小上限 (1MB)
const MaxConfigFileSize = 1024 * 1024

// Config 对应 jsdeps.yaml
type Config struct {
	ModuleSystem   string   `yaml:"moduleSystem"`   // commonjs | esmodule
	Extensions     []string `yaml:"extensions"`     // 扩展名回退顺序
	Workers        int      `yaml:"workers"`        // 批量模式并发数, 0 表示 CPU 核心数
	IgnoreBuiltins bool     `yaml:"ignoreBuiltins"` // 忽略 Node.js 内置模块
	ReExports      bool     `yaml:"reexports"`      // ES 模块: 同时收集 export ... from
	CacheSize      int      `yaml:"cacheSize"`      // 源码缓存容量, 0 表示不缓存
	Format         string   `yaml:"format"`         // json | jsonl | mermaid | dot
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		ModuleSystem: string(model.CommonJS),
		Extensions:   append([]string(nil), resolver.DefaultExtensions...),
		Format:       string(output.FormatJSON),
	}
}

// Load 读取 YAML 配置文件, 文件中未出现的键保留默认值
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if len(data) > MaxConfigFileSize {
		return nil, fmt.Errorf("config %s exceeds %d bytes", path, MaxConfigFileSize)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse 解析 YAML 内容并校验, 未知键视为错误
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	if _, err := model.ParseModuleSystem(c.ModuleSystem); err != nil {
		return err
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		return err
	}
	if len(c.Extensions) == 0 {
		return errors.New("extensions must not be empty")
	}
	for _, ext := range c.Extensions {
		if ext == "" {
			return errors.New("extensions must not contain an empty entry")
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cacheSize must not be negative, got %d", c.CacheSize)
	}
	return nil
}

// System 返回配置的模块系统
func (c *Config) System() model.ModuleSystem {
	system, err := model.ParseModuleSystem(c.ModuleSystem)
	if err != nil {
		return model.CommonJS
	}
	return system
}

// OutputFormat 返回配置的输出格式
func (c *Config) OutputFormat() output.Format {
	format, err := output.ParseFormat(c.Format)
	if err != nil {
		return output.FormatJSON
	}
	return format
}

// NewBuilder 按配置创建 graph.Builder
func (c *Config) NewBuilder(logger *slog.Logger) (*graph.Builder, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts := []graph.Option{
		graph.WithExtensions(c.Extensions...),
		graph.WithLogger(logger),
	}
	if c.CacheSize > 0 {
		loader, err := parser.NewCachingLoader(c.CacheSize, parser.NewFileLoader())
		if err != nil {
			return nil, err
		}
		opts = append(opts, graph.WithLoader(loader))
	}
	if c.IgnoreBuiltins {
		opts = append(opts, graph.WithNoiseFilter(noisefilter.NewNodeBuiltinFilter()))
	}
	if c.ReExports && c.System() == model.ESModule {
		opts = append(opts, graph.WithExtractor(esmodule.NewESModuleExtractor(esmodule.WithReExports(true))))
	}

	return graph.NewBuilder(c.System(), opts...)
}
