package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/CodMac/go-treesitter-jsdeps/extractor"
	"github.com/CodMac/go-treesitter-jsdeps/model"
	"github.com/CodMac/go-treesitter-jsdeps/noisefilter"
	"github.com/CodMac/go-treesitter-jsdeps/parser"
	"github.com/CodMac/go-treesitter-jsdeps/resolver"
)

// Option 配置 Builder
type Option func(*Builder) error

// WithExtensions 设置扩展名回退顺序, 第一个命中的扩展名胜出
func WithExtensions(extensions ...string) Option {
	return func(b *Builder) error {
		if len(extensions) == 0 {
			return errors.New("extension list must not be empty")
		}
		for _, ext := range extensions {
			if ext == "" {
				return errors.New("extension must not be empty")
			}
		}
		b.extensions = append([]string(nil), extensions...)
		return nil
	}
}

// WithLoader 替换源码加载器 (默认为 parser.FileLoader)
func WithLoader(loader parser.SourceLoader) Option {
	return func(b *Builder) error {
		if loader == nil {
			return errors.New("loader must not be nil")
		}
		b.loader = loader
		return nil
	}
}

// WithNoiseFilter 在解析前忽略被过滤器判定为噪音的标识
func WithNoiseFilter(filter noisefilter.NoiseFilter) Option {
	return func(b *Builder) error {
		if filter == nil {
			filter = &noisefilter.DefaultNoiseFilter{}
		}
		b.filter = filter
		return nil
	}
}

// WithLogger 设置结构化日志, 默认丢弃所有输出
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger != nil {
			b.logger = logger
		}
		return nil
	}
}

// WithExtractor 替换注册表中该模块系统的默认 Extractor
func WithExtractor(ext extractor.Extractor) Option {
	return func(b *Builder) error {
		b.extractor = ext
		return nil
	}
}

// Builder 从入口模块递归构建依赖图
// 构造后只读: 多个 goroutine 可以并发调用 Resolve, 每次调用拥有独立的会话状态
type Builder struct {
	system     model.ModuleSystem
	extensions []string
	extractor  extractor.Extractor
	resolver   *resolver.PathResolver
	loader     parser.SourceLoader
	filter     noisefilter.NoiseFilter
	logger     *slog.Logger
}

// NewBuilder 创建 Builder, Extractor 在此时根据模块系统一次性选定
func NewBuilder(system model.ModuleSystem, opts ...Option) (*Builder, error) {
	b := &Builder{
		system: system,
		loader: parser.NewFileLoader(),
		filter: &noisefilter.DefaultNoiseFilter{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("invalid builder option: %w", err)
		}
	}

	if b.extractor == nil {
		ext, err := extractor.GetExtractor(system)
		if err != nil {
			return nil, err
		}
		b.extractor = ext
	}
	b.resolver = resolver.NewPathResolver(b.extensions...)

	return b, nil
}

// System 返回该 Builder 使用的模块系统
func (b *Builder) System() model.ModuleSystem { return b.system }

// Extensions 返回扩展名回退顺序
func (b *Builder) Extensions() []string { return b.resolver.Extensions() }

// Resolve 解析 rootPath 可达的全部模块
// 任一模块加载、解析或依赖定位失败都会中止整个调用, 不返回部分结果
func (b *Builder) Resolve(rootPath string) (*Result, error) {
	rootAbs, err := b.resolver.Resolve(rootPath, "")
	if err != nil {
		return nil, err
	}

	tsParser, err := parser.NewParser(model.LangJavaScript)
	if err != nil {
		return nil, err
	}
	defer tsParser.Close()

	s := &session{
		Builder: b,
		graph:   newDependencyGraph(rootAbs),
		parser:  tsParser,
	}

	b.logger.Debug("resolving dependency graph", slog.String("root", rootAbs), slog.String("system", string(b.system)))
	if err := s.build(s.graph.Root); err != nil {
		return nil, err
	}

	res := s.graph.Flatten()
	b.logger.Info("dependency graph resolved", slog.String("root", rootAbs), slog.Int("modules", res.Len()))
	return res, nil
}

// session 保存单次 Resolve 调用的可变状态
type session struct {
	*Builder
	graph  *DependencyGraph
	parser *parser.TreeSitterParser
}

func (s *session) build(node *ModuleNode) error {
	specifiers, err := s.extract(node.Path)
	if err != nil {
		return &ModuleError{Path: node.Path, Err: err}
	}

	baseDir := filepath.Dir(node.Path)
	for _, spec := range specifiers {
		raw := spec.Value
		if s.filter.IsNoise(raw) {
			s.logger.Debug("skipping filtered specifier", slog.String("module", node.Path), slog.String("specifier", raw))
			continue
		}

		resolved, err := s.resolver.Resolve(strings.TrimPrefix(raw, "./"), baseDir)
		if err != nil {
			var invalid *resolver.InvalidDependencyError
			if errors.As(err, &invalid) {
				err = invalid.WithReferrer(raw, node.Path)
			}
			return &ModuleError{Path: node.Path, Err: err}
		}

		if node.Dependencies.Set(raw, resolved) {
			s.logger.Debug("duplicate specifier overwrites earlier mapping", slog.String("module", node.Path), slog.String("specifier", raw))
		}

		if child, ok := s.graph.lookup(resolved); ok {
			node.attach(child)
			continue
		}

		child := s.graph.register(resolved)
		node.attach(child)
		s.logger.Debug("discovered module", slog.String("module", resolved), slog.String("referrer", node.Path))
		if err := s.build(child); err != nil {
			return &ModuleError{Path: node.Path, Err: err}
		}
	}

	return nil
}

// extract 加载、解析模块并提取原始标识
func (s *session) extract(path string) ([]model.Specifier, error) {
	source, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}

	tree, err := s.parser.Parse(source, s.system.Grammar())
	if err != nil {
		var syntaxErr *parser.SyntaxError
		if errors.As(err, &syntaxErr) {
			syntaxErr.Location.FilePath = path
		}
		return nil, err
	}
	defer tree.Close()

	specifiers, err := s.extractor.Extract(tree.RootNode(), source)
	if err != nil {
		return nil, fmt.Errorf("failed to extract dependencies: %w", err)
	}
	return specifiers, nil
}
