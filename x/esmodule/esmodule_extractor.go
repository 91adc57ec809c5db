package esmodule

import (
	"github.com/CodMac/go-treesitter-jsdeps/extractor"
	"github.com/CodMac/go-treesitter-jsdeps/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Extractor 实现了 extractor.Extractor 接口
// import 声明只能出现在模块顶层, 因此只检查顶层条目, 不做递归
type Extractor struct {
	reExports bool
}

// Option 配置 Extractor
type Option func(*Extractor)

// WithReExports 同时收集 export ... from "..." 的模块标识
func WithReExports(enabled bool) Option {
	return func(e *Extractor) {
		e.reExports = enabled
	}
}

func NewESModuleExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract 实现了 extractor.Extractor 接口
func (e *Extractor) Extract(rootNode *sitter.Node, sourceBytes []byte) ([]model.Specifier, error) {
	var specifiers []model.Specifier

	for _, item := range extractor.NamedOperands(rootNode) {
		switch item.Kind() {
		case "import_statement":
		case "export_statement":
			if !e.reExports {
				continue
			}
		default:
			continue
		}

		source := item.ChildByFieldName("source")
		if !extractor.IsStringLiteral(source) {
			continue
		}
		specifiers = append(specifiers, model.Specifier{
			Value:    extractor.StringValue(source, sourceBytes),
			System:   model.ESModule,
			Location: extractor.NodeLocation(item),
		})
	}

	return specifiers, nil
}
