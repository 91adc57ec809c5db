package esmodule

import (
	"github.com/CodMac/go-treesitter-jsdeps/extractor"
	"github.com/CodMac/go-treesitter-jsdeps/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

func init() {
	// 注册 Tree-sitter JavaScript 语言对象
	model.RegisterLanguage(model.LangJavaScript, sitter.NewLanguage(tree_sitter_javascript.Language()))
	// 注册 Extractor
	extractor.RegisterExtractor(model.ESModule, NewESModuleExtractor())
}
