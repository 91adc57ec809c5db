package parser

import (
	"fmt"

	"github.com/CodMac/go-treesitter-jsdeps/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// TreeSitterParser 将 UTF-8 源码解析为 Tree-sitter 语法树
// 不是并发安全的: 每个 goroutine (每次解析会话) 应持有自己的实例
type TreeSitterParser struct {
	Language model.Language // 当前解析器针对的语言
	tsParser *sitter.Parser
}

// NewParser 创建一个新的 TreeSitterParser 实例
func NewParser(lang model.Language) (*TreeSitterParser, error) {
	tsLang, err := model.GetLanguage(lang)
	if err != nil {
		return nil, err
	}

	tsParser := sitter.NewParser()
	if err := tsParser.SetLanguage(tsLang); err != nil {
		tsParser.Close()
		return nil, fmt.Errorf("failed to set language %s: %w", lang, err)
	}

	return &TreeSitterParser{
		Language: lang,
		tsParser: tsParser,
	}, nil
}

// Parse 按指定语法变体解析源码
// 源码存在语法错误, 或包含该语法变体不允许的声明时返回 *SyntaxError
// 调用方负责关闭返回的 Tree
func (p *TreeSitterParser) Parse(source []byte, grammar model.Grammar) (*sitter.Tree, error) {
	tree := p.tsParser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter failed to parse %s source", p.Language)
	}

	root := tree.RootNode()
	if err := checkSyntax(root, source); err != nil {
		tree.Close()
		return nil, err
	}
	if err := checkGrammar(root, grammar); err != nil {
		tree.Close()
		return nil, err
	}

	return tree, nil
}

// Close 释放 Tree-sitter 内部资源
func (p *TreeSitterParser) Close() {
	if p.tsParser != nil {
		p.tsParser.Close()
	}
}
