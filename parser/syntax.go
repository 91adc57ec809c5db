package parser

import (
	"fmt"
	"strings"

	"github.com/CodMac/go-treesitter-jsdeps/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

const snippetLimit = 24

// SyntaxError 表示源码无法按所请求的语法变体解析
type SyntaxError struct {
	Location model.Location
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Location, e.Message)
}

// checkSyntax 查找语法树中第一个 ERROR 或 MISSING 节点 (先序)
func checkSyntax(root *sitter.Node, source []byte) error {
	if !root.HasError() {
		return nil
	}

	bad := firstErrorNode(root)
	if bad == nil {
		return &SyntaxError{Location: nodeToLocation(root), Message: "malformed source"}
	}

	if bad.IsMissing() {
		return &SyntaxError{Location: nodeToLocation(bad), Message: fmt.Sprintf("missing %q", bad.Kind())}
	}
	return &SyntaxError{Location: nodeToLocation(bad), Message: fmt.Sprintf("unexpected %q", snippet(bad.Utf8Text(source)))}
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

// checkGrammar 校验 Tree-sitter 统一语法无法区分的脚本/模块差异
func checkGrammar(root *sitter.Node, grammar model.Grammar) error {
	switch grammar {
	case model.Script:
		for i := uint(0); i < root.NamedChildCount(); i++ {
			item := root.NamedChild(i)
			switch item.Kind() {
			case "import_statement":
				return &SyntaxError{Location: nodeToLocation(item), Message: "import declarations may only appear in module code"}
			case "export_statement":
				return &SyntaxError{Location: nodeToLocation(item), Message: "export declarations may only appear in module code"}
			}
		}
		return checkNestedDeclarations(root)
	case model.Module:
		if err := checkNestedDeclarations(root); err != nil {
			return err
		}
		if with := findKind(root, "with_statement"); with != nil {
			return &SyntaxError{Location: nodeToLocation(with), Message: "strict mode code may not include a with statement"}
		}
	default:
		return fmt.Errorf("unknown grammar %q", grammar)
	}
	return nil
}

// checkNestedDeclarations 拒绝出现在顶层以外的 import/export 声明
// Tree-sitter 把它们当作普通语句, 在块和函数体内也能解析成功
func checkNestedDeclarations(root *sitter.Node) error {
	var nested func(n *sitter.Node, topLevel bool) *sitter.Node
	nested = func(n *sitter.Node, topLevel bool) *sitter.Node {
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			switch child.Kind() {
			case "import_statement", "export_statement":
				if !topLevel {
					return child
				}
			}
			if found := nested(child, false); found != nil {
				return found
			}
		}
		return nil
	}

	decl := nested(root, true)
	if decl == nil {
		return nil
	}
	keyword := "import"
	if decl.Kind() == "export_statement" {
		keyword = "export"
	}
	return &SyntaxError{Location: nodeToLocation(decl), Message: keyword + " declarations may only appear at the top level of a module"}
}

func findKind(n *sitter.Node, kind string) *sitter.Node {
	if n.Kind() == kind {
		return n
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if found := findKind(n.NamedChild(i), kind); found != nil {
			return found
		}
	}
	return nil
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > snippetLimit {
		text = text[:snippetLimit] + "..."
	}
	return text
}

// nodeToLocation 行号从 1 开始
func nodeToLocation(n *sitter.Node) model.Location {
	return model.Location{
		StartLine:   int(n.StartPosition().Row) + 1,
		EndLine:     int(n.EndPosition().Row) + 1,
		StartColumn: int(n.StartPosition().Column),
		EndColumn:   int(n.EndPosition().Column),
	}
}
