package commonjs

import (
	"github.com/CodMac/go-treesitter-jsdeps/extractor"
	"github.com/CodMac/go-treesitter-jsdeps/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

const requireIdentifier = "require"

// Extractor 实现了 extractor.Extractor 接口
// 遍历脚本中所有可达的语句与表达式, 收集 require("literal") 调用
type Extractor struct{}

func NewCommonJSExtractor() *Extractor {
	return &Extractor{}
}

// Extract 实现了 extractor.Extractor 接口
func (e *Extractor) Extract(rootNode *sitter.Node, sourceBytes []byte) ([]model.Specifier, error) {
	w := &walker{source: sourceBytes}
	w.walk(rootNode)
	return w.specifiers, nil
}

// walker 保存单次提取的状态
type walker struct {
	source     []byte
	specifiers []model.Specifier
}

func (w *walker) walk(n *sitter.Node) {
	if n == nil || n.IsExtra() {
		return
	}

	switch n.Kind() {
	// --- 语句 ---
	case "program", "statement_block", "expression_statement", "else_clause",
		"return_statement", "throw_statement", "switch_body", "switch_case", "switch_default",
		"variable_declaration", "lexical_declaration":
		w.walkNamedChildren(n)
	case "if_statement":
		w.walkFields(n, "condition", "consequence", "alternative")
	case "while_statement":
		w.walkFields(n, "condition", "body")
	case "do_statement":
		w.walkFields(n, "body", "condition")
	case "for_statement":
		w.walkFields(n, "initializer", "condition", "increment", "body")
	case "for_in_statement": // for-in 与 for-of
		w.walkFields(n, "right", "body")
	case "switch_statement":
		w.walkFields(n, "value", "body")
	case "labeled_statement":
		w.walkFields(n, "body")
	case "try_statement":
		w.walkFields(n, "body", "handler", "finalizer")
	case "catch_clause", "finally_clause":
		w.walkFields(n, "body")
	case "variable_declarator":
		w.walkFields(n, "value")
	case "with_statement":
		w.walkFields(n, "object", "body")
	case "empty_statement", "break_statement", "continue_statement", "debugger_statement":
		return

	// --- 函数与类 ---
	case "function_declaration", "generator_function_declaration",
		"function_expression", "function", "generator_function",
		"arrow_function", "method_definition", "class_static_block":
		w.walkFields(n, "body")
	case "class_declaration", "class":
		w.walkClass(n)
	case "field_definition":
		w.walkFields(n, "value")

	// --- 表达式 ---
	case "call_expression":
		w.walkCall(n)
	case "pair":
		w.walkFields(n, "value")
	case "assignment_expression", "augmented_assignment_expression":
		w.walkFields(n, "right")
	case "binary_expression":
		w.walkFields(n, "left", "right")
	case "ternary_expression":
		w.walkFields(n, "condition", "consequence", "alternative")
	case "unary_expression", "update_expression":
		w.walkFields(n, "argument")
	case "member_expression":
		w.walkFields(n, "object")
	case "subscript_expression":
		w.walkFields(n, "object", "index")
	case "new_expression":
		w.walkFields(n, "constructor", "arguments")
	case "array", "object", "arguments", "template_string", "template_substitution",
		"spread_element", "yield_expression", "await_expression",
		"parenthesized_expression", "sequence_expression":
		w.walkNamedChildren(n)

	default:
		// 未显式处理的节点: 透传到其具名子节点
		w.walkNamedChildren(n)
	}
}

// walkCall 识别依赖声明: 被调用者为裸标识符 require, 且恰好有一个字符串字面量参数
// 其他调用按普通表达式继续遍历被调用者和全部参数
func (w *walker) walkCall(n *sitter.Node) {
	callee := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")

	if literal := requireArgument(callee, args, w.source); literal != nil {
		w.specifiers = append(w.specifiers, model.Specifier{
			Value:    extractor.StringValue(literal, w.source),
			System:   model.CommonJS,
			Location: extractor.NodeLocation(n),
		})
		return
	}

	w.walk(callee)
	w.walk(args)
}

func requireArgument(callee, args *sitter.Node, source []byte) *sitter.Node {
	if callee == nil || callee.Kind() != "identifier" || callee.Utf8Text(source) != requireIdentifier {
		return nil
	}
	// 标签模板 require`x` 的参数是 template_string
	if args == nil || args.Kind() != "arguments" {
		return nil
	}

	operands := extractor.NamedOperands(args)
	if len(operands) != 1 {
		return nil
	}
	literal := unwrapParens(operands[0])
	if !extractor.IsStringLiteral(literal) {
		return nil
	}
	return literal
}

// unwrapParens 去掉包裹表达式的括号, require(("./a")) 与 require("./a") 等价
func unwrapParens(n *sitter.Node) *sitter.Node {
	for n != nil && n.Kind() == "parenthesized_expression" {
		inner := extractor.NamedOperands(n)
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}

// walkClass 遍历父类表达式与类体中的每个成员
func (w *walker) walkClass(n *sitter.Node) {
	for _, child := range extractor.NamedOperands(n) {
		switch child.Kind() {
		case "class_heritage":
			w.walkNamedChildren(child)
		case "class_body":
			w.walkNamedChildren(child)
		}
	}
}

func (w *walker) walkFields(n *sitter.Node, fields ...string) {
	cursor := n.Walk()
	defer cursor.Close()

	for _, field := range fields {
		children := n.ChildrenByFieldName(field, cursor)
		for i := range children {
			w.walk(&children[i])
		}
	}
}

func (w *walker) walkNamedChildren(n *sitter.Node) {
	for _, child := range extractor.NamedOperands(n) {
		w.walk(child)
	}
}
