package extractor

import (
	"strconv"
	"strings"
	"unicode/utf16"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// IsStringLiteral 报告节点是否为普通字符串字面量 (不含模板字符串)
func IsStringLiteral(n *sitter.Node) bool {
	return n != nil && n.Kind() == "string"
}

// StringValue 返回字符串字面量解码后的值
func StringValue(n *sitter.Node, sourceBytes []byte) string {
	var b strings.Builder
	var high rune // 待配对的 UTF-16 高位代理

	flush := func() {
		if high != 0 {
			b.WriteRune(utf16.DecodeRune(high, 0))
			high = 0
		}
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case "string_fragment":
			flush()
			b.WriteString(child.Utf8Text(sourceBytes))
		case "escape_sequence":
			r, text := decodeEscape(child.Utf8Text(sourceBytes))
			if r < 0 {
				flush()
				b.WriteString(text)
				continue
			}
			if utf16.IsSurrogate(r) {
				if high != 0 && r >= 0xDC00 {
					b.WriteRune(utf16.DecodeRune(high, r))
					high = 0
					continue
				}
				flush()
				if r < 0xDC00 {
					high = r
					continue
				}
			}
			flush()
			b.WriteRune(r)
		}
	}
	flush()
	return b.String()
}

// decodeEscape 解码单个转义序列
// 可以表示为单个码点时返回 (rune, ""), 否则返回 (-1, 文本)
func decodeEscape(esc string) (rune, string) {
	if len(esc) < 2 || esc[0] != '\\' {
		return -1, esc
	}
	body := esc[1:]

	switch body[0] {
	case 'n':
		return '\n', ""
	case 't':
		return '\t', ""
	case 'r':
		return '\r', ""
	case 'b':
		return '\b', ""
	case 'f':
		return '\f', ""
	case 'v':
		return '\v', ""
	case '\r', '\n':
		// 行延续
		return -1, ""
	case 'x':
		if v, err := strconv.ParseUint(body[1:], 16, 32); err == nil {
			return rune(v), ""
		}
	case 'u':
		digits := strings.TrimSuffix(strings.TrimPrefix(body[1:], "{"), "}")
		if v, err := strconv.ParseUint(digits, 16, 32); err == nil {
			return rune(v), ""
		}
	case '0', '1', '2', '3', '4', '5', '6', '7':
		if v, err := strconv.ParseUint(body, 8, 32); err == nil {
			return rune(v), ""
		}
	}

	if strings.HasPrefix(body, "\u2028") || strings.HasPrefix(body, "\u2029") {
		return -1, ""
	}
	return -1, body
}
