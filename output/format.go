package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/CodMac/go-treesitter-jsdeps/graph"
)

// Format 标识输出格式
type Format string

const (
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatMermaid Format = "mermaid"
	FormatDOT     Format = "dot"
)

// ParseFormat 将名称转换为 Format
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatJSONL, FormatMermaid, FormatDOT:
		return f, nil
	case "html":
		return FormatMermaid, nil
	case "graphviz":
		return FormatDOT, nil
	default:
		return "", fmt.Errorf("unknown output format %q", name)
	}
}

// Export 按指定格式写出 Result
func Export(w io.Writer, format Format, res *graph.Result) error {
	switch format {
	case FormatJSON:
		return ExportJSON(w, res)
	case FormatJSONL:
		_, err := ExportJSONL(w, res)
		return err
	case FormatMermaid:
		return ExportMermaidHTML(w, res)
	case FormatDOT:
		return ExportDOT(w, res)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
