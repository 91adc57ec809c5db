package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/CodMac/go-treesitter-jsdeps/graph"
)

// ExportDOT 以 Graphviz DOT 格式输出依赖图
func ExportDOT(w io.Writer, res *graph.Result) error {
	_, err := io.WriteString(w, generateDOT(res))
	return err
}

func generateDOT(res *graph.Result) string {
	var builder strings.Builder
	builder.WriteString("digraph modules {\n")
	builder.WriteString("  rankdir = LR;\n\n")

	writeNodeStyles(&builder)
	writeNodes(&builder, res)
	writeDependencies(&builder, res)

	builder.WriteString("}\n")
	return builder.String()
}

func writeNodeStyles(builder *strings.Builder) {
	builder.WriteString("  // Node styles\n")
	builder.WriteString("  node [shape=box, style=rounded];\n\n")
}

func writeNodes(builder *strings.Builder, res *graph.Result) {
	builder.WriteString("  // Modules\n")
	for _, path := range res.Paths() {
		label := strconv.Quote(displayPath(res, path))
		if path == res.Root {
			fmt.Fprintf(builder, "  %s [label=%s, color=red];\n", strconv.Quote(path), label)
			continue
		}
		fmt.Fprintf(builder, "  %s [label=%s];\n", strconv.Quote(path), label)
	}
}

func writeDependencies(builder *strings.Builder, res *graph.Result) {
	builder.WriteString("\n  // Dependencies\n")
	for _, edge := range res.Edges() {
		fmt.Fprintf(builder, "  %s -> %s [label=%s];\n",
			strconv.Quote(edge.Source), strconv.Quote(edge.Target), strconv.Quote(edge.Specifier))
	}
}
