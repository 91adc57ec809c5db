package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/CodMac/go-treesitter-jsdeps/graph"
)

// ExportMermaidHTML 生成包含 Mermaid.js 渲染逻辑的静态网页
func ExportMermaidHTML(w io.Writer, res *graph.Result) error {
	var b strings.Builder

	// 1. 写入 HTML 模板头部
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Module Dependency Map</title>
    <script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
    <style>
        body { font-family: -apple-system, sans-serif; background: #f0f2f5; margin: 20px; }
        .mermaid { background: white; padding: 20px; border-radius: 12px; box-shadow: 0 4px 15px rgba(0,0,0,0.1); }
        h1 { color: #1a1a1a; text-align: center; }
    </style>
</head>
<body>
`)
	fmt.Fprintf(&b, "    <h1>%s</h1>\n", htmlEscape(displayPath(res, res.Root)))
	b.WriteString("    <div class=\"mermaid\">\n")
	writeMermaidGraph(&b, res)

	// 2. 写入脚本初始化和结尾
	b.WriteString(`    </div>
    <script>
        mermaid.initialize({
            startOnLoad: true,
            maxTextSize: 100000,
            theme: 'default',
            flowchart: { useMaxWidth: false, htmlLabels: true }
        });
    </script>
</body>
</html>
`)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeMermaidGraph 输出 graph LR 定义: 按目录分组为 subgraph, 边标注原始标识
func writeMermaidGraph(b *strings.Builder, res *graph.Result) {
	b.WriteString("    graph LR\n")

	// 按目录分组
	var dirs []string
	groups := make(map[string][]string)
	for _, path := range res.Paths() {
		dir := filepath.Dir(displayPath(res, path))
		if _, ok := groups[dir]; !ok {
			dirs = append(dirs, dir)
		}
		groups[dir] = append(groups[dir], path)
	}

	for _, dir := range dirs {
		fmt.Fprintf(b, "    subgraph %s[\"📁 %s\"]\n", safeID("dir:"+dir), mermaidText(dir))
		for _, path := range groups[dir] {
			label := filepath.Base(path)
			if path == res.Root {
				fmt.Fprintf(b, "        %s([\"%s\"])\n", safeID(path), mermaidText(label))
				continue
			}
			fmt.Fprintf(b, "        %s[\"%s\"]\n", safeID(path), mermaidText(label))
		}
		b.WriteString("    end\n")
	}

	for _, edge := range res.Edges() {
		fmt.Fprintf(b, "    %s -- \"%s\" --> %s\n", safeID(edge.Source), mermaidText(edge.Specifier), safeID(edge.Target))
	}
}

// safeID 确保模块路径符合 Mermaid 的 ID 命名规范
func safeID(id string) string {
	r := strings.NewReplacer(".", "_", "/", "_", "-", "_", "\\", "_", ":", "_", "@", "_", " ", "_")
	return "n_" + r.Replace(id)
}

func mermaidText(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

func htmlEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

// displayPath 返回相对入口模块所在目录的路径, 无法计算时返回原路径
func displayPath(res *graph.Result, path string) string {
	rel, err := filepath.Rel(filepath.Dir(res.Root), path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
