package output

import (
	"encoding/json"
	"io"

	"github.com/CodMac/go-treesitter-jsdeps/graph"
)

type JSONLWriter struct {
	encoder *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		encoder: json.NewEncoder(w),
	}
}

func (w *JSONLWriter) Write(v any) error {
	return w.encoder.Encode(v)
}

// DependencyRecord 是模块中的一条依赖声明
type DependencyRecord struct {
	Specifier string `json:"specifier"`
	Path      string `json:"path"`
}

// ModuleRecord 是 JSONL 输出中的一行: 一个模块及其按声明顺序排列的依赖
type ModuleRecord struct {
	Path         string             `json:"path"`
	Root         bool               `json:"root,omitempty"`
	Dependencies []DependencyRecord `json:"dependencies"`
}

// ModuleRecords 按访问顺序把 Result 转换为 ModuleRecord 列表
func ModuleRecords(res *graph.Result) []ModuleRecord {
	records := make([]ModuleRecord, 0, res.Len())
	for _, path := range res.Paths() {
		deps := res.Modules[path]
		rec := ModuleRecord{
			Path:         path,
			Root:         path == res.Root,
			Dependencies: make([]DependencyRecord, 0, deps.Len()),
		}
		for _, spec := range deps.Specifiers() {
			target, _ := deps.Get(spec)
			rec.Dependencies = append(rec.Dependencies, DependencyRecord{Specifier: spec, Path: target})
		}
		records = append(records, rec)
	}
	return records
}

// ExportJSONL 每个模块输出一行, 返回写出的行数
func ExportJSONL(w io.Writer, res *graph.Result) (int, error) {
	writer := NewJSONLWriter(w)
	count := 0
	for _, rec := range ModuleRecords(res) {
		if err := writer.Write(rec); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ExportJSON 输出 {模块路径: {原始标识: 绝对路径}} 形式的单个 JSON 对象
func ExportJSON(w io.Writer, res *graph.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(res.Map())
}
