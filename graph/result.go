package graph

import "github.com/CodMac/go-treesitter-jsdeps/model"

// Result 是扁平化后的依赖图: 模块绝对路径 -> (原始标识 -> 绝对路径)
type Result struct {
	Root    string
	Modules map[string]*DependencyMap
	order   []string
}

// Paths 按深度优先的访问顺序返回所有模块路径, 根模块在首位
func (r *Result) Paths() []string {
	return append([]string(nil), r.order...)
}

func (r *Result) Len() int { return len(r.order) }

// Map 返回 map[模块路径]map[原始标识]绝对路径 形式的副本
func (r *Result) Map() map[string]map[string]string {
	out := make(map[string]map[string]string, len(r.Modules))
	for path, deps := range r.Modules {
		out[path] = deps.AsMap()
	}
	return out
}

// Edges 按模块访问顺序与标识顺序列出所有依赖边
func (r *Result) Edges() []model.DependencyEdge {
	var edges []model.DependencyEdge
	for _, path := range r.order {
		deps := r.Modules[path]
		for _, spec := range deps.Specifiers() {
			target, _ := deps.Get(spec)
			edges = append(edges, model.DependencyEdge{Source: path, Specifier: spec, Target: target})
		}
	}
	return edges
}
