package analysis

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/CodMac/go-treesitter-jsdeps/graph"
	graphlib "github.com/dominikbraun/graph"
)

// Cycle 是一组互相可达的模块, 按访问顺序排列
type Cycle []string

// CycleError 表示依赖图中存在环, 无法给出构建顺序
type CycleError struct {
	Cycles []Cycle
}

func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.Cycles))
	for _, c := range e.Cycles {
		parts = append(parts, strings.Join(c, " -> "))
	}
	return fmt.Sprintf("dependency graph has %d cycle(s): %s", len(e.Cycles), strings.Join(parts, "; "))
}

// ModuleGraph 将 Result 转换为有向图, 边属性 specifier 记录原始标识
func ModuleGraph(res *graph.Result) (graphlib.Graph[string, string], error) {
	g := graphlib.New(graphlib.StringHash, graphlib.Directed())

	for _, path := range res.Paths() {
		if err := g.AddVertex(path); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("failed to add module %s: %w", path, err)
		}
	}
	for _, edge := range res.Edges() {
		// 同一目标可能被多个标识引用 ("./a" 与 "a"), 只保留第一条边
		err := g.AddEdge(edge.Source, edge.Target, graphlib.EdgeAttribute("specifier", edge.Specifier))
		if err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("failed to add dependency %s -> %s: %w", edge.Source, edge.Target, err)
		}
	}

	return g, nil
}

// FindCycles 返回依赖图中的所有环 (强连通分量), 包括自引用模块
func FindCycles(res *graph.Result) ([]Cycle, error) {
	g, err := ModuleGraph(res)
	if err != nil {
		return nil, err
	}

	components, err := graphlib.StronglyConnectedComponents(g)
	if err != nil {
		return nil, fmt.Errorf("failed to compute strongly connected components: %w", err)
	}

	rank := visitRank(res)
	var cycles []Cycle
	for _, component := range components {
		if len(component) == 1 && !selfReferencing(res, component[0]) {
			continue
		}
		c := Cycle(slices.Clone(component))
		slices.SortFunc(c, func(a, b string) int { return rank[a] - rank[b] })
		cycles = append(cycles, c)
	}
	slices.SortFunc(cycles, func(a, b Cycle) int { return rank[a[0]] - rank[b[0]] })

	return cycles, nil
}

// BuildOrder 返回依赖优先的模块顺序: 每个模块都排在引用它的模块之前
// 存在环时返回 *CycleError
func BuildOrder(res *graph.Result) ([]string, error) {
	cycles, err := FindCycles(res)
	if err != nil {
		return nil, err
	}
	if len(cycles) > 0 {
		return nil, &CycleError{Cycles: cycles}
	}

	g, err := ModuleGraph(res)
	if err != nil {
		return nil, err
	}

	rank := visitRank(res)
	order, err := graphlib.StableTopologicalSort(g, func(a, b string) bool { return rank[a] < rank[b] })
	if err != nil {
		return nil, fmt.Errorf("failed to sort modules: %w", err)
	}
	slices.Reverse(order)
	return order, nil
}

func visitRank(res *graph.Result) map[string]int {
	rank := make(map[string]int, res.Len())
	for i, path := range res.Paths() {
		rank[path] = i
	}
	return rank
}

func selfReferencing(res *graph.Result, path string) bool {
	deps := res.Modules[path]
	for _, spec := range deps.Specifiers() {
		if target, _ := deps.Get(spec); target == path {
			return true
		}
	}
	return false
}
