package graph

// DependencyMap 是有序的 原始标识 -> 解析后绝对路径 映射
// 重复的标识覆盖旧值, 但保留首次出现的位置
type DependencyMap struct {
	specifiers []string
	paths      map[string]string
}

func NewDependencyMap() *DependencyMap {
	return &DependencyMap{paths: make(map[string]string)}
}

// Set 记录 specifier -> path, 返回该标识此前是否已存在
func (m *DependencyMap) Set(specifier, path string) bool {
	_, exists := m.paths[specifier]
	if !exists {
		m.specifiers = append(m.specifiers, specifier)
	}
	m.paths[specifier] = path
	return exists
}

func (m *DependencyMap) Get(specifier string) (string, bool) {
	path, ok := m.paths[specifier]
	return path, ok
}

// Specifiers 按首次出现顺序返回所有标识
func (m *DependencyMap) Specifiers() []string {
	return append([]string(nil), m.specifiers...)
}

func (m *DependencyMap) Len() int { return len(m.specifiers) }

// AsMap 返回普通 map 副本
func (m *DependencyMap) AsMap() map[string]string {
	out := make(map[string]string, len(m.paths))
	for k, v := range m.paths {
		out[k] = v
	}
	return out
}

// ModuleNode 对应一个唯一的绝对路径
// Children 是共享的非拥有引用, 环中的节点可以是自身的祖先
type ModuleNode struct {
	Path         string
	Dependencies *DependencyMap
	Children     []*ModuleNode
}

func newModuleNode(path string) *ModuleNode {
	return &ModuleNode{Path: path, Dependencies: NewDependencyMap()}
}

// attach 添加子节点, 同一子节点只添加一次
func (n *ModuleNode) attach(child *ModuleNode) {
	for _, existing := range n.Children {
		if existing == child {
			return
		}
	}
	n.Children = append(n.Children, child)
}

// DependencyGraph 是一次解析会话: 根节点与 路径 -> 节点 的身份注册表
// 每次 Resolve 调用都新建, 不跨调用共享
type DependencyGraph struct {
	Root  *ModuleNode
	nodes map[string]*ModuleNode
}

func newDependencyGraph(rootPath string) *DependencyGraph {
	g := &DependencyGraph{nodes: make(map[string]*ModuleNode)}
	g.Root = g.register(rootPath)
	return g
}

func (g *DependencyGraph) lookup(path string) (*ModuleNode, bool) {
	node, ok := g.nodes[path]
	return node, ok
}

func (g *DependencyGraph) register(path string) *ModuleNode {
	node := newModuleNode(path)
	g.nodes[path] = node
	return node
}

// Len 返回会话中已发现的模块数
func (g *DependencyGraph) Len() int { return len(g.nodes) }

// Flatten 从根节点深度优先遍历, 每个可达节点只输出一次
func (g *DependencyGraph) Flatten() *Result {
	res := &Result{
		Root:    g.Root.Path,
		Modules: make(map[string]*DependencyMap, len(g.nodes)),
	}

	var visit func(n *ModuleNode)
	visit = func(n *ModuleNode) {
		if _, seen := res.Modules[n.Path]; seen {
			return
		}
		res.Modules[n.Path] = n.Dependencies
		res.order = append(res.order, n.Path)
		for _, child := range n.Children {
			visit(child)
		}
	}
	visit(g.Root)

	return res
}
