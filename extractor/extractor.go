package extractor

import (
	"fmt"

	"github.com/CodMac/go-treesitter-jsdeps/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Extractor 从已解析的语法树中按源码顺序提取依赖声明的原始 Specifier
// 实现必须是无状态的, 以便在多个解析会话之间共享
type Extractor interface {
	Extract(rootNode *sitter.Node, sourceBytes []byte) ([]model.Specifier, error)
}

var extractorMap = make(map[model.ModuleSystem]Extractor)

// RegisterExtractor 注册一个模块系统与其对应的 Extractor
func RegisterExtractor(system model.ModuleSystem, extractor Extractor) {
	extractorMap[system] = extractor
}

// GetExtractor 根据模块系统获取对应的 Extractor 实例
func GetExtractor(system model.ModuleSystem) (Extractor, error) {
	extractor, ok := extractorMap[system]
	if !ok {
		return nil, fmt.Errorf("no extractor registered for module system: %s", system)
	}

	return extractor, nil
}

// NodeLocation 将节点位置转换为 model.Location (行号从 1 开始)
func NodeLocation(n *sitter.Node) model.Location {
	return model.Location{
		StartLine:   int(n.StartPosition().Row) + 1,
		EndLine:     int(n.EndPosition().Row) + 1,
		StartColumn: int(n.StartPosition().Column),
		EndColumn:   int(n.EndPosition().Column),
	}
}

// NamedOperands 返回节点的具名子节点, 跳过注释等 extra 节点
func NamedOperands(n *sitter.Node) []*sitter.Node {
	operands := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.IsExtra() {
			continue
		}
		operands = append(operands, child)
	}
	return operands
}
