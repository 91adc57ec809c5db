package model

// DependencyEdge 是导出结果中的一条依赖边: Source 模块通过 Specifier 引用了 Target 模块
type DependencyEdge struct {
	Source    string `json:"Source"`    // Source: 发起引用的模块绝对路径
	Specifier string `json:"Specifier"` // Specifier: 源码中书写的原始文本
	Target    string `json:"Target"`    // Target: 解析后的模块绝对路径
}
