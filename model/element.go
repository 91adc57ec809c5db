package model

import "fmt"

// Location 描述了依赖声明或语法错误在源码中的位置
type Location struct {
	FilePath    string `json:"FilePath,omitempty"`
	StartLine   int    `json:"StartLine"`
	EndLine     int    `json:"EndLine"`
	StartColumn int    `json:"StartColumn"`
	EndColumn   int    `json:"EndColumn"`
}

// String 以 path:line:column 的形式输出位置 (行号从 1 开始, 列号从 0 开始)
func (l Location) String() string {
	if l.FilePath == "" {
		return fmt.Sprintf("%d:%d", l.StartLine, l.StartColumn)
	}
	return fmt.Sprintf("%s:%d:%d", l.FilePath, l.StartLine, l.StartColumn)
}

// Specifier 是依赖声明处书写的模块标识字符串 (未解析)
type Specifier struct {
	Value    string       `json:"Value"`    // Value: 解码后的字面量文本, e.g. "./a"
	System   ModuleSystem `json:"System"`   // System: 声明方式 (require 或 import)
	Location Location     `json:"Location"` // Location: 声明所在位置
}

// Values 按源码顺序返回所有 Specifier 的文本
func Values(specs []Specifier) []string {
	values := make([]string, 0, len(specs))
	for _, s := range specs {
		values = append(values, s.Value)
	}
	return values
}
