package model

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Language 标识支持的编程语言
type Language string

const (
	LangJavaScript Language = "javascript"
)

// ModuleSystem 标识依赖声明的方式 (CommonJS require 或 ES import)
type ModuleSystem string

const (
	CommonJS ModuleSystem = "commonjs" // require("...") 调用
	ESModule ModuleSystem = "esmodule" // import ... from "..." 声明
)

// Grammar 标识解析源码时使用的语法变体
type Grammar string

const (
	Script Grammar = "script" // 脚本语法: 不允许 import/export 声明
	Module Grammar = "module" // 模块语法: 严格模式, 允许 import/export
)

// Grammar 返回该模块系统对应的语法变体
func (s ModuleSystem) Grammar() Grammar {
	if s == ESModule {
		return Module
	}
	return Script
}

// ParseModuleSystem 将命令行/配置中的名称转换为 ModuleSystem
func ParseModuleSystem(name string) (ModuleSystem, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "commonjs", "cjs", "require":
		return CommonJS, nil
	case "esmodule", "esm", "es", "es2015", "module":
		return ESModule, nil
	default:
		return "", fmt.Errorf("unknown module system %q", name)
	}
}

// langMap 存储语言标识到 Tree-sitter 语言对象的映射
var langMap = make(map[Language]*sitter.Language)

// RegisterLanguage 用于注册 Tree-sitter 语言库
func RegisterLanguage(lang Language, tsLang *sitter.Language) {
	langMap[lang] = tsLang
}

// GetLanguage 获取已注册的 Tree-sitter 语言对象
func GetLanguage(lang Language) (*sitter.Language, error) {
	tsLang, ok := langMap[lang]
	if !ok {
		return nil, fmt.Errorf("language %s not registered", lang)
	}

	return tsLang, nil
}
