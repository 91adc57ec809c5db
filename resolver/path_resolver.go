package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	JSFileExtension  = ".js"
	JSXFileExtension = ".jsx"
)

// DefaultExtensions 是默认的扩展名回退顺序
var DefaultExtensions = []string{JSFileExtension, JSXFileExtension}

// InvalidDependencyError 表示模块标识无法定位到一个存在的非目录文件
type InvalidDependencyError struct {
	Specifier string   // Specifier: 源码中书写的原始文本 (解析根模块时为入口路径)
	Referrer  string   // Referrer: 引用该依赖的模块路径, 根模块为空
	Candidate string   // Candidate: 拼接后尝试的绝对路径 (不含扩展名)
	Tried     []string // Tried: 按顺序尝试过的所有路径
}

func (e *InvalidDependencyError) Error() string {
	if e.Referrer == "" {
		return fmt.Sprintf("invalid dependency %q: no file at %s (tried %s)", e.Specifier, e.Candidate, strings.Join(e.Tried, ", "))
	}
	return fmt.Sprintf("invalid dependency %q in %s: no file at %s (tried %s)", e.Specifier, e.Referrer, e.Candidate, strings.Join(e.Tried, ", "))
}

// WithReferrer 返回带有原始标识与引用模块信息的副本
func (e *InvalidDependencyError) WithReferrer(specifier, referrer string) *InvalidDependencyError {
	c := *e
	c.Specifier = specifier
	c.Referrer = referrer
	return &c
}

// PathResolver 将候选模块路径解析为存在的、非目录的绝对路径
// 构造后只读, 可在多个 goroutine 间共享
type PathResolver struct {
	extensions []string
}

// NewPathResolver 创建 PathResolver, 未指定扩展名时使用 DefaultExtensions
func NewPathResolver(extensions ...string) *PathResolver {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &PathResolver{extensions: append([]string(nil), extensions...)}
}

// Extensions 返回配置的扩展名 (按尝试顺序)
func (r *PathResolver) Extensions() []string {
	return append([]string(nil), r.extensions...)
}

// Resolve 解析 candidate
// 相对路径基于 baseDir 拼接 (baseDir 为空时基于当前工作目录), 绝对路径原样使用
// 先尝试路径本身, 再按顺序尝试 路径+扩展名, 第一个存在的非目录文件胜出
func (r *PathResolver) Resolve(candidate, baseDir string) (string, error) {
	path, err := absolutePath(candidate, baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", candidate, err)
	}

	tried := make([]string, 0, len(r.extensions)+1)
	tried = append(tried, path)
	if isRegularFile(path) {
		return path, nil
	}

	for _, ext := range r.extensions {
		withExt := path + ext
		tried = append(tried, withExt)
		if isRegularFile(withExt) {
			return withExt, nil
		}
	}

	return "", &InvalidDependencyError{Specifier: candidate, Candidate: path, Tried: tried}
}

func absolutePath(candidate, baseDir string) (string, error) {
	if filepath.IsAbs(candidate) {
		return filepath.Clean(candidate), nil
	}
	if baseDir == "" {
		return filepath.Abs(candidate)
	}
	return filepath.Abs(filepath.Join(baseDir, candidate))
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
