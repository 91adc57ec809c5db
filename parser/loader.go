package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SourceLoader 按路径读取模块源码
type SourceLoader interface {
	Load(path string) ([]byte, error)
}

// LoadError 表示模块源码无法读取
// 文件不存在时 errors.Is(err, fs.ErrNotExist) 为 true, 其余均视为 IO 错误
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.NotFound() {
		return fmt.Sprintf("module source not found: %s", e.Path)
	}
	return fmt.Sprintf("failed to read module source %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NotFound 报告该错误是否由文件不存在引起
func (e *LoadError) NotFound() bool { return errors.Is(e.Err, fs.ErrNotExist) }

// FileLoader 从本地文件系统读取源码
type FileLoader struct{}

func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

func (l *FileLoader) Load(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return content, nil
}

type cachedSource struct {
	modTime time.Time
	size    int64
	content []byte
}

// CachingLoader 在 FileLoader 之上按 (路径, 修改时间, 大小) 缓存源码
// 用于批量/监听模式下多次解析之间复用文件内容, 并发安全
type CachingLoader struct {
	next  SourceLoader
	cache *lru.Cache[string, cachedSource]
}

// NewCachingLoader 创建容量为 size 的缓存加载器, next 为 nil 时使用 FileLoader
func NewCachingLoader(size int, next SourceLoader) (*CachingLoader, error) {
	if next == nil {
		next = NewFileLoader()
	}
	cache, err := lru.New[string, cachedSource](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create source cache: %w", err)
	}
	return &CachingLoader{next: next, cache: cache}, nil
}

func (l *CachingLoader) Load(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		l.cache.Remove(path)
		return nil, &LoadError{Path: path, Err: err}
	}

	if entry, ok := l.cache.Get(path); ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.content, nil
	}

	content, err := l.next.Load(path)
	if err != nil {
		return nil, err
	}
	l.cache.Add(path, cachedSource{modTime: info.ModTime(), size: info.Size(), content: content})
	return content, nil
}

// Len 返回当前缓存的文件数
func (l *CachingLoader) Len() int { return l.cache.Len() }
