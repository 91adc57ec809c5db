package processor

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/CodMac/go-treesitter-jsdeps/graph"
	"golang.org/x/sync/errgroup"
)

// EntryProcessor 并发解析多个互相独立的入口模块
// 每个入口拥有独立的解析会话, 只共享只读的 Builder
type EntryProcessor struct {
	Builder *graph.Builder
	Workers int // 并发协程数量
	Logger  *slog.Logger
}

// NewEntryProcessor 创建 EntryProcessor 实例
func NewEntryProcessor(builder *graph.Builder, workers int) *EntryProcessor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &EntryProcessor{
		Builder: builder,
		Workers: workers,
		Logger:  slog.New(slog.DiscardHandler),
	}
}

// ProcessEntries 解析所有入口, 结果与 entries 顺序一致
// 任一入口失败时取消尚未开始的解析, 返回第一个错误
func (p *EntryProcessor) ProcessEntries(ctx context.Context, entries []string) ([]*graph.Result, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	results := make([]*graph.Result, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)

	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := p.Builder.Resolve(entry)
			if err != nil {
				return fmt.Errorf("failed to resolve entry %s: %w", entry, err)
			}
			p.Logger.Debug("entry resolved", slog.String("entry", entry), slog.Int("modules", res.Len()))
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var ignoreList = map[string]bool{
	"node_modules": true, "bower_components": true, "vendor": true,
}

// DiscoverEntries 递归查找目录下所有扩展名匹配的文件
// 忽略隐藏目录与 ignoreList 中的目录; root 为文件时直接返回该文件
func DiscoverEntries(root string, extensions []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (d.Name()[0] == '.' || ignoreList[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(extensions, filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
