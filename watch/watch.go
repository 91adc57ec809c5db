package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/CodMac/go-treesitter-jsdeps/graph"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 是文件变化合并窗口的默认时长
const DefaultDebounce = 200 * time.Millisecond

// Handler 在每次重新解析后被调用; 解析失败时 res 为 nil
type Handler func(res *graph.Result, err error)

// Option 配置 Watcher
type Option func(*Watcher)

// WithDebounce 设置合并窗口
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger 设置结构化日志
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher 监听依赖图中所有模块所在目录, 变化后重新解析入口模块
type Watcher struct {
	builder  *graph.Builder
	entry    string
	handler  Handler
	debounce time.Duration
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	dirs    map[string]bool
	modules map[string]bool
}

// New 创建 Watcher, Run 之前不会开始监听
func New(builder *graph.Builder, entry string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch handler must not be nil")
	}
	entryAbs, err := filepath.Abs(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entry %s: %w", entry, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		builder:  builder,
		entry:    entryAbs,
		handler:  handler,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
		watcher:  fw,
		dirs:     make(map[string]bool),
		modules:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run 先解析一次, 之后在每批文件变化后重新解析, 直到 ctx 结束
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.addDir(filepath.Dir(w.entry)); err != nil {
		return err
	}
	w.rebuild()

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("module change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", slog.Any("error", err))
		case <-timerC:
			timer = nil
			timerC = nil
			w.rebuild()
		}
	}
}

// relevant 报告事件是否可能改变依赖图: 已知模块, 或带有可解析扩展名的文件
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	path := filepath.Clean(event.Name)
	if w.modules[path] {
		return true
	}
	return slices.Contains(w.builder.Extensions(), filepath.Ext(path))
}

func (w *Watcher) rebuild() {
	res, err := w.builder.Resolve(w.entry)
	if err != nil {
		w.logger.Warn("failed to resolve dependency graph", slog.String("entry", w.entry), slog.Any("error", err))
		w.handler(nil, err)
		return
	}

	w.modules = make(map[string]bool, res.Len())
	for _, path := range res.Paths() {
		w.modules[path] = true
		if err := w.addDir(filepath.Dir(path)); err != nil {
			w.logger.Warn("failed to watch directory", slog.String("dir", filepath.Dir(path)), slog.Any("error", err))
		}
	}
	w.handler(res, nil)
}

func (w *Watcher) addDir(dir string) error {
	if w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dirs[dir] = true
	return nil
}

// Dirs 返回当前监听的目录 (按字典序)
func (w *Watcher) Dirs() []string {
	dirs := make([]string, 0, len(w.dirs))
	for dir := range w.dirs {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	return dirs
}
