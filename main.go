package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/CodMac/go-treesitter-jsdeps/analysis"
	"github.com/CodMac/go-treesitter-jsdeps/config"
	"github.com/CodMac/go-treesitter-jsdeps/graph"
	"github.com/CodMac/go-treesitter-jsdeps/output"
	"github.com/CodMac/go-treesitter-jsdeps/processor"
	"github.com/CodMac/go-treesitter-jsdeps/watch"
	"github.com/spf13/cobra"

	// 导入所有模块系统的实现, 以触发其 init() 函数注册 Extractor 和 Language
	_ "github.com/CodMac/go-treesitter-jsdeps/x/commonjs"
	_ "github.com/CodMac/go-treesitter-jsdeps/x/esmodule"
)

// options 保存命令行参数, 非零值覆盖配置文件
type options struct {
	configPath     string
	system         string
	extensions     []string
	format         string
	workers        int
	ignoreBuiltins bool
	reExports      bool
	cacheSize      int
	outputPath     string
	verbose        bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "jsdeps",
		Short:        "静态解析 JavaScript 模块依赖图",
		Long:         "jsdeps 从入口模块出发, 解析 require(\"...\") 或 import ... from \"...\" 声明, 输出每个可达模块的依赖映射.",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML 配置文件路径")
	flags.StringVar(&opts.system, "system", "", "模块系统 (commonjs | esmodule)")
	flags.StringSliceVar(&opts.extensions, "ext", nil, "扩展名回退顺序 (默认 .js,.jsx)")
	flags.StringVar(&opts.format, "format", "", "输出格式 (json | jsonl | mermaid | dot)")
	flags.IntVar(&opts.workers, "workers", 0, "批量解析的并发协程数量 (默认 CPU 核心数)")
	flags.BoolVar(&opts.ignoreBuiltins, "ignore-builtins", false, "忽略 Node.js 内置模块 (fs, node:path ...)")
	flags.BoolVar(&opts.reExports, "reexports", false, "ES 模块: 同时跟踪 export ... from 声明")
	flags.IntVar(&opts.cacheSize, "cache-size", 0, "源码缓存容量 (0 表示不缓存)")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "输出文件路径 (默认标准输出)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(
		newResolveCmd(opts),
		newCyclesCmd(opts),
		newOrderCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <entry>...",
		Short: "解析一个或多个入口模块 (目录会被展开为其中的所有源文件)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			builder, err := cfg.NewBuilder(logger)
			if err != nil {
				return err
			}

			var entries []string
			for _, arg := range args {
				found, err := processor.DiscoverEntries(arg, builder.Extensions())
				if err != nil {
					return fmt.Errorf("failed to discover entries in %s: %w", arg, err)
				}
				entries = append(entries, found...)
			}
			if len(entries) == 0 {
				return fmt.Errorf("no source files found in %s", strings.Join(args, ", "))
			}
			logger.Info("resolving entries", slog.Int("entries", len(entries)), slog.String("system", string(builder.System())))

			proc := processor.NewEntryProcessor(builder, cfg.Workers)
			proc.Logger = logger
			results, err := proc.ProcessEntries(cmd.Context(), entries)
			if err != nil {
				return err
			}

			return withOutput(cmd, opts, func(w io.Writer) error {
				for _, res := range results {
					if err := output.Export(w, cfg.OutputFormat(), res); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newCyclesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cycles <entry>",
		Short: "列出依赖图中的环",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resolveOne(cmd, opts, args[0])
			if err != nil {
				return err
			}
			cycles, err := analysis.FindCycles(res)
			if err != nil {
				return err
			}

			return withOutput(cmd, opts, func(w io.Writer) error {
				if len(cycles) == 0 {
					_, err := fmt.Fprintln(w, "no cycles found")
					return err
				}
				for _, c := range cycles {
					loop := append(append([]string(nil), c...), c[0])
					if _, err := fmt.Fprintln(w, strings.Join(loop, " -> ")); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newOrderCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "order <entry>",
		Short: "按依赖优先的顺序列出所有模块",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resolveOne(cmd, opts, args[0])
			if err != nil {
				return err
			}
			order, err := analysis.BuildOrder(res)
			if err != nil {
				return err
			}

			return withOutput(cmd, opts, func(w io.Writer) error {
				for _, path := range order {
					if _, err := fmt.Fprintln(w, path); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <entry>",
		Short: "监听模块变化并重新输出依赖图",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			builder, err := cfg.NewBuilder(logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w, err := watch.New(builder, args[0], func(res *graph.Result, err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return
				}
				if err := output.Export(out, cfg.OutputFormat(), res); err != nil {
					logger.Error("failed to write output", slog.Any("error", err))
				}
			}, watch.WithLogger(logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}
}

// loadConfig 合并配置文件与命令行参数, 并创建日志
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, *slog.Logger, error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("system") {
		cfg.ModuleSystem = opts.system
	}
	if flags.Changed("ext") {
		cfg.Extensions = opts.extensions
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("ignore-builtins") {
		cfg.IgnoreBuiltins = opts.ignoreBuiltins
	}
	if flags.Changed("reexports") {
		cfg.ReExports = opts.reExports
	}
	if flags.Changed("cache-size") {
		cfg.CacheSize = opts.cacheSize
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func resolveOne(cmd *cobra.Command, opts *options, entry string) (*graph.Result, error) {
	cfg, logger, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	builder, err := cfg.NewBuilder(logger)
	if err != nil {
		return nil, err
	}
	return builder.Resolve(entry)
}

// withOutput 将输出写入 --output 指定的文件或标准输出
func withOutput(cmd *cobra.Command, opts *options, write func(io.Writer) error) error {
	if opts.outputPath == "" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(opts.outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
