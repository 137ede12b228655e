package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/any-hub/blobcache/internal/config"
	"github.com/any-hub/blobcache/internal/logging"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	logLevel    string
	checkOnly   bool
	showVersion bool
	sweepOnce   bool
	showStats   bool
	clearName   string
}

// envOptions 是允许通过环境变量覆盖的设置。
type envOptions struct {
	ConfigPath string `env:"BLOBCACHE_CONFIG"`
	LogLevel   string `env:"BLOBCACHE_LOG_LEVEL"`
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		if fe, ok := config.AsFieldError(err); ok {
			fmt.Fprintf(stdErr, "配置字段 %s 无效: %v\n", fe.Field, err)
			return 1
		}
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global, opts.logLevel)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}
	defer logger.Close()

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["caches"] = config.CacheNames(cfg.Caches)
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	switch {
	case opts.clearName != "":
		return runClear(cfg, logger, opts.clearName)
	case opts.sweepOnce:
		return runSweep(cfg, logger)
	case opts.showStats:
		return runStats(cfg, logger)
	default:
		return runDaemon(opts, cfg, logger)
	}
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径与日志级别。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("blobcache", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts cliOptions
	var configFlag string
	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 BLOBCACHE_CONFIG 覆盖）")
	fs.BoolVar(&opts.checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&opts.showVersion, "version", false, "显示版本信息")
	fs.BoolVar(&opts.sweepOnce, "sweep", false, "对所有缓存执行一次过期清理与容量淘汰后退出")
	fs.BoolVar(&opts.showStats, "stats", false, "输出每个缓存的条目数与占用空间")
	fs.StringVar(&opts.clearName, "clear", "", "清空指定名称的缓存")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}
	if fs.NArg() > 0 {
		return cliOptions{}, fmt.Errorf("解析参数失败: 多余的参数 %v", fs.Args())
	}

	envOpts, err := env.ParseAs[envOptions]()
	if err != nil {
		return cliOptions{}, fmt.Errorf("解析环境变量失败: %w", err)
	}

	opts.configPath = envOpts.ConfigPath
	if configFlag != "" {
		opts.configPath = configFlag
	}
	if opts.configPath == "" {
		opts.configPath = "config.toml"
	}
	opts.logLevel = envOpts.LogLevel

	return opts, nil
}
