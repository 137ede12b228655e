package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/blobcache/internal/cache"
	"github.com/any-hub/blobcache/internal/config"
	"github.com/any-hub/blobcache/internal/logging"
	"github.com/any-hub/blobcache/internal/version"
)

// runDaemon 周期性清理所有缓存，监听配置变更并在收到 SIGINT/SIGTERM 时退出。
func runDaemon(opts cliOptions, cfg *config.Config, logger *logging.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, opts, cfg, logger)
}

// serve 是 runDaemon 去掉信号处理后的主体，测试直接调用。
func serve(ctx context.Context, opts cliOptions, cfg *config.Config, logger *logging.Logger) int {
	set, err := openBackends(cfg, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化缓存失败: %v\n", err)
		return 1
	}
	defer set.close()

	sweeper := cache.NewSweeper(cfg.Global.SweepInterval.DurationValue(), logger, set.sweepables()...)

	_, err = config.Watch(ctx, opts.configPath,
		func(next *config.Config) { sweeper.Apply(func() { applyReload(next, set, logger, opts.logLevel) }) },
		func(err error) {
			logger.WithFields(logging.BaseFields("reload", opts.configPath)).WithError(err).Warn("config_reload_rejected")
		},
	)
	if err != nil {
		logger.WithFields(logging.BaseFields("watch", opts.configPath)).WithError(err).Warn("config_watch_disabled")
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["caches"] = config.CacheNames(cfg.Caches)
	fields["sweep_interval"] = cfg.Global.SweepInterval.DurationValue().String()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("daemon_started")

	if err := sweeper.Run(ctx); err != nil {
		logger.WithError(err).Error("daemon_stopped")
		return 1
	}
	logger.WithFields(logging.BaseFields("shutdown", opts.configPath)).Info("daemon_stopped")
	return 0
}

// applyReload 把新配置中可在线调整的字段同步到已打开的缓存。
// 新增或删除的缓存需要重启才会生效。
func applyReload(next *config.Config, set *backendSet, logger *logging.Logger, levelOverride string) {
	if levelOverride == "" {
		if err := logger.SetLevelText(next.Global.LogLevel); err != nil {
			logger.WithError(err).Warn("config_reload_log_level")
		}
	}
	for _, h := range next.Caches {
		b, ok := set.get(h.Name)
		if !ok {
			logger.WithField("cache", h.Name).Warn("config_reload_new_cache_ignored")
			continue
		}
		b.SetSizeLimit(h.SizeLimit.ByteCount())
		b.SetExpiration(h.StorageExpiration())
		logger.WithFields(logging.CacheFields(h, b.Directory())).Info("config_reloaded")
	}
	if len(next.Caches) != len(set.order) {
		logger.WithFields(logrus.Fields{
			"configured": len(next.Caches),
			"running":    len(set.order),
		}).Warn("config_reload_requires_restart")
	}
}
