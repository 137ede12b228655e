package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/blobcache/internal/cache"
	"github.com/any-hub/blobcache/internal/config"
	"github.com/any-hub/blobcache/internal/logging"
)

// runClear 清空指定缓存的全部条目。
func runClear(cfg *config.Config, logger *logging.Logger, name string) int {
	if _, ok := cfg.FindCache(name); !ok {
		fmt.Fprintf(stdErr, "未找到缓存: %s\n", name)
		return 1
	}
	set, err := openBackends(cfg, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化缓存失败: %v\n", err)
		return 1
	}
	defer set.close()

	b, _ := set.get(name)
	if err := b.RemoveAll(); err != nil {
		fmt.Fprintf(stdErr, "清空缓存失败: %v\n", err)
		return 1
	}
	logger.WithFields(logrus.Fields{"action": "clear", "cache": name, "dir": b.Directory()}).Info("cache_cleared")
	fmt.Fprintf(stdOut, "%s: cleared\n", name)
	return 0
}

// runSweep 对所有缓存执行一次清理，任一缓存失败时返回非零退出码。
func runSweep(cfg *config.Config, logger *logging.Logger) int {
	set, err := openBackends(cfg, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化缓存失败: %v\n", err)
		return 1
	}
	defer set.close()

	sweeper := cache.NewSweeper(cfg.Global.SweepInterval.DurationValue(), logger, set.sweepables()...)
	code := 0
	for _, result := range sweeper.SweepOnce(time.Now()) {
		if result.Err != nil {
			fmt.Fprintf(stdErr, "%s: 清理失败: %v\n", result.Cache, result.Err)
			code = 1
			continue
		}
		fmt.Fprintf(stdOut, "%s: expired=%d evicted=%d\n", result.Cache, len(result.Expired), len(result.Evicted))
	}
	return code
}

// runStats 输出每个缓存的目录、条目数与占用空间。
func runStats(cfg *config.Config, logger *logging.Logger) int {
	set, err := openBackends(cfg, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化缓存失败: %v\n", err)
		return 1
	}
	defer set.close()

	code := 0
	set.each(func(b *cache.Backend[[]byte]) {
		stats, err := b.Stats()
		if err != nil {
			fmt.Fprintf(stdErr, "%s: 统计失败: %v\n", b.Name(), err)
			code = 1
			return
		}
		limit := "unlimited"
		if b.SizeLimit() > 0 {
			limit = humanize.Bytes(uint64(b.SizeLimit()))
		}
		fmt.Fprintf(stdOut, "%s\t%s\t%s entries\t%s / %s\n",
			b.Name(), b.Directory(), humanize.Comma(int64(stats.Entries)),
			humanize.Bytes(uint64(stats.TotalSize)), limit)
	})
	return code
}
