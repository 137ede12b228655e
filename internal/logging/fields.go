package logging

import (
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/blobcache/internal/config"
)

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// CacheFields 描述单个缓存目录的关键参数，启动与热加载时输出。
func CacheFields(c config.CacheConfig, directory string) logrus.Fields {
	limit := "unlimited"
	if c.SizeLimit > 0 {
		limit = humanize.Bytes(uint64(c.SizeLimit))
	}
	return logrus.Fields{
		"cache":      c.Name,
		"directory":  directory,
		"size_limit": limit,
		"expiration": c.Expiration,
		"hashed":     c.UsesHashedFileName,
	}
}
