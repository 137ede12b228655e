package config

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/blobcache/internal/cache"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动守护进程。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
		return wrapFieldError("Global.LogLevel", "无法识别的日志级别", err)
	}
	if g.LogMaxSize < 0 {
		return newFieldError("Global.LogMaxSize", "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("Global.LogMaxBackups", "不能为负数")
	}
	if strings.ContainsAny(g.Product, `/\`) {
		return newFieldError("Global.Product", "不允许包含路径分隔符")
	}
	if g.SweepInterval.DurationValue() <= 0 {
		return newFieldError("Global.SweepInterval", "必须大于 0")
	}

	if len(c.Caches) == 0 {
		return errors.New("至少需要配置一个 Cache")
	}

	seenNames := map[string]struct{}{}
	for i := range c.Caches {
		h := &c.Caches[i]
		if h.Name == "" {
			return newFieldError("Cache[].Name", "不能为空")
		}
		if strings.ContainsAny(h.Name, `/\`) {
			return newFieldError(cacheField(h.Name, "Name"), "不允许包含路径分隔符")
		}
		if _, exists := seenNames[h.Name]; exists {
			return newFieldError(cacheField(h.Name, "Name"), "重复")
		}
		seenNames[h.Name] = struct{}{}

		if strings.ContainsAny(h.PathExtension, `/\`) {
			return newFieldError(cacheField(h.Name, "PathExtension"), "不允许包含路径分隔符")
		}
		if _, err := cache.ParseExpiration(h.Expiration); err != nil {
			return wrapFieldError(cacheField(h.Name, "Expiration"), "无法解析", err)
		}
	}

	return nil
}
