package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tunabay/go-infounit"

	"github.com/any-hub/blobcache/internal/cache"
)

// Duration 提供更灵活的反序列化能力，兼容纯秒整数、Go Duration 字符串与 "7d" 天数写法。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m"、"7d" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

func parseDuration(text string) (Duration, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return Duration(0), nil
	}
	if parsed, err := time.ParseDuration(raw); err == nil {
		return Duration(parsed), nil
	}
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil {
			return Duration(time.Duration(n) * 24 * time.Hour), nil
		}
	}
	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		return Duration(time.Duration(seconds * float64(time.Second))), nil
	}
	return 0, fmt.Errorf("invalid duration value: %s", raw)
}

// Size 表示字节数，支持 "512MB"、"1 GiB" 或纯整数字节。
type Size uint64

// UnmarshalText 通过 go-humanize 解析带单位的容量。
func (s *Size) UnmarshalText(text []byte) error {
	parsed, err := parseSize(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ByteCount 转换为缓存包使用的单位类型。
func (s Size) ByteCount() infounit.ByteCount {
	return infounit.ByteCount(s)
}

// String 以人类可读形式输出，例如 "512 MB"。
func (s Size) String() string {
	return humanize.Bytes(uint64(s))
}

func parseSize(text string) (Size, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid size value: %s", raw)
	}
	return Size(n), nil
}

// GlobalConfig 描述全局运行时行为，所有缓存共享同一份参数。
type GlobalConfig struct {
	LogLevel      string   `mapstructure:"LogLevel"`
	LogFilePath   string   `mapstructure:"LogFilePath"`
	LogMaxSize    int      `mapstructure:"LogMaxSize"`
	LogMaxBackups int      `mapstructure:"LogMaxBackups"`
	LogCompress   bool     `mapstructure:"LogCompress"`
	Product       string   `mapstructure:"Product"`
	SweepInterval Duration `mapstructure:"SweepInterval"`
}

// CacheConfig 决定单个磁盘缓存目录的命名、容量与过期策略。
type CacheConfig struct {
	Name                       string `mapstructure:"Name"`
	Directory                  string `mapstructure:"Directory"`
	SizeLimit                  Size   `mapstructure:"SizeLimit"`
	Expiration                 string `mapstructure:"Expiration"`
	PathExtension              string `mapstructure:"PathExtension"`
	UsesHashedFileName         bool   `mapstructure:"UsesHashedFileName"`
	AutoExtAfterHashedFileName bool   `mapstructure:"AutoExtAfterHashedFileName"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig  `mapstructure:",squash"`
	Caches []CacheConfig `mapstructure:"Cache"`
}

// StorageExpiration 解析 Expiration 字段（假定 Validate 已经通过）。
func (c CacheConfig) StorageExpiration() cache.StorageExpiration {
	expiration, err := cache.ParseExpiration(c.Expiration)
	if err != nil {
		return cache.Days(7)
	}
	return expiration
}

// BackendConfig 把缓存配置转换为 cache.Config，Product 取全局值。
func (c *Config) BackendConfig(h CacheConfig) cache.Config {
	return cache.Config{
		Name:                       h.Name,
		SizeLimit:                  h.SizeLimit.ByteCount(),
		Expiration:                 h.StorageExpiration(),
		PathExtension:              h.PathExtension,
		UsesHashedFileName:         h.UsesHashedFileName,
		AutoExtAfterHashedFileName: h.AutoExtAfterHashedFileName,
		Directory:                  h.Directory,
		Product:                    c.Global.Product,
	}
}

// FindCache 按名称查找缓存配置。
func (c *Config) FindCache(name string) (CacheConfig, bool) {
	for _, h := range c.Caches {
		if h.Name == name {
			return h, true
		}
	}
	return CacheConfig{}, false
}

// CacheNames 返回所有缓存名称，供日志字段使用。
func CacheNames(caches []CacheConfig) []string {
	if len(caches) == 0 {
		return nil
	}
	names := make([]string, len(caches))
	for i, h := range caches {
		names[i] = h.Name
	}
	return names
}
