package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/any-hub/blobcache/internal/cache"
)

const defaultSweepInterval = 10 * time.Minute

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

func newViper(path string) (*viper.Viper, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}
	return v, nil
}

// decode 将 viper 当前内容转换为 Config，Load 与热加载共用。
func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hooks := mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		sizeDecodeHook(),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hooks)); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	for i := range cfg.Caches {
		applyCacheDefaults(&cfg.Caches[i])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("Product", cache.DefaultProduct)
	v.SetDefault("SweepInterval", "10m")
}

func applyGlobalDefaults(g *GlobalConfig) {
	g.LogLevel = strings.ToLower(strings.TrimSpace(g.LogLevel))
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	if strings.TrimSpace(g.Product) == "" {
		g.Product = cache.DefaultProduct
	}
	if g.SweepInterval.DurationValue() == 0 {
		g.SweepInterval = Duration(defaultSweepInterval)
	}
}

func applyCacheDefaults(h *CacheConfig) {
	h.Name = strings.TrimSpace(h.Name)
	h.Expiration = strings.TrimSpace(h.Expiration)
	h.PathExtension = strings.TrimPrefix(strings.TrimSpace(h.PathExtension), ".")
	if h.Expiration == "" {
		h.Expiration = "7d"
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			parsed, err := parseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
			}
			return parsed, nil
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}

func sizeDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Size(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			parsed, err := parseSize(v)
			if err != nil {
				return nil, fmt.Errorf("无法解析 Size 字段: %s", v)
			}
			return parsed, nil
		case int:
			if v < 0 {
				return nil, fmt.Errorf("Size 不能为负数: %d", v)
			}
			return Size(v), nil
		case int64:
			if v < 0 {
				return nil, fmt.Errorf("Size 不能为负数: %d", v)
			}
			return Size(v), nil
		case uint64:
			return Size(v), nil
		case float64:
			if v < 0 {
				return nil, fmt.Errorf("Size 不能为负数: %v", v)
			}
			return Size(v), nil
		case Size:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Size 类型: %T", v)
		}
	}
}
