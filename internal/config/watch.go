package config

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc 在配置文件变更并通过校验后被调用。
type ReloadFunc func(cfg *Config)

// ErrorFunc 在变更后的配置无法解析或未通过校验时被调用，旧配置继续生效。
type ErrorFunc func(err error)

// Watch 读取 path 并监听其变更，返回初始配置。
// ctx 结束后不再回调；viper 内部的 fsnotify goroutine 随进程退出。
func Watch(ctx context.Context, path string, onReload ReloadFunc, onError ErrorFunc) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	v.OnConfigChange(func(event fsnotify.Event) {
		if ctx.Err() != nil {
			return
		}
		if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
			return
		}
		mu.Lock()
		defer mu.Unlock()

		next, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onReload != nil {
			onReload(next)
		}
	})
	v.WatchConfig()
	return cfg, nil
}
