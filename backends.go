package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/blobcache/internal/cache"
	"github.com/any-hub/blobcache/internal/config"
	"github.com/any-hub/blobcache/internal/logging"
)

// backendSet 按配置顺序持有所有缓存实例，CLI 只处理原始字节。
type backendSet struct {
	order    []string
	backends map[string]*cache.Backend[[]byte]
}

// openBackends 为每个 [[Cache]] 创建 Backend；目录不可用的缓存仍会返回，
// 之后的操作会得到 KindNotReady 错误。
func openBackends(cfg *config.Config, logger logrus.FieldLogger) (*backendSet, error) {
	set := &backendSet{backends: make(map[string]*cache.Backend[[]byte], len(cfg.Caches))}
	for _, h := range cfg.Caches {
		b, err := cache.NewBackend[[]byte](cfg.BackendConfig(h), cache.BytesCodec{}, cache.WithLogger(logger))
		if err != nil {
			set.close()
			return nil, fmt.Errorf("%s: %w", h.Name, err)
		}
		fields := logging.CacheFields(h, b.Directory())
		fields["ready"] = b.Ready()
		logger.WithFields(fields).Debug("cache_opened")

		set.order = append(set.order, h.Name)
		set.backends[h.Name] = b
	}
	return set, nil
}

func (s *backendSet) get(name string) (*cache.Backend[[]byte], bool) {
	b, ok := s.backends[name]
	return b, ok
}

// each 按配置顺序遍历。
func (s *backendSet) each(fn func(b *cache.Backend[[]byte])) {
	for _, name := range s.order {
		fn(s.backends[name])
	}
}

func (s *backendSet) sweepables() []cache.Sweepable {
	targets := make([]cache.Sweepable, 0, len(s.order))
	s.each(func(b *cache.Backend[[]byte]) { targets = append(targets, b) })
	return targets
}

func (s *backendSet) close() {
	for _, b := range s.backends {
		b.Close()
	}
}
