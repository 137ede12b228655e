package cache

import (
	"fmt"
	"strings"

	"github.com/tunabay/go-infounit"
)

// DefaultProduct 是缓存目录名的默认命名空间前缀。
const DefaultProduct = "blobcache"

// Config 描述单个磁盘缓存的参数。Backend 构造时会复制一份，调用方后续修改不影响已创建的实例。
type Config struct {
	// Name 标识缓存，参与目录名 <Product>.ImageCache.<Name> 的拼接，不可为空。
	Name string

	// SizeLimit 是磁盘总占用上限，0 表示不限制。超出后 RemoveSizeExceededValues
	// 会按最近访问时间淘汰到上限的一半。
	SizeLimit infounit.ByteCount

	// Expiration 是 Store 未显式指定时采用的默认过期策略。
	Expiration StorageExpiration

	// PathExtension 不为空时追加到每个文件名之后。
	PathExtension string

	// UsesHashedFileName 为 true 时以 key 的 SHA-256 作为文件名。
	UsesHashedFileName bool

	// AutoExtAfterHashedFileName 为 true 且未设置 PathExtension 时，
	// 从原始 key 中提取扩展名追加到哈希文件名之后。
	AutoExtAfterHashedFileName bool

	// Directory 覆盖缓存根目录，支持 "~" 前缀；为空时使用 Product 对应的用户缓存目录。
	Directory string

	// Product 是目录命名空间，为空时使用 DefaultProduct。
	Product string
}

// DefaultConfig 返回带常用默认值的配置：7 天过期、哈希文件名、不限容量。
func DefaultConfig(name string) Config {
	return Config{
		Name:               name,
		Expiration:         Days(7),
		UsesHashedFileName: true,
	}
}

func (c Config) validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: empty Name", ErrInvalidConfig)
	case strings.ContainsAny(c.Name, `/\`):
		return fmt.Errorf("%w: Name must not contain path separators", ErrInvalidConfig)
	case strings.ContainsAny(c.PathExtension, `/\`):
		return fmt.Errorf("%w: PathExtension must not contain path separators", ErrInvalidConfig)
	}
	return nil
}

func (c Config) product() string {
	if p := strings.TrimSpace(c.Product); p != "" {
		return p
	}
	return DefaultProduct
}

// cacheName 返回目录末级名称，形如 blobcache.ImageCache.avatars。
func (c Config) cacheName() string {
	return fmt.Sprintf("%s.ImageCache.%s", c.product(), c.Name)
}
