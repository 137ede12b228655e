package cache

import (
	"context"
	"io/fs"
	"time"

	"github.com/tunabay/go-infounit"
)

// Storage 负责管理单个缓存目录内条目的读写与清理。磁盘布局遵循：
//
//	<Directory>/<Product>.ImageCache.<Name>/<文件名>
//
// 每个条目仅由一个正文文件组成：atime 记录最近访问时间，mtime 记录预计过期时间。
type Storage[T any] interface {
	// Store 序列化 value 并写入 key 对应的文件，同时写入访问/过期时间戳。
	Store(ctx context.Context, value T, key string, opts ...StoreOption) error

	// Load 按 opts 读取条目。条目不存在或已过期时返回 false 且 error 为 nil。
	Load(ctx context.Context, key string, opts LoadOptions) (T, bool, error)

	// IsCached 报告条目在 referenceDate 时是否存在且未过期，从不返回错误。
	IsCached(ctx context.Context, key string, referenceDate time.Time) bool

	// Remove 删除单个条目，文件系统返回的错误原样包装上抛。
	Remove(ctx context.Context, key string) error

	// RemoveAll 删除整个缓存目录后重建空目录。
	RemoveAll() error

	// RemoveExpiredValues 删除在 referenceDate 时已过期的条目并返回被删路径。
	RemoveExpiredValues(referenceDate time.Time) ([]string, error)

	// RemoveSizeExceededValues 在超出 SizeLimit 时按 LRU 淘汰到一半容量。
	RemoveSizeExceededValues() ([]string, error)

	// TotalSize 汇总目录内文件大小。
	TotalSize() (infounit.ByteCount, error)
}

// WriteOptions 控制正文写入方式。
type WriteOptions struct {
	// Atomic 为 true 时先写隐藏临时文件再 rename。
	Atomic bool
	// Perm 为新文件权限，0 时使用 0o644。
	Perm fs.FileMode
	// Sync 为 true 时在关闭前 fsync。
	Sync bool
}

// DefaultWriteOptions 是 Store 未指定时使用的写入方式。
var DefaultWriteOptions = WriteOptions{Atomic: true, Perm: 0o644}

type storeOptions struct {
	expiration *StorageExpiration
	write      WriteOptions
}

// StoreOption 调整单次 Store 行为。
type StoreOption func(*storeOptions)

// WithExpiration 覆盖 Config.Expiration。
func WithExpiration(expiration StorageExpiration) StoreOption {
	return func(o *storeOptions) {
		o.expiration = &expiration
	}
}

// WithWriteOptions 覆盖 DefaultWriteOptions。
func WithWriteOptions(write WriteOptions) StoreOption {
	return func(o *storeOptions) {
		o.write = write
	}
}

// LoadOptions 控制一次 Load 的参考时间、是否读取正文以及过期时间的延长方式。
type LoadOptions struct {
	// ReferenceDate 用于判断过期，零值表示当前时间。
	ReferenceDate time.Time
	// ActuallyLoad 为 false 时仅检查存在性，命中返回 Codec.Empty()。
	ActuallyLoad bool
	// Extending 仅在 ActuallyLoad 命中后生效。
	Extending ExpirationExtending
}

// Stats 是目录的即时统计。
type Stats struct {
	Entries   int
	TotalSize infounit.ByteCount
}
