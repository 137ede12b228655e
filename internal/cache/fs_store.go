package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tunabay/go-infounit"
)

var _ Storage[[]byte] = (*Backend[[]byte])(nil)

// Backend 是单个缓存目录上的磁盘存储引擎。
//
// 构造时目录创建失败不会返回错误，而是记录下来，之后所有读写操作都返回 KindNotReady，
// 共享同一个懒加载 Backend 的调用方不会因此崩溃。Broken 状态不可恢复，只能重新构造。
//
// 最近访问时间依赖 atime，只在 linux、darwin、freebsd、netbsd、openbsd 与 windows 上可读。
// 其他平台上 RemoveSizeExceededValues 不会淘汰任何条目，ExtendCacheTime 不生效。
type Backend[T any] struct {
	config Config
	codec  Codec[T]
	logger logrus.FieldLogger
	now    func() time.Time

	directory string
	paths     pathBuilder
	initErr   error

	index *existenceIndex
	meta  *metaWorker
}

type backendOptions struct {
	logger logrus.FieldLogger
	now    func() time.Time
}

// Option 调整 Backend 的依赖注入。
type Option func(*backendOptions)

// WithLogger 指定日志输出，默认使用 logrus.StandardLogger()。
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *backendOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock 替换时间来源，测试中用于控制写入与延长时使用的 “当前时间”。
func WithClock(now func() time.Time) Option {
	return func(o *backendOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewBackend 根据 cfg 构造 Backend。只有配置本身不合法时才返回错误。
func NewBackend[T any](cfg Config, codec Codec[T], opts ...Option) (*Backend[T], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if codec == nil {
		return nil, fmt.Errorf("%w: nil Codec", ErrInvalidConfig)
	}

	o := backendOptions{logger: logrus.StandardLogger(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Backend[T]{
		config: cfg,
		codec:  codec,
		now:    o.now,
		meta:   newMetaWorker(),
	}
	b.logger = o.logger.WithField("cache", cfg.Name)

	dir, err := resolveDirectory(cfg)
	if err != nil {
		b.initErr = newError(KindDirectoryCreationFailed, cfg.Directory, err)
		b.logger.WithError(err).Error("cache_directory_unresolved")
		return b, nil
	}
	b.directory = dir
	b.paths = newPathBuilder(dir, cfg)
	b.logger = b.logger.WithField("dir", dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.initErr = newError(KindDirectoryCreationFailed, dir, err)
		b.logger.WithError(err).Error("cache_directory_create_failed")
		return b, nil
	}

	b.index = newExistenceIndex(dir, b.logger)
	return b, nil
}

// Name 返回缓存名称。
func (b *Backend[T]) Name() string {
	return b.config.Name
}

// Directory 返回解析后的缓存目录。
func (b *Backend[T]) Directory() string {
	return b.directory
}

// Ready 报告目录是否在构造时准备就绪。
func (b *Backend[T]) Ready() bool {
	return b.initErr == nil
}

// Path 返回 key 对应的缓存文件路径，不检查文件是否存在。
func (b *Backend[T]) Path(key string) string {
	return b.paths.path(key)
}

// SizeLimit 返回当前容量上限。
func (b *Backend[T]) SizeLimit() infounit.ByteCount {
	return b.config.SizeLimit
}

// SetSizeLimit 修改容量上限。并发修改需要调用方自行同步，参见 Sweeper.Apply。
func (b *Backend[T]) SetSizeLimit(limit infounit.ByteCount) {
	b.config.SizeLimit = limit
}

// Expiration 返回默认过期策略。
func (b *Backend[T]) Expiration() StorageExpiration {
	return b.config.Expiration
}

// SetExpiration 修改默认过期策略，同步要求与 SetSizeLimit 相同。
func (b *Backend[T]) SetExpiration(expiration StorageExpiration) {
	b.config.Expiration = expiration
}

func (b *Backend[T]) checkReady() error {
	if b.initErr != nil {
		return newError(KindNotReady, b.directory, b.initErr)
	}
	return nil
}

func (b *Backend[T]) Store(ctx context.Context, value T, key string, opts ...StoreOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.checkReady(); err != nil {
		return err
	}

	o := storeOptions{write: DefaultWriteOptions}
	for _, opt := range opts {
		opt(&o)
	}
	expiration := b.config.Expiration
	if o.expiration != nil {
		expiration = *o.expiration
	}

	now := b.now()
	if expiration.IsExpired(now) {
		return nil
	}

	path := b.paths.path(key)
	data, err := b.codec.Serialize(value)
	if err != nil {
		return newError(KindValueEncodingFailed, path, err)
	}
	if err := b.write(path, data, o.write); err != nil {
		return newError(KindFileWriteFailed, path, err)
	}
	if err := stampTimes(path, now, expiration.EstimatedExpirationSince(now)); err != nil {
		os.Remove(path)
		return newError(KindAttributeWriteFailed, path, err)
	}

	b.index.observeInserted(filepath.Base(path))
	return nil
}

// write 写入正文；若缓存目录被外部删除，重建目录后只重试一次。
func (b *Backend[T]) write(path string, data []byte, opts WriteOptions) error {
	err := writeFile(path, data, opts)
	if err == nil || !isMissingDirectory(err, b.directory) {
		return err
	}

	b.logger.WithError(err).Warn("cache_directory_recreated")
	if mkErr := os.MkdirAll(b.directory, 0o755); mkErr != nil {
		return fmt.Errorf("recreate cache directory: %w", mkErr)
	}
	return writeFile(path, data, opts)
}

func (b *Backend[T]) Load(ctx context.Context, key string, opts LoadOptions) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if err := b.checkReady(); err != nil {
		return zero, false, err
	}

	path := b.paths.path(key)
	if !b.index.mayExist(filepath.Base(path)) {
		return zero, false, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return zero, false, nil
	}

	meta, err := readFileMeta(path)
	if err != nil {
		return zero, false, newError(KindAttributeReadFailed, path, err)
	}
	if meta.isDir {
		return zero, false, nil
	}

	reference := opts.ReferenceDate
	if reference.IsZero() {
		reference = b.now()
	}
	if meta.expired(reference) {
		return zero, false, nil
	}
	if !opts.ActuallyLoad {
		return b.codec.Empty(), true, nil
	}

	data, err := readPayload(path)
	if err != nil {
		return zero, false, newError(KindFileReadFailed, path, err)
	}
	value, err := b.codec.Deserialize(data)
	if err != nil {
		return zero, false, newError(KindValueDecodingFailed, path, err)
	}

	b.extend(meta, opts.Extending)
	return value, true, nil
}

// Value 读取当前未过期的值，并按原 TTL 长度滑动延长过期时间。
func (b *Backend[T]) Value(ctx context.Context, key string) (T, bool, error) {
	return b.Load(ctx, key, LoadOptions{ActuallyLoad: true, Extending: ExtendCacheTime})
}

func (b *Backend[T]) IsCached(ctx context.Context, key string, referenceDate time.Time) bool {
	_, ok, err := b.Load(ctx, key, LoadOptions{ReferenceDate: referenceDate})
	return err == nil && ok
}

func (b *Backend[T]) extend(meta fileMeta, ext ExpirationExtending) {
	if ext.mode == extendNone {
		return
	}
	b.meta.submit(func() {
		if err := meta.extendExpiration(ext, b.now()); err != nil {
			b.logger.WithError(err).WithField("path", meta.path).Warn("cache_extend_expiration_failed")
		}
	})
}

func (b *Backend[T]) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.checkReady(); err != nil {
		return err
	}
	path := b.paths.path(key)
	if err := os.Remove(path); err != nil {
		return newError(KindFileRemoveFailed, path, err)
	}
	return nil
}

func (b *Backend[T]) RemoveAll() error {
	return b.removeAll(false)
}

// Destroy 删除缓存目录且不再重建，随后关闭后台 goroutine。
func (b *Backend[T]) Destroy() error {
	err := b.removeAll(true)
	b.Close()
	return err
}

func (b *Backend[T]) removeAll(skipCreatingDirectory bool) error {
	if err := b.checkReady(); err != nil {
		return err
	}
	if err := os.RemoveAll(b.directory); err != nil {
		return newError(KindFileRemoveFailed, b.directory, err)
	}
	if skipCreatingDirectory {
		return nil
	}
	if err := os.MkdirAll(b.directory, 0o755); err != nil {
		return newError(KindDirectoryCreationFailed, b.directory, err)
	}
	return nil
}

// Close 停止索引与元数据写入 goroutine，已排队的延长写入会先执行完。可重复调用。
func (b *Backend[T]) Close() {
	b.meta.close()
	if b.index != nil {
		b.index.close()
	}
}
