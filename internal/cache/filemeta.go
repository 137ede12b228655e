package cache

import (
	"errors"
	"os"
	"time"
)

var errNoAccessTime = errors.New("access time unavailable on this platform")

// fileMeta 是从文件时间戳推导出的条目元数据，atime 为最近访问，mtime 为预计过期。
type fileMeta struct {
	path       string
	isDir      bool
	size       int64
	lastAccess time.Time
	expiration time.Time
	// accessOK 为 false 时无法读取 atime，LRU 淘汰会跳过该条目。
	accessOK bool
}

// expired 在 reference 不早于过期时间时为 true；过期时间不可读时按已过期处理。
func (m fileMeta) expired(reference time.Time) bool {
	if m.expiration.IsZero() {
		return true
	}
	return !reference.Before(m.expiration)
}

// extendExpiration 按 ext 重写两个时间戳。ExtendCacheTime 保持原有 TTL 长度。
func (m fileMeta) extendExpiration(ext ExpirationExtending, now time.Time) error {
	var expiration StorageExpiration
	switch ext.mode {
	case extendNone:
		return nil
	case extendCacheTime:
		if !m.accessOK || m.expiration.IsZero() {
			return errNoAccessTime
		}
		if !m.expiration.Before(distantFuture) {
			expiration = Never()
		} else {
			expiration = After(m.expiration.Sub(m.lastAccess))
		}
	case extendExplicit:
		expiration = ext.expiration
	}
	return stampTimes(m.path, now, expiration.EstimatedExpirationSince(now))
}

// stampTimes 写入最近访问时间与预计过期时间，测试中可替换以模拟失败。
var stampTimes = func(path string, lastAccess, expiration time.Time) error {
	return os.Chtimes(path, lastAccess, expiration)
}
