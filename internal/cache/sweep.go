package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/petar/GoLLRB/llrb"
	"github.com/sirupsen/logrus"
	"github.com/tunabay/go-infounit"
)

// walkFiles 递归遍历缓存目录中的非隐藏普通条目。根目录无法读取时返回错误，
// 子项读取失败则跳过。
func (b *Backend[T]) walkFiles(fn func(path string, d fs.DirEntry)) error {
	err := filepath.WalkDir(b.directory, func(path string, d fs.DirEntry, err error) error {
		if path == b.directory {
			return err
		}
		switch {
		case err != nil:
			return nil
		case strings.HasPrefix(d.Name(), "."):
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		case d.IsDir():
			return nil
		}
		fn(path, d)
		return nil
	})
	if err != nil {
		return newError(KindEnumerationFailed, b.directory, err)
	}
	return nil
}

// TotalSize 汇总目录内文件大小，无法读取的文件按 0 计。
func (b *Backend[T]) TotalSize() (infounit.ByteCount, error) {
	stats, err := b.Stats()
	return stats.TotalSize, err
}

// Stats 返回条目数与总大小。
func (b *Backend[T]) Stats() (Stats, error) {
	if err := b.checkReady(); err != nil {
		return Stats{}, err
	}
	var stats Stats
	err := b.walkFiles(func(_ string, d fs.DirEntry) {
		stats.Entries++
		if info, err := d.Info(); err == nil {
			stats.TotalSize += infounit.ByteCount(info.Size())
		}
	})
	return stats, err
}

func (b *Backend[T]) RemoveExpiredValues(referenceDate time.Time) ([]string, error) {
	if err := b.checkReady(); err != nil {
		return nil, err
	}

	var expired []string
	err := b.walkFiles(func(path string, d fs.DirEntry) {
		info, err := d.Info()
		if err != nil {
			expired = append(expired, path)
			return
		}
		meta := fileMeta{path: path, expiration: info.ModTime()}
		if meta.expired(referenceDate) {
			expired = append(expired, path)
		}
	})
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(expired))
	for _, path := range expired {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			b.logger.WithError(err).WithField("path", path).Warn("cache_remove_expired_failed")
			continue
		}
		removed = append(removed, path)
	}

	if len(removed) > 0 {
		b.logger.WithField("removed", len(removed)).Info("cache_expired_sweep")
	}
	return removed, nil
}

// lruCandidate 是容量淘汰的候选条目，按最近访问时间升序排列，时间相同按路径排序。
type lruCandidate struct {
	path       string
	lastAccess time.Time
	size       infounit.ByteCount
}

func (c *lruCandidate) Less(than llrb.Item) bool {
	other := than.(*lruCandidate) //nolint:forcetypeassert
	if c.lastAccess.Equal(other.lastAccess) {
		return c.path < other.path
	}
	return c.lastAccess.Before(other.lastAccess)
}

func (b *Backend[T]) RemoveSizeExceededValues() ([]string, error) {
	if err := b.checkReady(); err != nil {
		return nil, err
	}
	limit := b.config.SizeLimit
	if limit == 0 {
		return nil, nil
	}
	size, err := b.TotalSize()
	if err != nil {
		return nil, err
	}
	if size < limit {
		return nil, nil
	}

	tree := llrb.New()
	err = b.walkFiles(func(path string, _ fs.DirEntry) {
		meta, err := readFileMeta(path)
		if err != nil || !meta.accessOK {
			return
		}
		tree.InsertNoReplace(&lruCandidate{
			path:       path,
			lastAccess: meta.lastAccess,
			size:       infounit.ByteCount(meta.size),
		})
	})
	if err != nil {
		return nil, err
	}

	target := limit / 2
	var removed []string
	for size > target && tree.Len() > 0 {
		cand := tree.DeleteMin().(*lruCandidate) //nolint:forcetypeassert
		if err := os.Remove(cand.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			b.logger.WithError(err).WithField("path", cand.path).Warn("cache_evict_failed")
			continue
		}
		if cand.size > size {
			size = 0
		} else {
			size -= cand.size
		}
		removed = append(removed, cand.path)
	}

	b.logger.WithFields(logrus.Fields{
		"removed":   len(removed),
		"limit":     fmt.Sprintf("%.1S", limit),
		"remaining": fmt.Sprintf("%.1S", size),
	}).Info("cache_size_sweep")
	return removed, nil
}
