//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !windows

package cache

import "os"

// readFileMeta 在此类平台上只能读取 mtime；accessOK 恒为 false，
// 因此容量淘汰不会选中任何条目，ExtendCacheTime 也会失败。

func readFileMeta(path string) (fileMeta, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return fileMeta{}, err
	}
	return fileMeta{
		path:       path,
		isDir:      info.IsDir(),
		size:       info.Size(),
		expiration: info.ModTime(),
	}, nil
}
