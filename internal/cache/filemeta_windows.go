//go:build windows

package cache

import (
	"os"
	"syscall"
	"time"
)

func readFileMeta(path string) (fileMeta, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return fileMeta{}, err
	}
	meta := fileMeta{
		path:       path,
		isDir:      info.IsDir(),
		size:       info.Size(),
		expiration: info.ModTime(),
	}
	if attr, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		meta.lastAccess = time.Unix(0, attr.LastAccessTime.Nanoseconds())
		meta.accessOK = true
	}
	return meta, nil
}
