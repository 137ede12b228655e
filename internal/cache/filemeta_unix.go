//go:build linux || darwin || freebsd || netbsd || openbsd

package cache

import (
	"time"

	"golang.org/x/sys/unix"
)

// readFileMeta 通过一次 lstat 取得大小、类型、atime 与 mtime。
func readFileMeta(path string) (fileMeta, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return fileMeta{}, err
	}
	return fileMeta{
		path:       path,
		isDir:      st.Mode&unix.S_IFMT == unix.S_IFDIR,
		size:       st.Size,
		lastAccess: time.Unix(st.Atim.Unix()),
		expiration: time.Unix(st.Mtim.Unix()),
		accessOK:   true,
	}, nil
}
