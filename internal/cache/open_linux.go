//go:build linux

package cache

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// readPayload 以 O_NOATIME 打开文件，避免读取正文时内核改写作为最近访问时间的 atime。
// 非文件属主无权使用 O_NOATIME，此时退回普通打开。
func readPayload(path string) ([]byte, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|unix.O_NOATIME, 0)
	if errors.Is(err, unix.EPERM) {
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
