package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// writeFile 按 opts 写入 data。Atomic 模式先写入 ".cache-<uuid>" 隐藏临时文件再 rename，
// 清理任务会跳过隐藏文件，未完成的临时文件不会被当成条目。
func writeFile(path string, data []byte, opts WriteOptions) error {
	perm := opts.Perm
	if perm == 0 {
		perm = 0o644
	}
	if !opts.Atomic {
		return writeAndClose(path, data, perm, opts.Sync)
	}

	tempName := filepath.Join(filepath.Dir(path), ".cache-"+uuid.NewString())
	if err := writeAndClose(tempName, data, perm, opts.Sync); err != nil {
		os.Remove(tempName)
		return err
	}
	if err := os.Rename(tempName, path); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}

func writeAndClose(path string, data []byte, perm fs.FileMode, sync bool) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if err == nil && sync {
		err = f.Sync()
	}
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	return err
}

// isMissingDirectory 判断写入失败是否因为所在目录已被外部删除。
func isMissingDirectory(err error, dir string) bool {
	if !errors.Is(err, fs.ErrNotExist) {
		return false
	}
	_, statErr := os.Stat(dir)
	return errors.Is(statErr, fs.ErrNotExist)
}
