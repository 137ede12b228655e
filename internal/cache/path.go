package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// pathBuilder 把 key 映射为缓存目录下的文件路径，纯函数且对任意 key 都有结果。
type pathBuilder struct {
	dir                 string
	extension           string
	hashed              bool
	autoExtAfterHashing bool
}

func newPathBuilder(dir string, cfg Config) pathBuilder {
	return pathBuilder{
		dir:                 dir,
		extension:           strings.TrimPrefix(cfg.PathExtension, "."),
		hashed:              cfg.UsesHashedFileName,
		autoExtAfterHashing: cfg.AutoExtAfterHashedFileName,
	}
}

func (b pathBuilder) path(key string) string {
	return filepath.Join(b.dir, b.fileName(key))
}

func (b pathBuilder) fileName(key string) string {
	name := key
	if b.hashed {
		sum := sha256.Sum256([]byte(key))
		name = hex.EncodeToString(sum[:])
	}
	if b.extension != "" {
		return name + "." + b.extension
	}
	if b.hashed && b.autoExtAfterHashing {
		if ext, ok := keyExtension(key); ok {
			return name + ext
		}
	}
	return name
}

// keyExtension 提取 key 末尾的扩展名（包含 "."），遇到 "@" 截断，例如 "a.png@2x" → ".png"。
func keyExtension(key string) (string, bool) {
	idx := strings.LastIndexByte(key, '.')
	if idx < 0 {
		return "", false
	}
	ext, _, _ := strings.Cut(key[idx:], "@")
	if len(ext) <= 1 || strings.ContainsAny(ext, `/\`) {
		return "", false
	}
	return ext, true
}
