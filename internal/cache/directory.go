package cache

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
)

// resolveDirectory 计算缓存目录：显式 Directory（展开 "~"）或 Product 的用户缓存目录，
// 再拼接 <Product>.ImageCache.<Name>。
func resolveDirectory(cfg Config) (string, error) {
	root := cfg.Directory
	if root == "" {
		dir, err := gap.NewScope(gap.User, cfg.product()).CacheDir()
		if err != nil {
			return "", fmt.Errorf("resolve user cache dir: %w", err)
		}
		root = dir
	} else {
		expanded, err := homedir.Expand(root)
		if err != nil {
			return "", fmt.Errorf("expand cache dir: %w", err)
		}
		root = expanded
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(abs, cfg.cacheName()), nil
}
