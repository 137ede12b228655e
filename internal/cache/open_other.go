//go:build !linux

package cache

import "os"

func readPayload(path string) ([]byte, error) {
	return os.ReadFile(path)
}
