package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathBuilderFileName(t *testing.T) {
	const abcHash = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

	testCases := []struct {
		name string
		cfg  Config
		key  string
		want string
	}{
		{"raw key", Config{}, "avatar", "avatar"},
		{"raw key with extension", Config{PathExtension: "png"}, "avatar", "avatar.png"},
		{"dotted extension", Config{PathExtension: ".png"}, "avatar", "avatar.png"},
		{"hashed", Config{UsesHashedFileName: true}, "abc", abcHash},
		{"hashed with extension", Config{UsesHashedFileName: true, PathExtension: "bin"}, "abc", abcHash + ".bin"},
		{"hashed auto ext ignored without flag", Config{UsesHashedFileName: true}, "abc.png", ""},
		{"explicit extension wins", Config{UsesHashedFileName: true, AutoExtAfterHashedFileName: true, PathExtension: "bin"}, "abc", abcHash + ".bin"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := newPathBuilder("/cache", tc.cfg)
			got := b.fileName(tc.key)
			if tc.want == "" {
				assert.Len(t, got, 64)
				return
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, filepath.Join("/cache", tc.want), b.path(tc.key))
		})
	}
}

func TestPathBuilderAutoExtension(t *testing.T) {
	b := newPathBuilder("/cache", Config{UsesHashedFileName: true, AutoExtAfterHashedFileName: true})

	assert.Equal(t, ".png", filepath.Ext(b.fileName("https://example.com/a.png")))
	assert.Equal(t, ".png", filepath.Ext(b.fileName("https://example.com/a.png@2x")))
	assert.Len(t, b.fileName("no-extension"), 64)
	assert.Len(t, b.fileName("trailing."), 64)
	assert.Len(t, b.fileName("https://example.com/dir.v2/file"), 64)
}

func TestPathBuilderDeterministic(t *testing.T) {
	b := newPathBuilder("/cache", Config{UsesHashedFileName: true})
	assert.Equal(t, b.path("key"), b.path("key"))
	assert.NotEqual(t, b.path("key"), b.path("key2"))
}
