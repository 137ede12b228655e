package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunabay/go-infounit"
)

func TestRemoveSizeExceededValuesEvictsLeastRecentlyAccessed(t *testing.T) {
	backend, clock := newTestBackend(t, func(cfg *Config) {
		cfg.UsesHashedFileName = false
		cfg.SizeLimit = 1000
	})
	ctx := context.Background()

	keys := []string{"A", "B", "C", "D", "E"}
	for _, key := range keys {
		require.NoError(t, backend.Store(ctx, bytes.Repeat([]byte(key), 300), key, WithExpiration(After(time.Hour))))
		clock.Advance(time.Minute)
	}

	total, err := backend.TotalSize()
	require.NoError(t, err)
	require.Equal(t, infounit.ByteCount(1500), total)

	removed, err := backend.RemoveSizeExceededValues()
	require.NoError(t, err)
	assert.Equal(t, []string{
		backend.Path("A"),
		backend.Path("B"),
		backend.Path("C"),
		backend.Path("D"),
	}, removed)

	total, err = backend.TotalSize()
	require.NoError(t, err)
	assert.LessOrEqual(t, uint64(total), uint64(backend.SizeLimit()/2))
	assert.FileExists(t, backend.Path("E"))
}

func TestRemoveSizeExceededValuesFollowsAccessNotInsertion(t *testing.T) {
	backend, clock := newTestBackend(t, func(cfg *Config) {
		cfg.UsesHashedFileName = false
		cfg.SizeLimit = 400
	})
	ctx := context.Background()

	for _, key := range []string{"old", "new"} {
		require.NoError(t, backend.Store(ctx, bytes.Repeat([]byte("x"), 200), key, WithExpiration(After(time.Hour))))
		clock.Advance(time.Minute)
	}
	// 读取 "old" 会把它的访问时间刷新到最新
	_, ok, err := backend.Value(ctx, "old")
	require.NoError(t, err)
	require.True(t, ok)
	backend.meta.flush()

	removed, err := backend.RemoveSizeExceededValues()
	require.NoError(t, err)
	assert.Equal(t, []string{backend.Path("new")}, removed)
	assert.FileExists(t, backend.Path("old"))
}

func TestRemoveSizeExceededValuesNoop(t *testing.T) {
	unlimited, _ := newTestBackend(t, nil)
	require.NoError(t, unlimited.Store(context.Background(), bytes.Repeat([]byte("x"), 4096), "k"))
	removed, err := unlimited.RemoveSizeExceededValues()
	require.NoError(t, err)
	assert.Empty(t, removed)

	underLimit, _ := newTestBackend(t, func(cfg *Config) { cfg.SizeLimit = infounit.Kilobyte })
	require.NoError(t, underLimit.Store(context.Background(), []byte("small"), "k"))
	removed, err = underLimit.RemoveSizeExceededValues()
	require.NoError(t, err)
	assert.Empty(t, removed)
	assert.FileExists(t, underLimit.Path("k"))
}

func TestRemoveExpiredValues(t *testing.T) {
	backend, clock := newTestBackend(t, func(cfg *Config) { cfg.UsesHashedFileName = false })
	ctx := context.Background()
	now := clock.Now()

	require.NoError(t, backend.Store(ctx, []byte("v"), "fresh", WithExpiration(After(time.Hour))))
	require.NoError(t, backend.Store(ctx, []byte("v"), "stale", WithExpiration(After(10*time.Second))))

	nested := filepath.Join(backend.Directory(), "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	nestedFile := filepath.Join(nested, "old")
	require.NoError(t, os.WriteFile(nestedFile, []byte("v"), 0o644))
	require.NoError(t, stampTimes(nestedFile, now, now.Add(-time.Minute)))

	hidden := filepath.Join(backend.Directory(), ".cache-partial")
	require.NoError(t, os.WriteFile(hidden, []byte("v"), 0o644))
	require.NoError(t, stampTimes(hidden, now, now.Add(-time.Minute)))

	removed, err := backend.RemoveExpiredValues(now.Add(time.Minute))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{backend.Path("stale"), nestedFile}, removed)

	assert.NoFileExists(t, backend.Path("stale"))
	assert.NoFileExists(t, nestedFile)
	assert.FileExists(t, backend.Path("fresh"))
	assert.FileExists(t, hidden, "hidden files are never swept")
	assert.DirExists(t, nested, "directories are never swept")
}

func TestRemoveExpiredValuesMissingDirectory(t *testing.T) {
	backend, _ := newTestBackend(t, nil)
	require.NoError(t, os.RemoveAll(backend.Directory()))

	_, err := backend.RemoveExpiredValues(time.Now())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindEnumerationFailed))
}

func TestStats(t *testing.T) {
	backend, _ := newTestBackend(t, nil)
	ctx := context.Background()
	require.NoError(t, backend.Store(ctx, []byte("12345"), "a"))
	require.NoError(t, backend.Store(ctx, []byte("123"), "b"))

	stats, err := backend.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, infounit.ByteCount(8), stats.TotalSize)
}
