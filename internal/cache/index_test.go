package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startIndex runs the actor and populates it synchronously so queries issued
// afterwards observe the listing.
func startIndex(t *testing.T, dir string) *existenceIndex {
	t.Helper()
	ix := &existenceIndex{
		ops:  make(chan func(*indexState), indexQueueSize),
		done: make(chan struct{}),
	}
	go ix.run()
	ix.populate(dir, quietLogger())
	t.Cleanup(ix.close)
	return ix
}

func TestExistenceIndexListsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "present"), []byte("v"), 0o644))

	ix := startIndex(t, dir)
	assert.True(t, ix.mayExist("present"))
	assert.False(t, ix.mayExist("absent"))
}

func TestExistenceIndexObservesInserts(t *testing.T) {
	ix := startIndex(t, t.TempDir())

	assert.False(t, ix.mayExist("new"))
	ix.observeInserted("new")
	ix.observeInserted("new")
	assert.True(t, ix.mayExist("new"))
}

func TestExistenceIndexKeepsInsertsMadeBeforeListing(t *testing.T) {
	dir := t.TempDir()
	ix := &existenceIndex{
		ops:  make(chan func(*indexState), indexQueueSize),
		done: make(chan struct{}),
	}
	go ix.run()
	t.Cleanup(ix.close)

	ix.observeInserted("early")
	assert.True(t, ix.mayExist("anything"), "unavailable index answers may-exist")

	ix.populate(dir, quietLogger())
	assert.True(t, ix.mayExist("early"))
	assert.False(t, ix.mayExist("anything"))
}

func TestExistenceIndexDisabledOnListingFailure(t *testing.T) {
	ix := startIndex(t, filepath.Join(t.TempDir(), "missing"))
	assert.True(t, ix.mayExist("whatever"))
}

func TestExistenceIndexAfterClose(t *testing.T) {
	ix := startIndex(t, t.TempDir())
	ix.close()

	ix.observeInserted("x")
	assert.True(t, ix.mayExist("absent"))
}
