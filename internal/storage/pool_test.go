package storage

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SharesHandle(t *testing.T) {
	pool := NewPool()
	defer func() { _ = pool.Close() }()

	dbPath := filepath.Join(t.TempDir(), "tm.db")

	a, err := pool.Acquire(dbPath)
	require.NoError(t, err)
	b, err := pool.Acquire(dbPath)
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestPool_DistinctFiles(t *testing.T) {
	pool := NewPool()
	defer func() { _ = pool.Close() }()

	dir := t.TempDir()
	a, err := pool.Acquire(filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	b, err := pool.Acquire(filepath.Join(dir, "b.db"))
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestPool_ConcurrentAcquire(t *testing.T) {
	pool := NewPool()
	defer func() { _ = pool.Close() }()

	dbPath := filepath.Join(t.TempDir(), "tm.db")

	const goroutines = 8
	stores := make([]*Store, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := pool.Acquire(dbPath)
			assert.NoError(t, err)
			stores[i] = s
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, stores[0], stores[i])
	}
}

func TestPool_Close(t *testing.T) {
	pool := NewPool()

	dbPath := filepath.Join(t.TempDir(), "tm.db")
	_, err := pool.Acquire(dbPath)
	require.NoError(t, err)

	require.NoError(t, pool.Close())

	// A fresh acquire after close reopens the database.
	s, err := pool.Acquire(dbPath)
	require.NoError(t, err)
	assert.NotNil(t, s)
	require.NoError(t, pool.Close())
}
