package storage

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Pool hands out one shared Store per database file within a process. SQLite
// permits a single writer per connection, so every component pointing at the
// same file must go through the same handle; the pool owns the handles and
// closes them only when the owning application tears it down.
type Pool struct {
	mu     sync.Mutex
	stores map[string]*Store
	group  singleflight.Group
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{stores: make(map[string]*Store)}
}

// Acquire returns the Store for dbPath, opening and migrating the database on
// first use. Concurrent first acquisitions of the same path are collapsed
// into one open.
func (p *Pool) Acquire(dbPath string) (*Store, error) {
	p.mu.Lock()
	if s, ok := p.stores[dbPath]; ok {
		p.mu.Unlock()
		return s, nil
	}
	p.mu.Unlock()

	v, err, _ := p.group.Do(dbPath, func() (interface{}, error) {
		p.mu.Lock()
		if s, ok := p.stores[dbPath]; ok {
			p.mu.Unlock()
			return s, nil
		}
		p.mu.Unlock()

		s, err := NewStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open store %s: %w", dbPath, err)
		}

		p.mu.Lock()
		p.stores[dbPath] = s
		p.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

// Close closes every pooled store. The first error is returned but all
// stores are attempted.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var first error
	for path, s := range p.stores {
		if err := s.Close(); err != nil && first == nil {
			first = fmt.Errorf("failed to close store %s: %w", path, err)
		}
		delete(p.stores, path)
	}
	return first
}
