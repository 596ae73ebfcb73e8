package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a bounded in-process capability.Cache: once size entries are
// held, the least recently used is evicted to make room for the next
// Put. Unlike Memory, it is safe to run against a workflow library with
// an unbounded number of distinct job/operator/opName combinations
// without growing without limit.
type LRU struct {
	cache *lru.Cache[string, []byte]
}

// NewLRU constructs an LRU cache holding at most size entries. size
// must be positive.
func NewLRU(size int) (*LRU, error) {
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &LRU{cache: c}, nil
}

func (l *LRU) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := l.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (l *LRU) Put(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	l.cache.Add(key, cp)
	return nil
}
