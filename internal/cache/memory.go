package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMemorySize = 1024

type memoryStore struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory returns an in-process Store backed by an expiring LRU.
func NewMemory(size int, ttl time.Duration) Store {
	if size <= 0 {
		size = defaultMemorySize
	}
	return &memoryStore{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	s.lru.Add(key, value)
	return nil
}
