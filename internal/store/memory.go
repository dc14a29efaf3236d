package store

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/MalithGihan/protocol-extract/pkg/types"
)

const shardCount = 32

// Memory is a process-lifetime store. Ids hash onto independently locked
// shards. Entries older than ttl read as not found even before the janitor
// sweeps them; a zero ttl never expires.
type Memory struct {
	shards [shardCount]*memShard
	ttl    time.Duration
}

type memShard struct {
	mu    sync.RWMutex
	items map[string]types.Extraction
}

func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{ttl: ttl}
	for i := range m.shards {
		m.shards[i] = &memShard{items: make(map[string]types.Extraction)}
	}
	return m
}

func (m *Memory) shard(id string) *memShard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return m.shards[h.Sum32()%shardCount]
}

func (m *Memory) Put(ctx context.Context, ex types.Extraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ex.ID == "" {
		return errors.New("extraction id is empty")
	}
	s := m.shard(ex.ID)
	s.mu.Lock()
	s.items[ex.ID] = clone(ex)
	s.mu.Unlock()
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (types.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return types.Extraction{}, err
	}
	s := m.shard(id)
	s.mu.RLock()
	ex, ok := s.items[id]
	s.mu.RUnlock()
	if !ok || (m.ttl > 0 && expired(ex, time.Now(), m.ttl)) {
		return types.Extraction{}, notFound(id)
	}
	return clone(ex), nil
}

func (m *Memory) EvictOlderThan(ctx context.Context, age time.Duration) (int, error) {
	now := time.Now()
	n := 0
	for _, s := range m.shards {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		s.mu.Lock()
		for id, ex := range s.items {
			if expired(ex, now, age) {
				delete(s.items, id)
				n++
			}
		}
		s.mu.Unlock()
	}
	return n, nil
}
