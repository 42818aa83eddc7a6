package storage

import (
	"bytes"
	"context"
	"sync"
)

// MemoryRepository keeps everything in process memory. Values are copied on
// the way in and out.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string]map[string][]byte)}
}

func (r *MemoryRepository) Get(_ context.Context, ns, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[ns][key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (r *MemoryRepository) Set(_ context.Context, ns, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.data[ns]
	if !ok {
		bucket = make(map[string][]byte)
		r.data[ns] = bucket
	}
	v := bytes.Clone(value)
	if v == nil {
		v = []byte{}
	}
	bucket[key] = v
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, ns string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket := r.data[ns]
	for _, key := range keys {
		delete(bucket, key)
	}
	if len(bucket) == 0 {
		delete(r.data, ns)
	}
	return nil
}

func (r *MemoryRepository) List(_ context.Context, ns string) (map[string][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]byte, len(r.data[ns]))
	for k, v := range r.data[ns] {
		out[k] = bytes.Clone(v)
	}
	return out, nil
}

func (r *MemoryRepository) Clear(_ context.Context, ns string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, ns)
	return nil
}

func (r *MemoryRepository) Close() error { return nil }
