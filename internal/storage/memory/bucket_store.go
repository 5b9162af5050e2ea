package memory

import (
	"context"
	"sort"
	"sync"

	"token-forensics/internal/intervals"
	"token-forensics/internal/storage"
)

type bucketKey struct {
	runID string
	width int64
	start int64
}

// BucketStore is an in-memory implementation of storage.BucketStore.
type BucketStore struct {
	mu   sync.RWMutex
	data map[bucketKey]*intervals.Bucket
}

// NewBucketStore creates a new in-memory bucket store.
func NewBucketStore() *BucketStore {
	return &BucketStore{data: make(map[bucketKey]*intervals.Bucket)}
}

// Compile-time interface check.
var _ storage.BucketStore = (*BucketStore)(nil)

// InsertBulk adds the buckets of one run and width. Fails entire batch on
// any duplicate key.
func (s *BucketStore) InsertBulk(_ context.Context, runID string, buckets []*intervals.Bucket) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(buckets) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[bucketKey]struct{}, len(buckets))
	for _, b := range buckets {
		if b == nil {
			return storage.ErrInvalidInput
		}
		k := bucketKey{runID, b.Width, b.Start}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, b := range buckets {
		cp := *b
		s.data[bucketKey{runID, b.Width, b.Start}] = &cp
	}
	return nil
}

// GetByRun retrieves a run's buckets of the given width, ordered by start ASC.
func (s *BucketStore) GetByRun(_ context.Context, runID string, width int64) ([]*intervals.Bucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*intervals.Bucket
	for k, b := range s.data {
		if k.runID == runID && k.width == width {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out, nil
}
