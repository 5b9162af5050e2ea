// Package memory provides in-memory store implementations for tests and
// store-free batch runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"token-forensics/internal/domain"
	"token-forensics/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeRecord // keyed by tx_id
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{data: make(map[string]*domain.TradeRecord)}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds one trade. Returns ErrDuplicateKey if tx_id exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TxID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TxID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *t
	s.data[t.TxID] = &cp
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.TxID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.TxID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.TxID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.TxID] = struct{}{}
	}

	for _, t := range trades {
		cp := *t
		s.data[t.TxID] = &cp
	}
	return nil
}

// GetAll retrieves every trade ordered by (timestamp, tx_id) ASC.
func (s *TradeStore) GetAll(_ context.Context) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.TradeRecord, 0, len(s.data))
	for _, t := range s.data {
		cp := *t
		out = append(out, &cp)
	}
	sortTrades(out)
	return out, nil
}

// GetByTimeRange retrieves trades within [start, end] inclusive.
func (s *TradeStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TradeRecord
	for _, t := range s.data {
		if t.Timestamp >= start && t.Timestamp <= end {
			cp := *t
			out = append(out, &cp)
		}
	}
	sortTrades(out)
	return out, nil
}

// Count returns the number of stored trades.
func (s *TradeStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

func sortTrades(trades []*domain.TradeRecord) {
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].Timestamp != trades[j].Timestamp {
			return trades[i].Timestamp < trades[j].Timestamp
		}
		return trades[i].TxID < trades[j].TxID
	})
}
