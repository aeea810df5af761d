package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"sort"
	"sync"

	"github.com/hupe1980/daggo"
)

// MemStore is an in-memory IdStore backed by a sorted key list.
//
// It stores keys as raw big-endian bytes and scans them with
// bytes.Compare on purpose: it doubles as the reference that byte order
// and id order agree, which is the property any real backend relies on.
type MemStore struct {
	mu     sync.RWMutex
	keys   [][8]byte // sorted ascending, unique
	values map[[8]byte][]byte
	logger *daggo.Logger
}

// NewMemStore creates an empty in-memory store.
// A nil logger disables logging.
func NewMemStore(logger *daggo.Logger) *MemStore {
	if logger == nil {
		logger = daggo.NoopLogger()
	}
	return &MemStore{
		values: make(map[[8]byte][]byte),
		logger: logger,
	}
}

// Put inserts or replaces the value stored under id.
func (s *MemStore) Put(ctx context.Context, id daggo.Id, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := id.ToByteArray()
	if _, exists := s.values[key]; !exists {
		i := sort.Search(len(s.keys), func(i int) bool {
			return bytes.Compare(s.keys[i][:], key[:]) >= 0
		})
		s.keys = append(s.keys, [8]byte{})
		copy(s.keys[i+1:], s.keys[i:])
		s.keys[i] = key
	}
	s.values[key] = value
	return nil
}

// ReadRange returns every entry whose id falls inside span, ascending.
func (s *MemStore) ReadRange(ctx context.Context, span daggo.Span) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	lowKey := span.Low.ToByteArray()
	highKey := span.High.ToByteArray()
	start := sort.Search(len(s.keys), func(i int) bool {
		return bytes.Compare(s.keys[i][:], lowKey[:]) >= 0
	})

	var entries []Entry
	for i := start; i < len(s.keys); i++ {
		if bytes.Compare(s.keys[i][:], highKey[:]) > 0 {
			break
		}
		entries = append(entries, s.entryAt(i))
	}
	s.logger.WithSpan(span).Debug("range scan", "hits", len(entries))
	return entries, nil
}

// ReadGroup returns every entry of the group, ascending. Served as a
// prefix match on the first key byte.
func (s *MemStore) ReadGroup(ctx context.Context, g daggo.Group) ([]Entry, error) {
	return s.ReadRange(ctx, g.Span())
}

// Ids returns the stored ids as a span set.
func (s *MemStore) Ids() daggo.SpanSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	asc := daggo.EmptySpanSetAsc()
	for i := range s.keys {
		asc.PushSpan(daggo.SingleSpan(s.entryAt(i).Id))
	}
	return asc.SpanSet()
}

func (s *MemStore) entryAt(i int) Entry {
	key := s.keys[i]
	id := daggo.Id(binary.BigEndian.Uint64(key[:]))
	return Entry{Id: id, Value: s.values[key]}
}
