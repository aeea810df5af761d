// Package store defines the boundary to a persistent backing store.
//
// The core never reads or writes files itself; it only requires that a
// store supports random-access byte-range reads keyed by the big-endian
// encoding of [daggo.Id], so byte-lexicographic key order equals id order
// and span queries translate directly into key-range scans.
package store

import (
	"context"

	"github.com/hupe1980/daggo"
)

// Entry is one stored record, keyed by id.
type Entry struct {
	Id    daggo.Id
	Value []byte
}

// IdStore is the read surface a backing store must provide.
// Implementations must return entries in ascending key (= id) order.
type IdStore interface {
	// ReadRange returns every entry whose id falls inside span.
	ReadRange(ctx context.Context, span daggo.Span) ([]Entry, error)

	// ReadGroup returns every entry in the given group. Group keys share
	// a one-byte prefix, so stores can serve this as a prefix scan.
	ReadGroup(ctx context.Context, g daggo.Group) ([]Entry, error)
}
