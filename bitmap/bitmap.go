// Package bitmap converts between span sets and Roaring bitmaps.
//
// Span sets are the right shape for contiguous ancestry data; filter-style
// consumers sometimes want bitmap semantics instead, in particular for the
// fragmented non-master group. Conversions are lossless.
package bitmap

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/daggo"
	"github.com/hupe1980/daggo/internal/conv"
)

var (
	// ErrGroupMismatch is returned when a span or id does not belong to a
	// GroupBitmap's group.
	ErrGroupMismatch = errors.New("id outside bitmap group")

	// ErrOffsetRange is returned when a group offset does not fit the
	// 32-bit window of a GroupBitmap.
	ErrOffsetRange = errors.New("group offset beyond 32-bit window")
)

// FromSpanSet materializes every id of the set into a 64-bit Roaring
// bitmap. Cost is proportional to the number of spans, not ids: each span
// becomes one AddRange call.
func FromSpanSet(set daggo.SpanSet) *roaring64.Bitmap {
	rb := roaring64.New()
	spans := set.Spans()
	// Ascending adds keep roaring's container appends cheap.
	for i := len(spans) - 1; i >= 0; i-- {
		sp := spans[i]
		rb.AddRange(uint64(sp.Low), uint64(sp.High)+1)
	}
	return rb
}

// ToSpanSet converts a 64-bit Roaring bitmap back into a span set,
// coalescing runs of consecutive ids.
func ToSpanSet(rb *roaring64.Bitmap) daggo.SpanSet {
	asc := daggo.EmptySpanSetAsc()
	it := rb.Iterator()
	var low, high daggo.Id
	started := false
	for it.HasNext() {
		id := daggo.Id(it.Next())
		switch {
		case !started:
			low, high, started = id, id, true
		case id == high+1:
			high = id
		default:
			asc.PushSpan(daggo.NewSpan(low, high))
			low, high = id, id
		}
	}
	if started {
		asc.PushSpan(daggo.NewSpan(low, high))
	}
	return asc.SpanSet()
}

// GroupBitmap is a 32-bit Roaring bitmap over the offset window of one
// group. It only holds the first 2^32 offsets of the group, which covers
// every realistic repository; Add reports ErrOffsetRange beyond that.
type GroupBitmap struct {
	group daggo.Group
	rb    *roaring.Bitmap
}

// NewGroupBitmap creates an empty bitmap scoped to g.
func NewGroupBitmap(g daggo.Group) *GroupBitmap {
	return &GroupBitmap{
		group: g,
		rb:    roaring.New(),
	}
}

// Group returns the group this bitmap is scoped to.
func (b *GroupBitmap) Group() daggo.Group {
	return b.group
}

func (b *GroupBitmap) offset(id daggo.Id) (uint32, error) {
	if id.Group() != b.group {
		return 0, fmt.Errorf("%w: %s not in %s", ErrGroupMismatch, id, b.group)
	}
	off, err := conv.Uint64ToUint32(id.Offset())
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrOffsetRange, id)
	}
	return off, nil
}

// Add inserts one id.
func (b *GroupBitmap) Add(id daggo.Id) error {
	off, err := b.offset(id)
	if err != nil {
		return err
	}
	b.rb.Add(off)
	return nil
}

// AddSpan inserts every id of the span.
func (b *GroupBitmap) AddSpan(span daggo.Span) error {
	lo, err := b.offset(span.Low)
	if err != nil {
		return err
	}
	hi, err := b.offset(span.High)
	if err != nil {
		return err
	}
	b.rb.AddRange(uint64(lo), uint64(hi)+1)
	return nil
}

// Contains reports whether the id is present. Ids outside the group or
// the offset window are simply absent.
func (b *GroupBitmap) Contains(id daggo.Id) bool {
	off, err := b.offset(id)
	if err != nil {
		return false
	}
	return b.rb.Contains(off)
}

// Cardinality returns the number of ids present.
func (b *GroupBitmap) Cardinality() uint64 {
	return b.rb.GetCardinality()
}

// ToSpanSet converts the bitmap back into a span set over full ids.
func (b *GroupBitmap) ToSpanSet() daggo.SpanSet {
	base := b.group.MinId()
	asc := daggo.EmptySpanSetAsc()
	it := b.rb.Iterator()
	var low, high uint32
	started := false
	flush := func() {
		asc.PushSpan(daggo.NewSpan(base.Add(uint64(low)), base.Add(uint64(high))))
	}
	for it.HasNext() {
		off := it.Next()
		switch {
		case !started:
			low, high, started = off, off, true
		case off == high+1:
			high = off
		default:
			flush()
			low, high = off, off
		}
	}
	if started {
		flush()
	}
	return asc.SpanSet()
}
