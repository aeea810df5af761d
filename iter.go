package daggo

import "iter"

// cursor addresses one id inside the span list: the span index paired with
// the offset counting down from that span's High.
type cursor struct {
	span   int
	offset uint64
}

// less orders cursors lexicographically over (span, offset).
func (c cursor) less(other cursor) bool {
	return c.span < other.span || (c.span == other.span && c.offset < other.offset)
}

// Iter is a double-ended iterator over the ids of a [SpanSet], yielding
// descending order from the front and ascending from the back. Next and
// NextBack calls may interleave freely; the iterator is exhausted once the
// two cursors cross, never double-yielding or skipping.
//
// Iteration does not mutate the set. Multiple independent iterators may
// coexist, but a single Iter is not safe for concurrent use.
type Iter struct {
	spans []Span
	front cursor
	back  cursor
}

// Iter returns a double-ended iterator over the set, largest id first.
func (s SpanSet) Iter() *Iter {
	back := cursor{span: len(s.spans) - 1}
	if n := len(s.spans); n > 0 {
		back.offset = s.spans[n-1].Count() - 1
	}
	return &Iter{spans: s.spans, back: back}
}

func (it *Iter) exhausted() bool {
	return it.back.less(it.front)
}

// Next yields the next id from the front (descending direction).
func (it *Iter) Next() (Id, bool) {
	if it.exhausted() {
		return 0, false
	}
	sp := it.spans[it.front.span]
	id := sp.High - Id(it.front.offset)
	if it.front.offset == sp.Count()-1 {
		it.front = cursor{span: it.front.span + 1}
	} else {
		it.front.offset++
	}
	return id, true
}

// NextBack yields the next id from the back (ascending direction).
func (it *Iter) NextBack() (Id, bool) {
	if it.exhausted() {
		return 0, false
	}
	sp := it.spans[it.back.span]
	id := sp.High - Id(it.back.offset)
	if it.back.offset == 0 {
		prev := cursor{span: it.back.span - 1}
		if it.back.span > 0 {
			prev.offset = it.spans[it.back.span-1].Count() - 1
		}
		it.back = prev
	} else {
		it.back.offset--
	}
	return id, true
}

// Descend iterates every id in the set in descending order, the canonical
// direction for this domain: recent history is accessed most often.
func (s SpanSet) Descend() iter.Seq[Id] {
	return func(yield func(Id) bool) {
		it := s.Iter()
		for id, ok := it.Next(); ok; id, ok = it.Next() {
			if !yield(id) {
				return
			}
		}
	}
}

// Ascend iterates every id in the set in ascending order.
func (s SpanSet) Ascend() iter.Seq[Id] {
	return func(yield func(Id) bool) {
		it := s.Iter()
		for id, ok := it.NextBack(); ok; id, ok = it.NextBack() {
			if !yield(id) {
				return
			}
		}
	}
}
