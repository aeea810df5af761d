package daggo

import (
	"container/heap"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// SpanSet is a set of ids represented as spans.
//
// Two invariants hold at all times:
//   - spans are sorted in strictly descending (High, Low) order;
//   - no two neighboring spans overlap or touch: for consecutive spans a,
//     b (a before b), a.Low > b.High+1. Touching spans are merged into one.
//
// The zero value is an empty set. SpanSet owns its backing spans
// exclusively; Clone produces an independent value. Read operations are
// safe for concurrent use as long as no goroutine mutates the set.
type SpanSet struct {
	spans []Span
}

// EmptySpanSet returns a set containing nothing.
func EmptySpanSet() SpanSet {
	return SpanSet{}
}

// FullSpanSet returns a set containing the entire id universe.
// Warning: ids in this set might be unknown to an actual backing store.
func FullSpanSet() SpanSet {
	return SpanSet{spans: []Span{FullSpan()}}
}

// FromSpans builds a set from arbitrary spans. The input may be unsorted
// and overlapping; overlapping and touching spans are merged. O(n log n).
func FromSpans(spans ...Span) SpanSet {
	h := make(spanHeap, len(spans))
	copy(h, spans)
	heap.Init(&h)

	out := make([]Span, 0, min(len(spans), 64))
	for len(h) > 0 {
		out = pushWithUnion(out, heap.Pop(&h).(Span))
	}

	result := SpanSet{spans: out}
	debugAssertValid(result)
	return result
}

// FromIds builds a set from individual ids.
func FromIds(ids ...Id) SpanSet {
	spans := make([]Span, len(ids))
	for i, id := range ids {
		spans[i] = SingleSpan(id)
	}
	return FromSpans(spans...)
}

// FromSortedSpans builds a set from spans the caller guarantees are
// already descending and neither overlapping nor inverted. Only validates,
// no merging: O(n). A violated guarantee is a caller bug and panics.
func FromSortedSpans(spans []Span) SpanSet {
	result := SpanSet{spans: slices.Clone(spans)}
	if !result.isValid() {
		panic(fmt.Sprintf("daggo: unsorted or overlapping spans: %v", spans))
	}
	return result
}

// isValid reports whether the spans satisfy the internal assumptions:
// sorted descending and not overlapping.
func (s SpanSet) isValid() bool {
	prevLow := MaxId + 1 // sentinel above every valid id
	for _, sp := range s.spans {
		if sp.Low > sp.High || sp.High >= prevLow {
			return false
		}
		prevLow = sp.Low
	}
	return true
}

// IsEmpty reports whether the set contains nothing.
func (s SpanSet) IsEmpty() bool {
	return len(s.spans) == 0
}

// Count returns the number of ids covered by the set.
func (s SpanSet) Count() uint64 {
	var n uint64
	for _, sp := range s.spans {
		n += sp.Count()
	}
	return n
}

// Spans exposes the backing spans, largest first.
// The returned slice is shared with the set and must not be modified.
func (s SpanSet) Spans() []Span {
	return s.spans
}

// Max returns the largest id in the set.
func (s SpanSet) Max() (Id, bool) {
	if len(s.spans) == 0 {
		return 0, false
	}
	return s.spans[0].High, true
}

// Min returns the smallest id in the set.
func (s SpanSet) Min() (Id, bool) {
	if len(s.spans) == 0 {
		return 0, false
	}
	return s.spans[len(s.spans)-1].Low, true
}

// Equal reports whether two sets cover the same ids.
func (s SpanSet) Equal(other SpanSet) bool {
	return slices.Equal(s.spans, other.spans)
}

// Clone returns an independently owned copy.
func (s SpanSet) Clone() SpanSet {
	return SpanSet{spans: slices.Clone(s.spans)}
}

// ContainsId reports whether a single id is covered by the set.
func (s SpanSet) ContainsId(id Id) bool {
	return s.Contains(SingleSpan(id))
}

// Contains reports whether every id of the probe span is covered.
//
// A probe stretching over multiple backing spans requires full coverage by
// consecutive entries; the first gap found decides. O(log n + k) where k
// is the number of backing spans touched.
func (s SpanSet) Contains(span Span) bool {
	for {
		// First span (largest) whose Low does not exceed the probe's Low.
		idx := sort.Search(len(s.spans), func(i int) bool {
			return s.spans[i].Low <= span.Low
		})
		if idx == len(s.spans) {
			return false
		}
		existing := s.spans[idx]
		if existing.High < span.Low {
			return false
		}
		if existing.High >= span.High {
			return true
		}
		// Covered up to existing.High; re-probe for the rest.
		span.Low = existing.High + 1
	}
}

// Union returns the set of ids covered by either set. O(n + m).
func (s SpanSet) Union(rhs SpanSet) SpanSet {
	out := make([]Span, 0, min(len(s.spans)+len(rhs.spans), 32))
	li, ri := 0, 0

	for li < len(s.spans) && ri < len(rhs.spans) {
		left, right := s.spans[li], rhs.spans[ri]
		if left.High < right.High {
			out = pushWithUnion(out, right)
			ri++
		} else {
			out = pushWithUnion(out, left)
			li++
		}
	}
	for ; li < len(s.spans); li++ {
		out = pushWithUnion(out, s.spans[li])
	}
	for ; ri < len(rhs.spans); ri++ {
		out = pushWithUnion(out, rhs.spans[ri])
	}

	result := SpanSet{spans: out}
	debugAssertValid(result)
	return result
}

// Intersection returns the set of ids covered by both sets. O(n + m).
func (s SpanSet) Intersection(rhs SpanSet) SpanSet {
	out := make([]Span, 0, min(max(len(s.spans), len(rhs.spans)), 32))
	li, ri := 0, 0
	var left, right Span
	haveLeft := advance(s.spans, &li, &left)
	haveRight := advance(rhs.spans, &ri, &right)

	for haveLeft && haveRight {
		// current:
		//   |------- A --------|
		//         |------- B ------|
		//         |-- overlap --|
		// next:
		//   |- A -| (remaining part of A)
		//           (next B)
		// (A, B) can be either (left, right) or (right, left).
		overlapLow := max(left.Low, right.Low)
		overlapHigh := min(left.High, right.High)
		if overlap, ok := spanFromBounds(overlapLow, overlapHigh); ok {
			out = pushWithUnion(out, overlap)
		}

		// A side may only be partially consumed: its remainder below the
		// overlap re-enters comparison, because one span can overlap
		// multiple spans on the other side.
		if rem, ok := spanBefore(right.Low, capNext(right.High, overlapLow)); ok {
			right = rem
		} else {
			haveRight = advance(rhs.spans, &ri, &right)
		}
		if rem, ok := spanBefore(left.Low, capNext(left.High, overlapLow)); ok {
			left = rem
		} else {
			haveLeft = advance(s.spans, &li, &left)
		}
	}

	result := SpanSet{spans: out}
	debugAssertValid(result)
	return result
}

// Difference returns the set of ids covered by s but not rhs. O(n + m).
func (s SpanSet) Difference(rhs SpanSet) SpanSet {
	out := make([]Span, 0, min(max(len(s.spans), len(rhs.spans)), 32))
	li, ri := 0, 0
	var left, right Span
	haveLeft := advance(s.spans, &li, &left)
	haveRight := advance(rhs.spans, &ri, &right)

	for haveLeft {
		if !haveRight {
			out = pushWithUnion(out, left)
			haveLeft = advance(s.spans, &li, &left)
			continue
		}
		switch {
		case right.Low > left.High:
			// right is entirely above left.
			haveRight = advance(rhs.spans, &ri, &right)
		case right.High < left.Low:
			// right is entirely below left; left survives whole.
			out = pushWithUnion(out, left)
			haveLeft = advance(s.spans, &li, &left)
		default:
			// |----------------- left ------------------|
			// |--- lower ---|--- right ---|--- upper ---|
			if right.High < left.High {
				out = pushWithUnion(out, Span{Low: right.High + 1, High: left.High})
			}
			// The surviving lower part of left re-enters comparison: it may
			// still overlap further right spans. Do not advance a whole
			// step here.
			if rem, ok := spanBefore(left.Low, right.Low); ok {
				left = rem
			} else {
				haveLeft = advance(s.spans, &li, &left)
			}
		}
	}

	result := SpanSet{spans: out}
	debugAssertValid(result)
	return result
}

// Push makes the set contain the given span.
//
// Optimized for the expected workload where span.High is below Min(), for
// example appending older history; any other span falls back to a full
// union.
func (s *SpanSet) Push(span Span) {
	n := len(s.spans)
	if n == 0 {
		s.spans = append(s.spans, span)
		return
	}
	last := &s.spans[n-1]
	if last.High >= span.High {
		if last.Low <= span.High+1 {
			// Union in place. Touching counts as mergeable, not just
			// overlapping, so consecutive integers never fragment.
			last.Low = min(last.Low, span.Low)
		} else {
			s.spans = append(s.spans, span)
		}
	} else {
		// PERF: bisect-and-insert would be cheaper, but this path is
		// rarely taken.
		*s = s.Union(SpanSet{spans: []Span{span}})
	}
}

// PushSpan appends a span that must have lower boundaries than every
// existing span (or touch the smallest one).
func (s *SpanSet) PushSpan(span Span) {
	s.spans = pushWithUnion(s.spans, span)
}

// PushSet appends a whole set whose ids must all be below Min().
// Faster than Union when that precondition is known to hold.
func (s *SpanSet) PushSet(set SpanSet) {
	for _, sp := range set.spans {
		s.PushSpan(sp)
	}
}

// pushWithUnion appends span to spans, merging it into the trailing entry
// when they overlap or touch. The caller guarantees the trailing entry's
// High is >= span.High.
//
// Overflow note: span.High+1 cannot wrap because MaxId is below the uint64
// maximum; no span can claim High == MaxId+1 either way.
func pushWithUnion(spans []Span, span Span) []Span {
	n := len(spans)
	if n == 0 {
		return append(spans, span)
	}
	last := &spans[n-1]
	debugAssert(last.High >= span.High, "pushWithUnion: span out of order")
	if last.Low <= span.High+1 {
		last.Low = min(last.Low, span.Low)
		return spans
	}
	return append(spans, span)
}

// capNext returns min(high+1, bound) without overflowing past bound.
func capNext(high, bound Id) Id {
	if high >= bound {
		return bound
	}
	return high + 1
}

// advance copies spans[*i] into dst and steps the index, reporting false
// when the list is exhausted.
func advance(spans []Span, i *int, dst *Span) bool {
	if *i >= len(spans) {
		return false
	}
	*dst = spans[*i]
	*i++
	return true
}

// String implements fmt.Stringer, showing at most 12 spans.
func (s SpanSet) String() string {
	return s.format(12)
}

// Format implements fmt.Formatter. A width limits the number of spans
// shown, e.g. %3v.
func (s SpanSet) Format(f fmt.State, verb rune) {
	limit := 12
	if w, ok := f.Width(); ok {
		limit = w
	}
	fmt.Fprint(f, s.format(limit))
}

func (s SpanSet) format(limit int) string {
	var parts []string
	// Ascending order reads naturally for humans.
	for i := len(s.spans) - 1; i >= 0 && len(s.spans)-1-i < limit; i-- {
		sp := s.spans[i]
		if sp.Low+2 >= sp.High {
			// "low..=high" form is not shorter.
			for id := range sp.Low.To(sp.High) {
				parts = append(parts, id.String())
			}
		} else {
			parts = append(parts, sp.String())
		}
	}
	total := len(s.spans)
	if total == limit+1 {
		parts = append(parts, "and 1 span")
	} else if total > limit {
		parts = append(parts, fmt.Sprintf("and %d spans", total-limit))
	}
	return strings.Join(parts, " ")
}

// spanHeap is a max-heap of spans ordered by (High, Low).
type spanHeap []Span

func (h spanHeap) Len() int           { return len(h) }
func (h spanHeap) Less(i, j int) bool { return h[i].Compare(h[j]) > 0 }
func (h spanHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *spanHeap) Push(x any) {
	*h = append(*h, x.(Span))
}

func (h *spanHeap) Pop() any {
	old := *h
	n := len(old)
	span := old[n-1]
	*h = old[:n-1]
	return span
}
