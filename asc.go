package daggo

import "sort"

// SpanSetAsc is optimized for pushing spans in ascending order, the dual
// of [SpanSet] which is optimized for descending pushes. It is used by
// graph algorithms that walk from roots toward heads, such as descendant
// calculation.
//
// Internally it stores the order reversal MaxId-x of every id and
// delegates to SpanSet; the transform happens only at the boundary so the
// set algebra is never duplicated.
type SpanSetAsc struct {
	rev SpanSet
}

// EmptySpanSetAsc returns an empty ascending set.
func EmptySpanSetAsc() SpanSetAsc {
	return SpanSetAsc{}
}

// revSpan mirrors a span across the id axis.
func revSpan(s Span) Span {
	return Span{Low: MaxId - s.High, High: MaxId - s.Low}
}

// PushSpan appends a span. Spans must be pushed in ascending order.
func (s *SpanSetAsc) PushSpan(span Span) {
	s.rev.PushSpan(revSpan(span))
}

// Contains reports whether every id of span is covered.
func (s SpanSetAsc) Contains(span Span) bool {
	return s.rev.Contains(revSpan(span))
}

// ContainsId reports whether a single id is covered.
func (s SpanSetAsc) ContainsId(id Id) bool {
	return s.Contains(SingleSpan(id))
}

// Intersection returns the ids covered by both sets.
func (s SpanSetAsc) Intersection(rhs SpanSetAsc) SpanSetAsc {
	return SpanSetAsc{rev: s.rev.Intersection(rhs.rev)}
}

// IntersectionSpanMin returns the minimum id in the overlap between the
// set and the probe span.
//
// Not a general purpose API: it lets ascending-order graph walks find the
// earliest intersecting id without materializing the full intersection.
func (s SpanSetAsc) IntersectionSpanMin(probe Span) (Id, bool) {
	spans := s.rev.spans
	// In logical (un-reversed) order the stored spans ascend, so the first
	// candidate is the earliest span reaching up to probe.Low or beyond.
	i := sort.Search(len(spans), func(i int) bool {
		return revSpan(spans[i]).High >= probe.Low
	})
	if i == len(spans) {
		return 0, false
	}
	candidate := revSpan(spans[i])
	debugAssert(candidate.High >= probe.Low, "IntersectionSpanMin: bad candidate")
	if candidate.Low > probe.High {
		return 0, false
	}
	return max(candidate.Low, probe.Low), true
}

// SpanSetAscFrom converts a descending-ordered set into its ascending
// dual.
func SpanSetAscFrom(set SpanSet) SpanSetAsc {
	spans := make([]Span, len(set.spans))
	for i, sp := range set.spans {
		spans[len(spans)-1-i] = revSpan(sp)
	}
	return SpanSetAsc{rev: FromSortedSpans(spans)}
}

// SpanSet converts back to a set optimized for descending order.
func (s SpanSetAsc) SpanSet() SpanSet {
	spans := make([]Span, len(s.rev.spans))
	for i, sp := range s.rev.spans {
		spans[len(spans)-1-i] = revSpan(sp)
	}
	return FromSortedSpans(spans)
}

// Clone returns an independently owned copy.
func (s SpanSetAsc) Clone() SpanSetAsc {
	return SpanSetAsc{rev: s.rev.Clone()}
}
