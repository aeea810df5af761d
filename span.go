package daggo

import "fmt"

// Span is the inclusive id range Low..=High. Low must be <= High.
type Span struct {
	Low  Id
	High Id
}

// NewSpan returns the span low..=high.
// Inverted bounds are a caller bug and panic.
func NewSpan(low, high Id) Span {
	if low > high {
		panic(fmt.Sprintf("daggo: invalid span %d..=%d", uint64(low), uint64(high)))
	}
	return Span{Low: low, High: high}
}

// SingleSpan returns the span covering exactly one id.
func SingleSpan(id Id) Span {
	return Span{Low: id, High: id}
}

// FullSpan returns the span covering the entire id universe.
// Warning: ids in this span might be unknown to an actual backing store.
func FullSpan() Span {
	return Span{Low: MinId, High: MaxId}
}

// spanFromBounds returns the inclusive span low..=high, reporting false for
// an empty range. Used where boundary arithmetic may produce empty results
// that are expected rather than caller bugs.
func spanFromBounds(low, high Id) (Span, bool) {
	if low > high {
		return Span{}, false
	}
	return Span{Low: low, High: high}, true
}

// spanBefore returns the half-open span [low, end) as an inclusive span,
// reporting false for an empty range.
func spanBefore(low, end Id) (Span, bool) {
	if low >= end {
		return Span{}, false
	}
	return Span{Low: low, High: end - 1}, true
}

// Count returns the number of ids covered.
func (s Span) Count() uint64 {
	return uint64(s.High) - uint64(s.Low) + 1
}

// Nth returns the n-th id in this span.
// Like [SpanSet], ids are ordered descending: the 0-th id is High.
func (s Span) Nth(n uint64) (Id, bool) {
	if n >= s.Count() {
		return 0, false
	}
	return s.High - Id(n), true
}

// Contains reports whether id is covered by this span.
func (s Span) Contains(id Id) bool {
	return s.Low <= id && id <= s.High
}

// Compare orders spans by (High, Low). The span with the larger High sorts
// greater; ties break toward the larger Low.
func (s Span) Compare(other Span) int {
	switch {
	case s.High < other.High:
		return -1
	case s.High > other.High:
		return 1
	case s.Low < other.Low:
		return -1
	case s.Low > other.Low:
		return 1
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (s Span) String() string {
	if s.Low == s.High {
		return s.Low.String()
	}
	return s.Low.String() + "..=" + s.High.String()
}
