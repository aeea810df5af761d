package daggo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanSetAsc(t *testing.T) {
	set := EmptySpanSetAsc()
	assert.False(t, set.ContainsId(3))

	set.PushSpan(sp(1, 10))
	assert.True(t, set.ContainsId(3))

	set.PushSpan(sp(11, 20))
	assert.True(t, set.ContainsId(10))
	assert.True(t, set.ContainsId(11))
	assert.True(t, set.ContainsId(20))
	assert.False(t, set.ContainsId(21))
	assert.Equal(t, "1..=20", fmt.Sprintf("%v", set.SpanSet()))

	set.PushSpan(sp(30, 40))
	assert.Equal(t, "1..=20 30..=40", fmt.Sprintf("%v", set.SpanSet()))

	check := func(low, high uint64) (Id, bool) {
		return set.IntersectionSpanMin(sp(low, high))
	}

	id, ok := check(15, 45)
	require.True(t, ok)
	assert.Equal(t, Id(15), id)

	id, ok = check(20, 32)
	require.True(t, ok)
	assert.Equal(t, Id(20), id)

	_, ok = check(21, 29)
	assert.False(t, ok)

	id, ok = check(21, 32)
	require.True(t, ok)
	assert.Equal(t, Id(30), id)

	id, ok = check(35, 45)
	require.True(t, ok)
	assert.Equal(t, Id(35), id)

	_, ok = check(45, 55)
	assert.False(t, ok)
}

func TestSpanSetAscRoundTrip(t *testing.T) {
	orig := FromSpans(sp(1, 10), sp(15, 20), sp(30, 30))
	asc := SpanSetAscFrom(orig)
	assert.True(t, asc.SpanSet().Equal(orig))

	assert.True(t, asc.Contains(sp(15, 20)))
	assert.False(t, asc.Contains(sp(10, 15)))
}

func TestSpanSetAscIntersection(t *testing.T) {
	a := SpanSetAscFrom(FromSpans(sp(1, 10), sp(15, 20)))
	b := SpanSetAscFrom(FromSpans(sp(5, 19)))
	got := a.Intersection(b).SpanSet()
	assert.True(t, got.Equal(FromSpans(sp(5, 10), sp(15, 19))), "got %v", got)
}

func TestSpanSetAscClone(t *testing.T) {
	set := EmptySpanSetAsc()
	set.PushSpan(sp(1, 5))
	clone := set.Clone()
	clone.PushSpan(sp(10, 12))
	assert.False(t, set.ContainsId(11))
	assert.True(t, clone.ContainsId(11))
}
