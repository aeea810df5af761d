package store

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/daggo"
)

func TestPutAndReadRange(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(nil)

	// Insert out of order; reads must come back ascending.
	for _, id := range []daggo.Id{30, 10, 20, 25, 5} {
		require.NoError(t, s.Put(ctx, id, []byte(id.String())))
	}

	entries, err := s.ReadRange(ctx, daggo.NewSpan(10, 25))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, daggo.Id(10), entries[0].Id)
	assert.Equal(t, daggo.Id(20), entries[1].Id)
	assert.Equal(t, daggo.Id(25), entries[2].Id)
	assert.Equal(t, []byte("20"), entries[1].Value)

	entries, err = s.ReadRange(ctx, daggo.NewSpan(11, 19))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPutReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(nil)

	require.NoError(t, s.Put(ctx, 7, []byte("old")))
	require.NoError(t, s.Put(ctx, 7, []byte("new")))

	entries, err := s.ReadRange(ctx, daggo.SingleSpan(7))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []byte("new"), entries[0].Value)
}

func TestReadGroup(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(nil)

	nonMaster := daggo.GroupNonMaster.MinId()
	require.NoError(t, s.Put(ctx, 1, nil))
	require.NoError(t, s.Put(ctx, daggo.GroupMaster.MaxId(), nil))
	require.NoError(t, s.Put(ctx, nonMaster, nil))
	require.NoError(t, s.Put(ctx, nonMaster.Add(2), nil))

	entries, err := s.ReadGroup(ctx, daggo.GroupMaster)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, daggo.Id(1), entries[0].Id)
	assert.Equal(t, daggo.GroupMaster.MaxId(), entries[1].Id)

	entries, err = s.ReadGroup(ctx, daggo.GroupNonMaster)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, nonMaster, entries[0].Id)
	assert.Equal(t, nonMaster.Add(2), entries[1].Id)
}

func TestIds(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(nil)

	assert.True(t, s.Ids().IsEmpty())

	for _, id := range []daggo.Id{3, 1, 2, 10} {
		require.NoError(t, s.Put(ctx, id, nil))
	}

	want := daggo.FromSpans(daggo.NewSpan(1, 3), daggo.SingleSpan(10))
	assert.True(t, s.Ids().Equal(want), "got %v", s.Ids())
}

// Byte-lexicographic key order must agree with id order across group
// boundaries, otherwise range scans silently drop entries.
func TestKeyOrderMatchesIdOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(nil)
	rng := rand.New(rand.NewSource(23))

	ids := make([]daggo.Id, 200)
	for i := range ids {
		g := daggo.AllGroups[rng.Intn(len(daggo.AllGroups))]
		ids[i] = g.MinId().Add(rng.Uint64() % 10000)
		require.NoError(t, s.Put(ctx, ids[i], nil))
	}

	entries, err := s.ReadRange(ctx, daggo.FullSpan())
	require.NoError(t, err)
	for i := 1; i < len(entries); i++ {
		require.Less(t, entries[i-1].Id, entries[i].Id)
	}
	assert.Equal(t, s.Ids().Count(), uint64(len(entries)))
}

func TestContextCancellation(t *testing.T) {
	s := NewMemStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, 1, nil), context.Canceled)

	_, err := s.ReadRange(ctx, daggo.FullSpan())
	assert.ErrorIs(t, err, context.Canceled)
}
