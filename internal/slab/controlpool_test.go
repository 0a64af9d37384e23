package slab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slabarena/internal/backing"
)

// 256-byte pages hold 32 nodes each.
func newTestControlPool(t *testing.T, count int) *ControlPool {
	t.Helper()
	store := backing.NewHeapStore(256)
	p, err := NewControlPool(store, count, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Release() })
	return p
}

func TestControlPool_PutTake(t *testing.T) {
	p := newTestControlPool(t, 64)

	require.Zero(t, p.CommittedBytes())

	n, err := p.PutNode(7, -1)
	require.NoError(t, err)
	assert.Equal(t, 256, n, "first node commits its page")
	assert.Equal(t, 1, p.LiveNodes())

	n, err = p.PutNode(8, 7)
	require.NoError(t, err)
	assert.Zero(t, n, "same page, no commit")

	next, _, err := p.TakeNode(8)
	require.NoError(t, err)
	assert.Equal(t, int32(7), next)
	assert.Equal(t, 1, p.LiveNodes())
}

func TestControlPool_TakeCorrupt(t *testing.T) {
	p := newTestControlPool(t, 64)

	_, err := p.PutNode(0, -1)
	require.NoError(t, err)

	// Node 1's record was never written; its tag cannot match.
	p.live[0]++ // pretend it is live so TakeNode reads it
	_, _, err = p.TakeNode(1)
	assert.Error(t, err)
}

func TestControlPool_SweepKeepsSlackPage(t *testing.T) {
	p := newTestControlPool(t, 128) // 4 pages of nodes

	// Make every node live, pages 0..3 committed.
	for i := 0; i < 128; i++ {
		_, err := p.PutNode(i, int32(i)-1)
		require.NoError(t, err)
	}
	require.Equal(t, 4*256, p.CommittedBytes())

	// Kill the top page's nodes. Page 3 goes dead but survives as
	// the slack page above page 2.
	for i := 127; i >= 96; i-- {
		_, freed, err := p.TakeNode(i)
		require.NoError(t, err)
		assert.Zero(t, freed)
	}
	assert.Equal(t, 4*256, p.CommittedBytes())

	// Killing page 2's nodes moves the slack down: page 3 is now two
	// pages above the live cluster and gets swept.
	var freedTotal int
	for i := 95; i >= 64; i-- {
		_, freed, err := p.TakeNode(i)
		require.NoError(t, err)
		freedTotal += freed
	}
	assert.Equal(t, 256, freedTotal)
	assert.Equal(t, 3*256, p.CommittedBytes())
}

func TestControlPool_RecommitAfterSweep(t *testing.T) {
	p := newTestControlPool(t, 128)

	for i := 0; i < 128; i++ {
		_, err := p.PutNode(i, int32(i)-1)
		require.NoError(t, err)
	}
	for i := 127; i >= 64; i-- {
		_, _, err := p.TakeNode(i)
		require.NoError(t, err)
	}
	require.Equal(t, 3*256, p.CommittedBytes())

	// A node going live on the swept page commits it again and the
	// record round-trips.
	n, err := p.PutNode(100, 63)
	require.NoError(t, err)
	assert.Equal(t, 256, n)

	next, _, err := p.TakeNode(100)
	require.NoError(t, err)
	assert.Equal(t, int32(63), next)
}
