package slabarena

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpRoundTrip(t *testing.T) {
	a := newTestArena(t, 16, 256)

	addrs := make([]Addr, 20)
	for i := range addrs {
		addr, ok := a.Alloc()
		require.True(t, ok)
		addrs[i] = addr
		buf := a.Bytes(addr)
		for j := range buf {
			buf[j] = byte(i)
		}
	}
	a.Free(addrs[4])
	a.Free(addrs[11])

	var out bytes.Buffer
	require.NoError(t, a.WriteDump(&out))

	d, err := ReadDump(&out)
	require.NoError(t, err)

	assert.Equal(t, "test", d.Name)
	assert.Equal(t, 16, d.ObjectSize)
	assert.Equal(t, 256, d.SlotCount)
	assert.Equal(t, 20, d.HighWaterMark)

	assert.Equal(t, uint64(2), d.Free.GetCardinality())
	assert.True(t, d.Free.Contains(4))
	assert.True(t, d.Free.Contains(11))

	for i := 0; i < 20; i++ {
		if i == 4 || i == 11 {
			continue
		}
		want := bytes.Repeat([]byte{byte(i)}, 16)
		assert.Equal(t, want, d.Slot(i), "slot %d", i)
	}
}

func TestReadDump_RejectsGarbage(t *testing.T) {
	_, err := ReadDump(bytes.NewReader([]byte("definitely not a dump")))
	assert.ErrorIs(t, err, ErrBadDump)
}
