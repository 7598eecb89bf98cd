package nal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanAll feeds the whole stream in chunks of the given size and
// flushes, collecting every unit.
func scanAll(t *testing.T, stream []byte, chunk int) []Unit {
	t.Helper()
	var s Scanner
	var units []Unit
	for off := 0; off < len(stream); off += chunk {
		end := off + chunk
		if end > len(stream) {
			end = len(stream)
		}
		units = append(units, s.Feed(stream[off:end])...)
	}
	if u, ok := s.Flush(); ok {
		units = append(units, u)
	}
	return units
}

func TestScannerSingleFeed(t *testing.T) {
	t.Parallel()
	u1 := testUnit(TypeVPS, []byte{0xAA, 0xBB})
	u2 := testUnit(TypeSPS, []byte{0xCC})
	stream := annexB(u1, u2)

	var s Scanner
	units := s.Feed(stream)
	require.Len(t, units, 1)
	assert.Equal(t, u1, units[0].Data)
	assert.Equal(t, TypeVPS, units[0].Header.Type)

	last, ok := s.Flush()
	require.True(t, ok)
	assert.Equal(t, u2, last.Data)
	assert.Equal(t, TypeSPS, last.Header.Type)
}

func TestScannerThreeByteStartCode(t *testing.T) {
	t.Parallel()
	u1 := testUnit(TypeVPS, []byte{0xAA})
	u2 := testUnit(TypePPS, []byte{0xBB})
	stream := append([]byte{0x00, 0x00, 0x01}, u1...)
	stream = append(stream, 0x00, 0x00, 0x01)
	stream = append(stream, u2...)

	units := scanAll(t, stream, len(stream))
	require.Len(t, units, 2)
	assert.Equal(t, u1, units[0].Data)
	assert.Equal(t, u2, units[1].Data)
}

// Extra leading zeros beyond the three-byte prefix belong to the
// preceding unit.
func TestScannerLongZeroRun(t *testing.T) {
	t.Parallel()
	u1 := testUnit(TypeVPS, []byte{0xAA})
	u2 := testUnit(TypeSPS, []byte{0xBB})
	stream := append([]byte{0x00, 0x00, 0x00, 0x01}, u1...)
	stream = append(stream, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01)
	stream = append(stream, u2...)

	units := scanAll(t, stream, len(stream))
	require.Len(t, units, 2)
	assert.Equal(t, append(append([]byte{}, u1...), 0x00, 0x00), units[0].Data)
	assert.Equal(t, u2, units[1].Data)
}

func TestScannerGarbageBeforeFirstStartCode(t *testing.T) {
	t.Parallel()
	u1 := testUnit(TypeVPS, []byte{0xAA})
	stream := append([]byte{0xDE, 0xAD, 0xBE, 0xEF}, annexB(u1)...)

	units := scanAll(t, stream, len(stream))
	require.Len(t, units, 1)
	assert.Equal(t, u1, units[0].Data)
}

func TestScannerSkipsEmptyUnits(t *testing.T) {
	t.Parallel()
	u1 := testUnit(TypeVPS, []byte{0xAA})
	stream := append([]byte{0x00, 0x00, 0x01}, []byte{0x00, 0x00, 0x01}...)
	stream = append(stream, u1...)

	units := scanAll(t, stream, len(stream))
	require.Len(t, units, 1)
	assert.Equal(t, u1, units[0].Data)
}

// Every split point must yield the same units as a single feed,
// including splits inside start codes.
func TestScannerSplitInvariance(t *testing.T) {
	t.Parallel()
	u1 := testUnit(TypeVPS, buildVPS(vpsParams{timing: true}))
	u2 := testUnit(TypeSPS, []byte{0xCC, 0x00, 0x00, 0x02, 0xDD})
	u3 := testUnit(TypeIDRWRADL, []byte{0xEE})
	stream := annexB(u1, u2, u3)

	want := scanAll(t, stream, len(stream))
	require.Len(t, want, 3)

	for chunk := 1; chunk < len(stream); chunk++ {
		got := scanAll(t, stream, chunk)
		require.Len(t, got, len(want), "chunk size %d", chunk)
		for i := range want {
			require.Equal(t, want[i].Data, got[i].Data, "chunk size %d unit %d", chunk, i)
			require.Equal(t, want[i].Header, got[i].Header, "chunk size %d unit %d", chunk, i)
		}
	}
}

func TestScannerFlushResets(t *testing.T) {
	t.Parallel()
	u1 := testUnit(TypeVPS, []byte{0xAA})
	var s Scanner

	s.Feed(annexB(u1))
	last, ok := s.Flush()
	require.True(t, ok)
	assert.Equal(t, u1, last.Data)

	_, ok = s.Flush()
	assert.False(t, ok)

	// a fresh stream on the same scanner
	u2 := testUnit(TypeSPS, []byte{0xBB})
	units := s.Feed(annexB(u2))
	assert.Empty(t, units)
	last, ok = s.Flush()
	require.True(t, ok)
	assert.Equal(t, u2, last.Data)
}

func TestScannerFlushWithoutStream(t *testing.T) {
	t.Parallel()
	var s Scanner
	_, ok := s.Flush()
	assert.False(t, ok)

	s.Feed([]byte{0xAA, 0xBB})
	_, ok = s.Flush()
	assert.False(t, ok)
}

func TestScannerZeroCopySingleFeed(t *testing.T) {
	t.Parallel()
	u1 := testUnit(TypeVPS, []byte{0xAA, 0xBB})
	u2 := testUnit(TypeSPS, []byte{0xCC})
	stream := annexB(u1, u2)

	var s Scanner
	units := s.Feed(stream)
	require.Len(t, units, 1)
	// the unit views the feed buffer rather than copying it
	assert.Equal(t, &stream[4], &units[0].Data[0])
}

func TestScannerMalformedHeaderUnit(t *testing.T) {
	t.Parallel()
	bad := []byte{0x80, 0x01, 0xAA} // forbidden_zero_bit set
	good := testUnit(TypeSPS, []byte{0xBB})
	units := scanAll(t, annexB(bad, good), 3)
	require.Len(t, units, 2)
	assert.ErrorIs(t, units[0].Err, ErrForbiddenBit)
	require.NoError(t, units[1].Err)
	assert.Equal(t, TypeSPS, units[1].Header.Type)
}
