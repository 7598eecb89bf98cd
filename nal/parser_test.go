package nal

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserEndToEnd(t *testing.T) {
	t.Parallel()
	stream := annexB(
		testUnit(TypeVPS, buildVPS(vpsParams{timing: true})),
		testUnit(TypeSPS, buildSPS(spsParams{})),
		testUnit(TypePPS, buildPPS(ppsParams{cabacInit: true})),
		testUnit(TypeSEIPrefix, []byte{0x01, 0x02}),
		testUnit(TypeIDRWRADL, buildIDRSlice(0)),
	)

	p := NewParser(WithLogger(slog.Default()))
	out := p.Feed(stream)
	out = append(out, p.Flush()...)
	require.Len(t, out, 5)

	require.NotNil(t, out[0].VPS)
	fps := mustTiming(t, out[0].VPS).FPS()
	assert.InDelta(t, 50.0, fps, 1e-9)

	require.NotNil(t, out[1].SPS)
	w, h, err := out[1].SPS.PixelDimensions()
	require.NoError(t, err)
	assert.Equal(t, uint32(1920), w)
	assert.Equal(t, uint32(1080), h)

	require.NotNil(t, out[2].PPS)
	id, err := out[2].PPS.ID()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), id)

	// SEI passes through opaque
	assert.Nil(t, out[3].VPS)
	assert.Nil(t, out[3].SPS)
	assert.Nil(t, out[3].PPS)
	assert.Nil(t, out[3].Slice)
	assert.Equal(t, TypeSEIPrefix, out[3].Unit.Header.Type)

	require.NotNil(t, out[4].Slice)
	st, err := out[4].Slice.Type()
	require.NoError(t, err)
	assert.Equal(t, SliceI, st)
}

func mustTiming(t *testing.T, v *VPS) *TimingInfo {
	t.Helper()
	ti, err := v.TimingInfo()
	require.NoError(t, err)
	require.NotNil(t, ti)
	return ti
}

// A slice arriving ahead of its parameter sets resolves once the sets
// show up later in the same stream.
func TestParserSliceBeforeParameterSets(t *testing.T) {
	t.Parallel()
	p := NewParser()

	out := p.Feed(annexB(testUnit(TypeIDRWRADL, buildIDRSlice(0))))
	out = append(out, p.Flush()...)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Slice)

	slice := out[0].Slice
	_, err := slice.Type()
	var unresolved *UnresolvedParameterSetError
	require.ErrorAs(t, err, &unresolved)

	rest := p.Feed(annexB(
		testUnit(TypeSPS, buildSPS(spsParams{})),
		testUnit(TypePPS, buildPPS(ppsParams{cabacInit: true})),
	))
	rest = append(rest, p.Flush()...)
	require.Len(t, rest, 2)

	// the sets are registered now, so the same accessor succeeds
	st, err := slice.Type()
	require.NoError(t, err)
	assert.Equal(t, SliceI, st)
}

func TestParserSharedContext(t *testing.T) {
	t.Parallel()
	ctx := NewContext()

	setup := NewParser(WithContext(ctx))
	setup.Feed(annexB(
		testUnit(TypeSPS, buildSPS(spsParams{})),
		testUnit(TypePPS, buildPPS(ppsParams{cabacInit: true})),
	))
	setup.Flush()
	assert.Same(t, ctx, setup.Context())

	p := NewParser(WithContext(ctx))
	out := p.Feed(annexB(testUnit(TypeIDRWRADL, buildIDRSlice(0))))
	out = append(out, p.Flush()...)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Slice)

	st, err := out[0].Slice.Type()
	require.NoError(t, err)
	assert.Equal(t, SliceI, st)
}

func TestParserMalformedUnitPassesThrough(t *testing.T) {
	t.Parallel()
	p := NewParser()
	out := p.Feed(annexB(
		[]byte{0x80, 0x01, 0xAA}, // forbidden_zero_bit set
		testUnit(TypeSPS, buildSPS(spsParams{})),
	))
	out = append(out, p.Flush()...)
	require.Len(t, out, 2)
	assert.ErrorIs(t, out[0].Unit.Err, ErrForbiddenBit)
	assert.Nil(t, out[0].Slice)
	require.NotNil(t, out[1].SPS)
}

// Reserved VCL codes carry no defined slice segment syntax and pass
// through opaque.
func TestParserReservedVCLPassesThrough(t *testing.T) {
	t.Parallel()
	p := NewParser()
	out := p.Feed(annexB(
		testUnit(UnitType(10), []byte{0xAA}),
		testUnit(UnitType(22), []byte{0xBB}),
	))
	out = append(out, p.Flush()...)
	require.Len(t, out, 2)
	for _, d := range out {
		assert.True(t, d.Unit.Header.Type.IsVCL())
		assert.Nil(t, d.Slice)
	}
}

// Republishing a parameter set under the same ID replaces it for
// slices that follow.
func TestParserParameterSetReplacement(t *testing.T) {
	t.Parallel()
	p := NewParser()

	p.Feed(annexB(testUnit(TypeSPS, buildSPS(spsParams{width: 1280, height: 720}))))
	p.Flush()
	sps, err := p.Context().SPS(0)
	require.NoError(t, err)
	w, _, err := sps.LumaDimensions()
	require.NoError(t, err)
	assert.Equal(t, uint32(1280), w)

	p.Feed(annexB(testUnit(TypeSPS, buildSPS(spsParams{width: 1920, height: 1080}))))
	p.Flush()
	sps, err = p.Context().SPS(0)
	require.NoError(t, err)
	w, _, err = sps.LumaDimensions()
	require.NoError(t, err)
	assert.Equal(t, uint32(1920), w)
}

func TestParserFlushEmpty(t *testing.T) {
	t.Parallel()
	p := NewParser()
	assert.Nil(t, p.Flush())
	assert.Nil(t, p.Feed(nil))
}
