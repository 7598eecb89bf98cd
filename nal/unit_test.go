package nal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want Header
	}{
		{
			name: "idr",
			data: []byte{0x26, 0x01},
			want: Header{Type: TypeIDRWRADL, LayerID: 0, TemporalIDPlus1: 1},
		},
		{
			name: "sps",
			data: []byte{0x42, 0x01},
			want: Header{Type: TypeSPS, LayerID: 0, TemporalIDPlus1: 1},
		},
		{
			name: "trail with temporal id",
			data: []byte{0x02, 0x03},
			want: Header{Type: TypeTrailR, LayerID: 0, TemporalIDPlus1: 3},
		},
		{
			name: "layer id spanning both bytes",
			data: []byte{0x41, 0xF9},
			want: Header{Type: TypeVPS, LayerID: 0x3F, TemporalIDPlus1: 1},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, err := ParseHeader(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h)
		})
	}
}

func TestParseHeaderErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseHeader([]byte{0x40})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncatedHeader)
	var he *HeaderError
	assert.ErrorAs(t, err, &he)

	_, err = ParseHeader([]byte{0x80, 0x01})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbiddenBit)
}

func TestTemporalID(t *testing.T) {
	t.Parallel()
	h, err := ParseHeader([]byte{0x02, 0x03})
	require.NoError(t, err)
	assert.Equal(t, uint8(2), h.TemporalID())
}

func TestUnitTypePredicates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		typ  UnitType
		vcl  bool
		irap bool
		idr  bool
	}{
		{TypeTrailN, true, false, false},
		{TypeTrailR, true, false, false},
		{TypeRASLR, true, false, false},
		{TypeBLAWLP, true, true, false},
		{TypeIDRWRADL, true, true, true},
		{TypeIDRNLP, true, true, true},
		{TypeCRA, true, true, false},
		{UnitType(23), true, true, false},
		{TypeVPS, false, false, false},
		{TypeSPS, false, false, false},
		{TypePPS, false, false, false},
		{TypeSEIPrefix, false, false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.vcl, tt.typ.IsVCL(), "%s IsVCL", tt.typ)
		assert.Equal(t, tt.irap, tt.typ.IsIRAP(), "%s IsIRAP", tt.typ)
		assert.Equal(t, tt.idr, tt.typ.IsIDR(), "%s IsIDR", tt.typ)
	}
}

func TestUnitTypeString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "IDR_W_RADL", TypeIDRWRADL.String())
	assert.Equal(t, "SPS_NUT", TypeSPS.String())
	assert.Equal(t, "UnitType(47)", UnitType(47).String())
}

func TestUnitPayload(t *testing.T) {
	t.Parallel()
	u := Unit{Data: []byte{0x40, 0x01, 0xAA, 0xBB}}
	assert.Equal(t, []byte{0xAA, 0xBB}, u.Payload())
	assert.Nil(t, Unit{Data: []byte{0x40}}.Payload())
}
