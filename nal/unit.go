package nal

import "fmt"

// UnitType is the 6-bit nal_unit_type code from the HEVC NAL unit
// header, as defined in ITU-T H.265 Table 7-1.
type UnitType uint8

const (
	TypeTrailN UnitType = 0
	TypeTrailR UnitType = 1
	TypeTSAN   UnitType = 2
	TypeTSAR   UnitType = 3
	TypeSTSAN  UnitType = 4
	TypeSTSAR  UnitType = 5
	TypeRADLN  UnitType = 6
	TypeRADLR  UnitType = 7
	TypeRASLN  UnitType = 8
	TypeRASLR  UnitType = 9

	TypeBLAWLP   UnitType = 16
	TypeBLAWRADL UnitType = 17
	TypeBLANLP   UnitType = 18
	TypeIDRWRADL UnitType = 19
	TypeIDRNLP   UnitType = 20
	TypeCRA      UnitType = 21

	TypeVPS       UnitType = 32
	TypeSPS       UnitType = 33
	TypePPS       UnitType = 34
	TypeAUD       UnitType = 35
	TypeEOS       UnitType = 36
	TypeEOB       UnitType = 37
	TypeFiller    UnitType = 38
	TypeSEIPrefix UnitType = 39
	TypeSEISuffix UnitType = 40
)

// IsVCL reports whether the type carries coded slice data.
func (t UnitType) IsVCL() bool { return t < 32 }

// hasSliceSegmentHeader reports whether the type has a defined
// slice_segment_header syntax. The reserved VCL ranges do not.
func (t UnitType) hasSliceSegmentHeader() bool {
	return t <= TypeRASLR || (t >= TypeBLAWLP && t <= TypeCRA)
}

// IsIRAP reports whether the type is an intra random access point
// (BLA, IDR, or CRA, including the reserved IRAP range).
func (t UnitType) IsIRAP() bool { return t >= TypeBLAWLP && t <= 23 }

// IsIDR reports whether the type is an instantaneous decoder refresh
// picture.
func (t UnitType) IsIDR() bool { return t == TypeIDRWRADL || t == TypeIDRNLP }

func (t UnitType) String() string {
	switch t {
	case TypeTrailN:
		return "TRAIL_N"
	case TypeTrailR:
		return "TRAIL_R"
	case TypeTSAN:
		return "TSA_N"
	case TypeTSAR:
		return "TSA_R"
	case TypeSTSAN:
		return "STSA_N"
	case TypeSTSAR:
		return "STSA_R"
	case TypeRADLN:
		return "RADL_N"
	case TypeRADLR:
		return "RADL_R"
	case TypeRASLN:
		return "RASL_N"
	case TypeRASLR:
		return "RASL_R"
	case TypeBLAWLP:
		return "BLA_W_LP"
	case TypeBLAWRADL:
		return "BLA_W_RADL"
	case TypeBLANLP:
		return "BLA_N_LP"
	case TypeIDRWRADL:
		return "IDR_W_RADL"
	case TypeIDRNLP:
		return "IDR_N_LP"
	case TypeCRA:
		return "CRA_NUT"
	case TypeVPS:
		return "VPS_NUT"
	case TypeSPS:
		return "SPS_NUT"
	case TypePPS:
		return "PPS_NUT"
	case TypeAUD:
		return "AUD_NUT"
	case TypeEOS:
		return "EOS_NUT"
	case TypeEOB:
		return "EOB_NUT"
	case TypeFiller:
		return "FD_NUT"
	case TypeSEIPrefix:
		return "PREFIX_SEI_NUT"
	case TypeSEISuffix:
		return "SUFFIX_SEI_NUT"
	}
	return fmt.Sprintf("UnitType(%d)", uint8(t))
}

// headerSize is the fixed width of the HEVC NAL unit header.
const headerSize = 2

// Header is the eagerly decoded two-byte NAL unit header:
// forbidden_zero_bit(1) | nal_unit_type(6) | nuh_layer_id(6) |
// nuh_temporal_id_plus1(3).
type Header struct {
	Type            UnitType
	LayerID         uint8
	TemporalIDPlus1 uint8
}

// TemporalID returns nuh_temporal_id_plus1 - 1.
func (h Header) TemporalID() uint8 { return h.TemporalIDPlus1 - 1 }

// ParseHeader decodes the NAL unit header from the first two bytes of p.
func ParseHeader(p []byte) (Header, error) {
	if len(p) < headerSize {
		return Header{}, &HeaderError{Err: ErrTruncatedHeader}
	}
	if p[0]&0x80 != 0 {
		return Header{}, &HeaderError{Err: ErrForbiddenBit}
	}
	return Header{
		Type:            UnitType((p[0] >> 1) & 0x3F),
		LayerID:         (p[0]&0x01)<<5 | p[1]>>3,
		TemporalIDPlus1: p[1] & 0x07,
	}, nil
}

// Unit is one NAL unit discovered by the [Scanner]. Data holds the full
// unit bytes including the two header bytes, with emulation prevention
// still applied; it aliases the buffer passed to Feed whenever the unit
// was contained in a single call. Err is non-nil when the header was
// malformed; such units are still delivered so callers can account for
// them, and scanning continues.
type Unit struct {
	Header Header
	Data   []byte
	Err    error
}

// Payload returns the escaped RBSP bytes following the unit header.
func (u Unit) Payload() []byte {
	if len(u.Data) < headerSize {
		return nil
	}
	return u.Data[headerSize:]
}
