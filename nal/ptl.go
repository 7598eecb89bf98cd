package nal

import (
	"fmt"

	"github.com/zsiec/hevc/rbsp"
)

// Tier is the general_tier_flag interpreted per Annex A.
type Tier uint8

const (
	TierMain Tier = iota
	TierHigh
)

func (t Tier) String() string {
	if t == TierHigh {
		return "High"
	}
	return "Main"
}

// Level carries a level_idc value, which is 30x the level number
// (level 5.1 is 153).
type Level uint8

const (
	Level1   Level = 30
	Level2   Level = 60
	Level2_1 Level = 63
	Level3   Level = 90
	Level3_1 Level = 93
	Level4   Level = 120
	Level4_1 Level = 123
	Level5   Level = 150
	Level5_1 Level = 153
	Level5_2 Level = 156
	Level6   Level = 180
	Level6_1 Level = 183
	Level6_2 Level = 186
	Level8_5 Level = 255
)

func (l Level) String() string {
	if l%30 == 0 {
		return fmt.Sprintf("%d", l/30)
	}
	return fmt.Sprintf("%d.%d", l/30, (l%30)/3)
}

// Profile names a combination of general_profile_idc and constraint
// flags per Annex A.
type Profile int

const (
	ProfileUnknown Profile = iota
	ProfileMain
	ProfileMain10
	ProfileMain10StillPicture
	ProfileMainStillPicture
	ProfileMonochrome
	ProfileMonochrome10
	ProfileMonochrome12
	ProfileMonochrome16
	ProfileMain12
	ProfileMain422_10
	ProfileMain422_12
	ProfileMain444
	ProfileMain444_10
	ProfileMain444_12
	ProfileMainIntra
	ProfileMain10Intra
	ProfileMain12Intra
	ProfileMain422_10Intra
	ProfileMain422_12Intra
	ProfileMain444Intra
	ProfileMain444_10Intra
	ProfileMain444_12Intra
	ProfileMain444_16Intra
	ProfileMain444StillPicture
	ProfileMain444_16StillPicture
	ProfileHighThroughput444
	ProfileHighThroughput444_10
	ProfileHighThroughput444_14
	ProfileHighThroughput444_16Intra
	ProfileScreenExtendedMain
	ProfileScreenExtendedMain10
	ProfileScreenExtendedMain444
	ProfileScreenExtendedMain444_10
	ProfileScreenExtendedHighThroughput444
	ProfileScreenExtendedHighThroughput444_10
	ProfileScreenExtendedHighThroughput444_14
	ProfileScalableMain
	ProfileScalableMain10
	ProfileScalableMonochrome
	ProfileScalableMonochrome12
	ProfileScalableMonochrome16
	ProfileScalableMain444
	ProfileMultiviewMain
	Profile3DMain
)

// LayerProfile is the per-layer portion of profile_tier_level: the
// profile space, tier, profile idc, compatibility flags, and the
// constraint flags whose presence depends on the profile family.
type LayerProfile struct {
	ProfileSpace       uint8
	TierFlag           bool
	ProfileIDC         uint8
	CompatibilityFlags [32]bool

	ProgressiveSource bool
	InterlacedSource  bool
	NonPacked         bool
	FrameOnly         bool

	Max14Bit       bool
	Max12Bit       bool
	Max10Bit       bool
	Max8Bit        bool
	Max422Chroma   bool
	Max420Chroma   bool
	MaxMonochrome  bool
	Intra          bool
	OnePictureOnly bool
	LowerBitRate   bool
	INBLD          bool
}

// idcOrCompat reports whether the layer declares the given profile idc
// either directly or through its compatibility flag.
func (p *LayerProfile) idcOrCompat(idc uint8) bool {
	return p.ProfileIDC == idc || p.CompatibilityFlags[idc]
}

func (p *LayerProfile) anyIdcOrCompat(idcs ...uint8) bool {
	for _, idc := range idcs {
		if p.idcOrCompat(idc) {
			return true
		}
	}
	return false
}

func (p *LayerProfile) Tier() Tier {
	if p.TierFlag {
		return TierHigh
	}
	return TierMain
}

// Bit positions of the constraint flags within the key built by
// constraintKey, most significant first.
const (
	keyMax14Bit uint16 = 1 << (9 - iota)
	keyMax12Bit
	keyMax10Bit
	keyMax8Bit
	keyMax422Chroma
	keyMax420Chroma
	keyMaxMonochrome
	keyIntra
	keyOnePictureOnly
	keyLowerBitRate
)

func (p *LayerProfile) constraintKey() uint16 {
	var k uint16
	for _, f := range []struct {
		set bool
		bit uint16
	}{
		{p.Max14Bit, keyMax14Bit},
		{p.Max12Bit, keyMax12Bit},
		{p.Max10Bit, keyMax10Bit},
		{p.Max8Bit, keyMax8Bit},
		{p.Max422Chroma, keyMax422Chroma},
		{p.Max420Chroma, keyMax420Chroma},
		{p.MaxMonochrome, keyMaxMonochrome},
		{p.Intra, keyIntra},
		{p.OnePictureOnly, keyOnePictureOnly},
		{p.LowerBitRate, keyLowerBitRate},
	} {
		if f.set {
			k |= f.bit
		}
	}
	return k
}

// Profile maps the decoded idc and constraint flags to the lowest
// profile the layer declares compatibility with. A stream can conform
// to several profiles at once; this picks the first match in Annex A
// order.
func (p *LayerProfile) Profile() Profile {
	switch {
	case p.idcOrCompat(1):
		return ProfileMain
	case p.idcOrCompat(2):
		if p.OnePictureOnly {
			return ProfileMain10StillPicture
		}
		return ProfileMain10
	case p.idcOrCompat(3):
		return ProfileMainStillPicture
	case p.idcOrCompat(4):
		return p.rangeExtensionProfile()
	case p.idcOrCompat(5):
		switch p.constraintKey() {
		case keyMax14Bit | keyMax12Bit | keyMax10Bit | keyMax8Bit | keyLowerBitRate:
			return ProfileHighThroughput444
		case keyMax14Bit | keyMax12Bit | keyMax10Bit | keyLowerBitRate:
			return ProfileHighThroughput444_10
		case keyMax14Bit | keyLowerBitRate:
			return ProfileHighThroughput444_14
		}
		if p.constraintKey()&^keyLowerBitRate == keyIntra {
			return ProfileHighThroughput444_16Intra
		}
	case p.idcOrCompat(6):
		if p.constraintKey() == keyMax12Bit|keyMax10Bit|keyMax8Bit|keyMax422Chroma|keyMax420Chroma|keyLowerBitRate {
			return ProfileMultiviewMain
		}
	case p.idcOrCompat(7):
		switch p.constraintKey() {
		case keyMax12Bit | keyMax10Bit | keyMax8Bit | keyMax422Chroma | keyMax420Chroma | keyLowerBitRate:
			return ProfileScalableMain
		case keyMax12Bit | keyMax10Bit | keyMax422Chroma | keyMax420Chroma | keyLowerBitRate:
			return ProfileScalableMain10
		}
	case p.idcOrCompat(8):
		if p.constraintKey() == keyMax12Bit|keyMax10Bit|keyMax8Bit|keyMax422Chroma|keyMax420Chroma|keyLowerBitRate {
			return Profile3DMain
		}
	case p.idcOrCompat(9):
		switch p.constraintKey() {
		case keyMax14Bit | keyMax12Bit | keyMax10Bit | keyMax8Bit | keyMax422Chroma | keyMax420Chroma | keyLowerBitRate:
			return ProfileScreenExtendedMain
		case keyMax14Bit | keyMax12Bit | keyMax10Bit | keyMax422Chroma | keyMax420Chroma | keyLowerBitRate:
			return ProfileScreenExtendedMain10
		case keyMax14Bit | keyMax12Bit | keyMax10Bit | keyMax8Bit | keyLowerBitRate:
			return ProfileScreenExtendedMain444
		case keyMax14Bit | keyMax12Bit | keyMax10Bit | keyLowerBitRate:
			return ProfileScreenExtendedMain444_10
		}
	case p.idcOrCompat(10):
		switch p.constraintKey() {
		case keyMax14Bit | keyMax12Bit | keyMax10Bit | keyMax8Bit | keyMax422Chroma | keyMax420Chroma | keyMaxMonochrome | keyLowerBitRate:
			return ProfileScalableMonochrome
		case keyMax14Bit | keyMax12Bit | keyMax422Chroma | keyMax420Chroma | keyMaxMonochrome | keyLowerBitRate:
			return ProfileScalableMonochrome12
		case keyMax422Chroma | keyMax420Chroma | keyMaxMonochrome | keyLowerBitRate:
			return ProfileScalableMonochrome16
		case keyMax14Bit | keyMax12Bit | keyMax10Bit | keyMax8Bit | keyLowerBitRate:
			return ProfileScalableMain444
		}
	case p.idcOrCompat(11):
		switch p.constraintKey() {
		case keyMax14Bit | keyMax12Bit | keyMax10Bit | keyMax8Bit | keyLowerBitRate:
			return ProfileScreenExtendedHighThroughput444
		case keyMax14Bit | keyMax12Bit | keyMax10Bit | keyLowerBitRate:
			return ProfileScreenExtendedHighThroughput444_10
		case keyMax14Bit | keyLowerBitRate:
			return ProfileScreenExtendedHighThroughput444_14
		}
	}
	return ProfileUnknown
}

// rangeExtensionProfile resolves the format range extension profiles
// (profile_idc 4). Max14Bit is not signalled for this family and the
// intra profiles leave LowerBitRate unconstrained.
func (p *LayerProfile) rangeExtensionProfile() Profile {
	key := p.constraintKey()
	switch key {
	case keyMax12Bit | keyMax10Bit | keyMax8Bit | keyMax422Chroma | keyMax420Chroma | keyMaxMonochrome | keyLowerBitRate:
		return ProfileMonochrome
	case keyMax12Bit | keyMax10Bit | keyMax422Chroma | keyMax420Chroma | keyMaxMonochrome | keyLowerBitRate:
		return ProfileMonochrome10
	case keyMax12Bit | keyMax422Chroma | keyMax420Chroma | keyMaxMonochrome | keyLowerBitRate:
		return ProfileMonochrome12
	case keyMax422Chroma | keyMax420Chroma | keyMaxMonochrome | keyLowerBitRate:
		return ProfileMonochrome16
	case keyMax12Bit | keyMax422Chroma | keyMax420Chroma | keyLowerBitRate:
		return ProfileMain12
	case keyMax12Bit | keyMax10Bit | keyMax422Chroma | keyLowerBitRate:
		return ProfileMain422_10
	case keyMax12Bit | keyMax422Chroma | keyLowerBitRate:
		return ProfileMain422_12
	case keyMax12Bit | keyMax10Bit | keyMax8Bit | keyLowerBitRate:
		return ProfileMain444
	case keyMax12Bit | keyMax10Bit | keyLowerBitRate:
		return ProfileMain444_10
	case keyMax12Bit | keyLowerBitRate:
		return ProfileMain444_12
	}
	switch key &^ keyLowerBitRate {
	case keyMax12Bit | keyMax10Bit | keyMax8Bit | keyMax422Chroma | keyMax420Chroma | keyIntra:
		return ProfileMainIntra
	case keyMax12Bit | keyMax10Bit | keyMax422Chroma | keyMax420Chroma | keyIntra:
		return ProfileMain10Intra
	case keyMax12Bit | keyMax422Chroma | keyMax420Chroma | keyIntra:
		return ProfileMain12Intra
	case keyMax12Bit | keyMax10Bit | keyMax422Chroma | keyIntra:
		return ProfileMain422_10Intra
	case keyMax12Bit | keyMax422Chroma | keyIntra:
		return ProfileMain422_12Intra
	case keyMax12Bit | keyMax10Bit | keyMax8Bit | keyIntra:
		return ProfileMain444Intra
	case keyMax12Bit | keyMax10Bit | keyIntra:
		return ProfileMain444_10Intra
	case keyMax12Bit | keyIntra:
		return ProfileMain444_12Intra
	case keyIntra:
		return ProfileMain444_16Intra
	case keyMax12Bit | keyMax10Bit | keyMax8Bit | keyIntra | keyOnePictureOnly:
		return ProfileMain444StillPicture
	case keyIntra | keyOnePictureOnly:
		return ProfileMain444_16StillPicture
	}
	return ProfileUnknown
}

func parseLayerProfile(r *rbsp.Reader) (LayerProfile, error) {
	var p LayerProfile
	v, err := r.ReadBits(2)
	if err != nil {
		return p, err
	}
	p.ProfileSpace = uint8(v)
	if p.TierFlag, err = r.ReadFlag(); err != nil {
		return p, err
	}
	if v, err = r.ReadBits(5); err != nil {
		return p, err
	}
	p.ProfileIDC = uint8(v)
	for i := range p.CompatibilityFlags {
		if p.CompatibilityFlags[i], err = r.ReadFlag(); err != nil {
			return p, err
		}
	}
	if p.ProgressiveSource, err = r.ReadFlag(); err != nil {
		return p, err
	}
	if p.InterlacedSource, err = r.ReadFlag(); err != nil {
		return p, err
	}
	if p.NonPacked, err = r.ReadFlag(); err != nil {
		return p, err
	}
	if p.FrameOnly, err = r.ReadFlag(); err != nil {
		return p, err
	}

	switch {
	case p.anyIdcOrCompat(4, 5, 6, 7, 8, 9, 10, 11):
		if p.Max12Bit, err = r.ReadFlag(); err != nil {
			return p, err
		}
		if p.Max10Bit, err = r.ReadFlag(); err != nil {
			return p, err
		}
		if p.Max8Bit, err = r.ReadFlag(); err != nil {
			return p, err
		}
		if p.Max422Chroma, err = r.ReadFlag(); err != nil {
			return p, err
		}
		if p.Max420Chroma, err = r.ReadFlag(); err != nil {
			return p, err
		}
		if p.MaxMonochrome, err = r.ReadFlag(); err != nil {
			return p, err
		}
		if p.Intra, err = r.ReadFlag(); err != nil {
			return p, err
		}
		if p.OnePictureOnly, err = r.ReadFlag(); err != nil {
			return p, err
		}
		if p.LowerBitRate, err = r.ReadFlag(); err != nil {
			return p, err
		}
		if p.anyIdcOrCompat(5, 9, 10, 11) {
			if p.Max14Bit, err = r.ReadFlag(); err != nil {
				return p, err
			}
			if err = r.SkipBits(33); err != nil {
				return p, err
			}
		} else if err = r.SkipBits(34); err != nil {
			return p, err
		}
	case p.idcOrCompat(2):
		if err = r.SkipBits(7); err != nil {
			return p, err
		}
		if p.OnePictureOnly, err = r.ReadFlag(); err != nil {
			return p, err
		}
		if err = r.SkipBits(35); err != nil {
			return p, err
		}
	default:
		if err = r.SkipBits(43); err != nil {
			return p, err
		}
	}

	if p.anyIdcOrCompat(1, 2, 3, 4, 5, 9, 11) {
		if p.INBLD, err = r.ReadFlag(); err != nil {
			return p, err
		}
	} else if err = r.SkipBits(1); err != nil {
		return p, err
	}
	return p, nil
}

// SubLayerProfileLevel is one temporal sub-layer's optional profile and
// level signalling inside profile_tier_level.
type SubLayerProfileLevel struct {
	Profile      *LayerProfile
	LevelIDC     Level
	LevelPresent bool
}

// ProfileTierLevel is the profile_tier_level syntax structure shared by
// the VPS and SPS.
type ProfileTierLevel struct {
	GeneralProfile  *LayerProfile
	GeneralLevelIDC Level
	SubLayers       [maxSubLayers - 1]SubLayerProfileLevel
}

const maxSubLayers = 8

func parseProfileTierLevel(r *rbsp.Reader, profilePresent bool, maxNumSubLayersMinus1 uint8) (ProfileTierLevel, error) {
	var ptl ProfileTierLevel
	if maxNumSubLayersMinus1 >= maxSubLayers {
		return ptl, &ValueError{Field: "sps_max_sub_layers_minus1", Value: uint32(maxNumSubLayersMinus1)}
	}
	if profilePresent {
		p, err := parseLayerProfile(r)
		if err != nil {
			return ptl, err
		}
		ptl.GeneralProfile = &p
	}
	v, err := r.ReadBits(8)
	if err != nil {
		return ptl, err
	}
	ptl.GeneralLevelIDC = Level(v)

	var profilePresentFlags, levelPresentFlags [maxSubLayers - 1]bool
	for i := 0; i < int(maxNumSubLayersMinus1); i++ {
		if profilePresentFlags[i], err = r.ReadFlag(); err != nil {
			return ptl, err
		}
		if levelPresentFlags[i], err = r.ReadFlag(); err != nil {
			return ptl, err
		}
	}
	if maxNumSubLayersMinus1 > 0 {
		// reserved_zero_2bits up to the fixed array bound
		if err = r.SkipBits(2 * (maxSubLayers - int(maxNumSubLayersMinus1))); err != nil {
			return ptl, err
		}
	}
	for i := 0; i < int(maxNumSubLayersMinus1); i++ {
		if profilePresentFlags[i] {
			p, err := parseLayerProfile(r)
			if err != nil {
				return ptl, err
			}
			ptl.SubLayers[i].Profile = &p
		}
		if levelPresentFlags[i] {
			if v, err = r.ReadBits(8); err != nil {
				return ptl, err
			}
			ptl.SubLayers[i].LevelIDC = Level(v)
			ptl.SubLayers[i].LevelPresent = true
		}
	}
	return ptl, nil
}
