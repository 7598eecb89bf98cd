package nal

import (
	"math/bits"

	"github.com/zsiec/hevc/rbsp"
)

// ChromaFormat is the chroma_format_idc value.
type ChromaFormat uint32

const (
	ChromaMonochrome ChromaFormat = 0
	Chroma420        ChromaFormat = 1
	Chroma422        ChromaFormat = 2
	Chroma444        ChromaFormat = 3
)

func (c ChromaFormat) String() string {
	switch c {
	case ChromaMonochrome:
		return "4:0:0"
	case Chroma420:
		return "4:2:0"
	case Chroma422:
		return "4:2:2"
	case Chroma444:
		return "4:4:4"
	}
	return "invalid"
}

// subWidth and subHeight are the SubWidthC/SubHeightC sub-sampling
// factors from Table 6-1.
func (c ChromaFormat) subWidth() uint32 {
	if c == Chroma420 || c == Chroma422 {
		return 2
	}
	return 1
}

func (c ChromaFormat) subHeight() uint32 {
	if c == Chroma420 {
		return 2
	}
	return 1
}

// Window is a conformance or default display window given as offsets
// from the picture edges, in chroma units.
type Window struct {
	Left   uint32
	Right  uint32
	Top    uint32
	Bottom uint32
}

func parseWindow(r *rbsp.Reader) (*Window, error) {
	present, err := r.ReadFlag()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	var w Window
	if w.Left, err = r.ReadUE(); err != nil {
		return nil, err
	}
	if w.Right, err = r.ReadUE(); err != nil {
		return nil, err
	}
	if w.Top, err = r.ReadUE(); err != nil {
		return nil, err
	}
	if w.Bottom, err = r.ReadUE(); err != nil {
		return nil, err
	}
	return &w, nil
}

// PCM carries the pcm_enabled_flag syntax block.
type PCM struct {
	SampleBitDepthLumaMinus1      uint8
	SampleBitDepthChromaMinus1    uint8
	Log2MinCodingBlockSizeMinus3  uint32
	Log2DiffMaxMinCodingBlockSize uint32
	LoopFilterDisabled            bool
}

// AspectRatio is the VUI sample aspect ratio signalling. Width and
// Height are meaningful only for the extended IDC 255.
type AspectRatio struct {
	IDC    uint8
	Width  uint16
	Height uint16
}

var sarTable = [17][2]uint16{
	{0, 0}, {1, 1}, {12, 11}, {10, 11}, {16, 11}, {40, 33}, {24, 11},
	{20, 11}, {32, 11}, {80, 33}, {18, 11}, {15, 11}, {64, 33},
	{160, 99}, {4, 3}, {3, 2}, {2, 1},
}

// Ratio resolves the signalled aspect ratio to width:height. ok is
// false for unspecified, reserved, and degenerate extended ratios.
func (a *AspectRatio) Ratio() (w, h uint16, ok bool) {
	switch {
	case a == nil || a.IDC == 0:
		return 0, 0, false
	case int(a.IDC) < len(sarTable):
		r := sarTable[a.IDC]
		return r[0], r[1], true
	case a.IDC == 255:
		if a.Width == 0 || a.Height == 0 {
			return 0, 0, false
		}
		return a.Width, a.Height, true
	}
	return 0, 0, false
}

// Overscan is the three-valued overscan_info signalling.
type Overscan uint8

const (
	OverscanUnspecified Overscan = iota
	OverscanAppropriate
	OverscanInappropriate
)

// ColourDescription is the optional colour_description triple.
type ColourDescription struct {
	Primaries uint8
	Transfer  uint8
	Matrix    uint8
}

// VideoSignal is the video_signal_type_present block.
type VideoSignal struct {
	Format    uint8
	FullRange bool
	Colour    *ColourDescription
}

// ChromaLoc is the chroma_loc_info block.
type ChromaLoc struct {
	TopField    uint32
	BottomField uint32
}

// BitstreamRestrictions is the VUI bitstream_restriction block.
type BitstreamRestrictions struct {
	TilesFixedStructure            bool
	MotionVectorsOverPicBoundaries bool
	RestrictedRefPicLists          bool
	MinSpatialSegmentationIDC      uint32
	MaxBytesPerPicDenom            uint32
	MaxBitsPerMinCuDenom           uint32
	Log2MaxMvLengthHorizontal      uint32
	Log2MaxMvLengthVertical        uint32
}

// VUI holds the modeled vui_parameters fields. Optional blocks are nil
// when not signalled.
type VUI struct {
	AspectRatio           *AspectRatio
	Overscan              Overscan
	VideoSignal           *VideoSignal
	ChromaLoc             *ChromaLoc
	NeutralChroma         bool
	FieldSeq              bool
	FrameFieldInfoPresent bool
	DefaultDisplayWindow  *Window
	Timing                *TimingInfo
	Restrictions          *BitstreamRestrictions
}

// SPS is a lazily decoded seq_parameter_set_rbsp. Four field groups are
// decoded in bitstream order on first access: identity and
// profile_tier_level, picture geometry, coding tools, and VUI. The
// payload view must stay valid for the life of the structure.
type SPS struct {
	dec decoder

	vpsID              uint8
	maxSubLayersMinus1 uint8
	temporalIDNesting  bool
	ptl                ProfileTierLevel
	id                 uint8

	chromaFormat         ChromaFormat
	separateColourPlane  bool
	picWidth             uint32
	picHeight            uint32
	confWindow           *Window
	bitDepthLumaMinus8   uint32
	bitDepthChromaMinus8 uint32
	log2MaxPOCLsbMinus4  uint32

	subLayerOrdering                     []SubLayerOrdering
	log2MinLumaCodingBlockSizeMinus3     uint32
	log2DiffMaxMinLumaCodingBlockSize    uint32
	log2MinLumaTransformBlockSizeMinus2  uint32
	log2DiffMaxMinLumaTransformBlockSize uint32
	maxTransformHierarchyDepthInter      uint32
	maxTransformHierarchyDepthIntra      uint32
	scalingListEnabled                   bool
	ampEnabled                           bool
	saoEnabled                           bool
	pcm                                  *PCM
	numShortTermRPS                      uint32
	longTermRefPicsPresent               bool
	temporalMVPEnabled                   bool
	strongIntraSmoothing                 bool

	vui *VUI
}

// NewSPS wraps an escaped SPS payload (the bytes after the two-byte
// unit header). Nothing is decoded until an accessor is called.
func NewSPS(payload []byte) *SPS {
	return &SPS{dec: decoder{r: rbsp.NewReader(payload)}}
}

func (s *SPS) decodeTo(k int) error {
	return s.dec.run(k, []func(*rbsp.Reader) error{
		s.decodeIDAndProfile,
		s.decodeGeometry,
		s.decodeCodingTools,
		s.decodeVUI,
	})
}

func (s *SPS) decodeIDAndProfile(r *rbsp.Reader) error {
	v, err := r.ReadBits(4)
	if err != nil {
		return err
	}
	s.vpsID = uint8(v)
	if v, err = r.ReadBits(3); err != nil {
		return err
	}
	s.maxSubLayersMinus1 = uint8(v)
	if s.temporalIDNesting, err = r.ReadFlag(); err != nil {
		return err
	}
	if s.ptl, err = parseProfileTierLevel(r, true, s.maxSubLayersMinus1); err != nil {
		return err
	}
	id, err := r.ReadUE()
	if err != nil {
		return err
	}
	if id > 15 {
		return &ValueError{Field: "sps_seq_parameter_set_id", Value: id}
	}
	s.id = uint8(id)
	return nil
}

func (s *SPS) decodeGeometry(r *rbsp.Reader) error {
	idc, err := r.ReadUE()
	if err != nil {
		return err
	}
	if idc > 3 {
		return &ValueError{Field: "chroma_format_idc", Value: idc}
	}
	s.chromaFormat = ChromaFormat(idc)
	if s.chromaFormat == Chroma444 {
		if s.separateColourPlane, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	if s.picWidth, err = r.ReadUE(); err != nil {
		return err
	}
	if s.picHeight, err = r.ReadUE(); err != nil {
		return err
	}
	if s.confWindow, err = parseWindow(r); err != nil {
		return err
	}
	if s.bitDepthLumaMinus8, err = r.ReadUE(); err != nil {
		return err
	}
	if s.bitDepthChromaMinus8, err = r.ReadUE(); err != nil {
		return err
	}
	if s.log2MaxPOCLsbMinus4, err = r.ReadUE(); err != nil {
		return err
	}
	if s.log2MaxPOCLsbMinus4 > 12 {
		return &ValueError{Field: "log2_max_pic_order_cnt_lsb_minus4", Value: s.log2MaxPOCLsbMinus4}
	}
	return nil
}

func (s *SPS) decodeCodingTools(r *rbsp.Reader) error {
	ordering, err := parseSubLayerOrdering(r, s.maxSubLayersMinus1)
	if err != nil {
		return err
	}
	s.subLayerOrdering = ordering
	if s.log2MinLumaCodingBlockSizeMinus3, err = r.ReadUE(); err != nil {
		return err
	}
	if s.log2DiffMaxMinLumaCodingBlockSize, err = r.ReadUE(); err != nil {
		return err
	}
	if s.log2MinLumaTransformBlockSizeMinus2, err = r.ReadUE(); err != nil {
		return err
	}
	if s.log2DiffMaxMinLumaTransformBlockSize, err = r.ReadUE(); err != nil {
		return err
	}
	if s.maxTransformHierarchyDepthInter, err = r.ReadUE(); err != nil {
		return err
	}
	if s.maxTransformHierarchyDepthIntra, err = r.ReadUE(); err != nil {
		return err
	}
	if s.scalingListEnabled, err = r.ReadFlag(); err != nil {
		return err
	}
	if s.scalingListEnabled {
		dataPresent, err := r.ReadFlag()
		if err != nil {
			return err
		}
		if dataPresent {
			if err = skipScalingListData(r); err != nil {
				return err
			}
		}
	}
	if s.ampEnabled, err = r.ReadFlag(); err != nil {
		return err
	}
	if s.saoEnabled, err = r.ReadFlag(); err != nil {
		return err
	}
	pcmEnabled, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if pcmEnabled {
		var pcm PCM
		v, err := r.ReadBits(4)
		if err != nil {
			return err
		}
		pcm.SampleBitDepthLumaMinus1 = uint8(v)
		if v, err = r.ReadBits(4); err != nil {
			return err
		}
		pcm.SampleBitDepthChromaMinus1 = uint8(v)
		if pcm.Log2MinCodingBlockSizeMinus3, err = r.ReadUE(); err != nil {
			return err
		}
		if pcm.Log2DiffMaxMinCodingBlockSize, err = r.ReadUE(); err != nil {
			return err
		}
		if pcm.LoopFilterDisabled, err = r.ReadFlag(); err != nil {
			return err
		}
		s.pcm = &pcm
	}
	if s.numShortTermRPS, err = r.ReadUE(); err != nil {
		return err
	}
	if s.numShortTermRPS > 64 {
		return &ValueError{Field: "num_short_term_ref_pic_sets", Value: s.numShortTermRPS}
	}
	for i := uint32(0); i < s.numShortTermRPS; i++ {
		if err = parseShortTermRPS(r, i, s.numShortTermRPS); err != nil {
			return err
		}
	}
	if s.longTermRefPicsPresent, err = r.ReadFlag(); err != nil {
		return err
	}
	if s.longTermRefPicsPresent {
		num, err := r.ReadUE()
		if err != nil {
			return err
		}
		if num > 32 {
			return &ValueError{Field: "num_long_term_ref_pics_sps", Value: num}
		}
		pocLsbBits := int(s.log2MaxPOCLsbMinus4) + 4
		for i := uint32(0); i < num; i++ {
			if _, err = r.ReadBits(pocLsbBits); err != nil { // lt_ref_pic_poc_lsb_sps[i]
				return err
			}
			if _, err = r.ReadFlag(); err != nil { // used_by_curr_pic_lt_sps_flag[i]
				return err
			}
		}
	}
	if s.temporalMVPEnabled, err = r.ReadFlag(); err != nil {
		return err
	}
	s.strongIntraSmoothing, err = r.ReadFlag()
	return err
}

func (s *SPS) decodeVUI(r *rbsp.Reader) error {
	present, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if !present {
		return nil
	}
	var vui VUI
	arPresent, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if arPresent {
		var ar AspectRatio
		v, err := r.ReadBits(8)
		if err != nil {
			return err
		}
		ar.IDC = uint8(v)
		if ar.IDC == 255 {
			if v, err = r.ReadBits(16); err != nil {
				return err
			}
			ar.Width = uint16(v)
			if v, err = r.ReadBits(16); err != nil {
				return err
			}
			ar.Height = uint16(v)
		}
		vui.AspectRatio = &ar
	}
	overscanPresent, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if overscanPresent {
		appropriate, err := r.ReadFlag()
		if err != nil {
			return err
		}
		if appropriate {
			vui.Overscan = OverscanAppropriate
		} else {
			vui.Overscan = OverscanInappropriate
		}
	}
	signalPresent, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if signalPresent {
		var vs VideoSignal
		v, err := r.ReadBits(3)
		if err != nil {
			return err
		}
		vs.Format = uint8(v)
		if vs.FullRange, err = r.ReadFlag(); err != nil {
			return err
		}
		colourPresent, err := r.ReadFlag()
		if err != nil {
			return err
		}
		if colourPresent {
			var cd ColourDescription
			if v, err = r.ReadBits(8); err != nil {
				return err
			}
			cd.Primaries = uint8(v)
			if v, err = r.ReadBits(8); err != nil {
				return err
			}
			cd.Transfer = uint8(v)
			if v, err = r.ReadBits(8); err != nil {
				return err
			}
			cd.Matrix = uint8(v)
			vs.Colour = &cd
		}
		vui.VideoSignal = &vs
	}
	chromaLocPresent, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if chromaLocPresent {
		var cl ChromaLoc
		if cl.TopField, err = r.ReadUE(); err != nil {
			return err
		}
		if cl.BottomField, err = r.ReadUE(); err != nil {
			return err
		}
		vui.ChromaLoc = &cl
	}
	if vui.NeutralChroma, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.FieldSeq, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.FrameFieldInfoPresent, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.DefaultDisplayWindow, err = parseWindow(r); err != nil {
		return err
	}
	timingPresent, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if timingPresent {
		if vui.Timing, err = parseTimingInfo(r); err != nil {
			return err
		}
		hrdPresent, err := r.ReadFlag()
		if err != nil {
			return err
		}
		if hrdPresent {
			if err = skipHrdParameters(r, true, s.maxSubLayersMinus1); err != nil {
				return err
			}
		}
	}
	restrictionsPresent, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if restrictionsPresent {
		var br BitstreamRestrictions
		if br.TilesFixedStructure, err = r.ReadFlag(); err != nil {
			return err
		}
		if br.MotionVectorsOverPicBoundaries, err = r.ReadFlag(); err != nil {
			return err
		}
		if br.RestrictedRefPicLists, err = r.ReadFlag(); err != nil {
			return err
		}
		if br.MinSpatialSegmentationIDC, err = r.ReadUE(); err != nil {
			return err
		}
		if br.MaxBytesPerPicDenom, err = r.ReadUE(); err != nil {
			return err
		}
		if br.MaxBitsPerMinCuDenom, err = r.ReadUE(); err != nil {
			return err
		}
		if br.Log2MaxMvLengthHorizontal, err = r.ReadUE(); err != nil {
			return err
		}
		if br.Log2MaxMvLengthVertical, err = r.ReadUE(); err != nil {
			return err
		}
		vui.Restrictions = &br
	}
	s.vui = &vui
	return nil
}

// ID returns sps_seq_parameter_set_id, triggering the first field
// group if needed.
func (s *SPS) ID() (uint8, error) {
	if err := s.decodeTo(0); err != nil {
		return 0, err
	}
	return s.id, nil
}

func (s *SPS) VPSID() (uint8, error) {
	if err := s.decodeTo(0); err != nil {
		return 0, err
	}
	return s.vpsID, nil
}

func (s *SPS) MaxSubLayers() (uint8, error) {
	if err := s.decodeTo(0); err != nil {
		return 0, err
	}
	return s.maxSubLayersMinus1 + 1, nil
}

func (s *SPS) TemporalIDNesting() (bool, error) {
	if err := s.decodeTo(0); err != nil {
		return false, err
	}
	return s.temporalIDNesting, nil
}

func (s *SPS) ProfileTierLevel() (ProfileTierLevel, error) {
	if err := s.decodeTo(0); err != nil {
		return ProfileTierLevel{}, err
	}
	return s.ptl, nil
}

// Profile resolves the general profile. ProfileUnknown when the
// constraint flags match no known combination.
func (s *SPS) Profile() (Profile, error) {
	if err := s.decodeTo(0); err != nil {
		return ProfileUnknown, err
	}
	if s.ptl.GeneralProfile == nil {
		return ProfileUnknown, nil
	}
	return s.ptl.GeneralProfile.Profile(), nil
}

func (s *SPS) Tier() (Tier, error) {
	if err := s.decodeTo(0); err != nil {
		return TierMain, err
	}
	if s.ptl.GeneralProfile == nil {
		return TierMain, nil
	}
	return s.ptl.GeneralProfile.Tier(), nil
}

func (s *SPS) Level() (Level, error) {
	if err := s.decodeTo(0); err != nil {
		return 0, err
	}
	return s.ptl.GeneralLevelIDC, nil
}

func (s *SPS) ChromaFormat() (ChromaFormat, error) {
	if err := s.decodeTo(1); err != nil {
		return 0, err
	}
	return s.chromaFormat, nil
}

func (s *SPS) SeparateColourPlane() (bool, error) {
	if err := s.decodeTo(1); err != nil {
		return false, err
	}
	return s.separateColourPlane, nil
}

// LumaDimensions returns pic_width/height_in_luma_samples, before
// conformance window cropping.
func (s *SPS) LumaDimensions() (width, height uint32, err error) {
	if err := s.decodeTo(1); err != nil {
		return 0, 0, err
	}
	return s.picWidth, s.picHeight, nil
}

// PixelDimensions returns the displayed picture size: the luma
// dimensions with the conformance window offsets cropped away in the
// chroma sub-sampling units of Table 6-1.
func (s *SPS) PixelDimensions() (width, height uint32, err error) {
	if err := s.decodeTo(1); err != nil {
		return 0, 0, err
	}
	width, height = s.picWidth, s.picHeight
	if s.confWindow == nil {
		return width, height, nil
	}
	// separate colour planes are coded as monochrome
	cf := s.chromaFormat
	if s.separateColourPlane {
		cf = ChromaMonochrome
	}
	hCrop := cf.subWidth() * (s.confWindow.Left + s.confWindow.Right)
	vCrop := cf.subHeight() * (s.confWindow.Top + s.confWindow.Bottom)
	if hCrop > width || vCrop > height {
		return 0, 0, &ValueError{Field: "conformance_window", Value: hCrop}
	}
	return width - hCrop, height - vCrop, nil
}

func (s *SPS) ConformanceWindow() (*Window, error) {
	if err := s.decodeTo(1); err != nil {
		return nil, err
	}
	return s.confWindow, nil
}

func (s *SPS) BitDepths() (luma, chroma uint32, err error) {
	if err := s.decodeTo(1); err != nil {
		return 0, 0, err
	}
	return s.bitDepthLumaMinus8 + 8, s.bitDepthChromaMinus8 + 8, nil
}

func (s *SPS) Log2MaxPicOrderCntLsb() (uint32, error) {
	if err := s.decodeTo(1); err != nil {
		return 0, err
	}
	return s.log2MaxPOCLsbMinus4 + 4, nil
}

func (s *SPS) SubLayerOrdering() ([]SubLayerOrdering, error) {
	if err := s.decodeTo(2); err != nil {
		return nil, err
	}
	return s.subLayerOrdering, nil
}

func (s *SPS) SampleAdaptiveOffsetEnabled() (bool, error) {
	if err := s.decodeTo(2); err != nil {
		return false, err
	}
	return s.saoEnabled, nil
}

func (s *SPS) AMPEnabled() (bool, error) {
	if err := s.decodeTo(2); err != nil {
		return false, err
	}
	return s.ampEnabled, nil
}

func (s *SPS) ScalingListEnabled() (bool, error) {
	if err := s.decodeTo(2); err != nil {
		return false, err
	}
	return s.scalingListEnabled, nil
}

// PCM returns the PCM coding block, or nil when PCM is disabled.
func (s *SPS) PCM() (*PCM, error) {
	if err := s.decodeTo(2); err != nil {
		return nil, err
	}
	return s.pcm, nil
}

func (s *SPS) NumShortTermRefPicSets() (uint32, error) {
	if err := s.decodeTo(2); err != nil {
		return 0, err
	}
	return s.numShortTermRPS, nil
}

func (s *SPS) LongTermRefPicsPresent() (bool, error) {
	if err := s.decodeTo(2); err != nil {
		return false, err
	}
	return s.longTermRefPicsPresent, nil
}

func (s *SPS) TemporalMVPEnabled() (bool, error) {
	if err := s.decodeTo(2); err != nil {
		return false, err
	}
	return s.temporalMVPEnabled, nil
}

func (s *SPS) StrongIntraSmoothingEnabled() (bool, error) {
	if err := s.decodeTo(2); err != nil {
		return false, err
	}
	return s.strongIntraSmoothing, nil
}

// CtbLog2SizeY derives the coding tree block size exponent.
func (s *SPS) CtbLog2SizeY() (uint32, error) {
	if err := s.decodeTo(2); err != nil {
		return 0, err
	}
	return s.log2MinLumaCodingBlockSizeMinus3 + 3 + s.log2DiffMaxMinLumaCodingBlockSize, nil
}

// PicSizeInCtbs derives the picture size in coding tree blocks, the
// address space of slice_segment_address.
func (s *SPS) PicSizeInCtbs() (uint32, error) {
	ctbLog2, err := s.CtbLog2SizeY()
	if err != nil {
		return 0, err
	}
	if ctbLog2 > 6 {
		return 0, &ValueError{Field: "log2_diff_max_min_luma_coding_block_size", Value: ctbLog2}
	}
	ctb := uint32(1) << ctbLog2
	widthInCtbs := (s.picWidth + ctb - 1) / ctb
	heightInCtbs := (s.picHeight + ctb - 1) / ctb
	return widthInCtbs * heightInCtbs, nil
}

// VUI returns the VUI parameters, or nil when the stream carries none.
func (s *SPS) VUI() (*VUI, error) {
	if err := s.decodeTo(3); err != nil {
		return nil, err
	}
	return s.vui, nil
}

// FPS derives the frame rate from VUI timing info. Zero when the
// stream declares none.
func (s *SPS) FPS() (float64, error) {
	if err := s.decodeTo(3); err != nil {
		return 0, err
	}
	if s.vui == nil {
		return 0, nil
	}
	return s.vui.Timing.FPS(), nil
}

// sliceAddressBits is the u(v) width of slice_segment_address.
func (s *SPS) sliceAddressBits() (int, error) {
	picSize, err := s.PicSizeInCtbs()
	if err != nil {
		return 0, err
	}
	if picSize == 0 {
		return 0, &ValueError{Field: "pic_size_in_ctbs", Value: picSize}
	}
	return bits.Len32(picSize - 1), nil
}

// parseShortTermRPS consumes one st_ref_pic_set structure. The
// contents are not retained; only the exact widths matter. Inter-set
// prediction needs the referenced set's NumDeltaPocs derivation, which
// is not modeled.
func parseShortTermRPS(r *rbsp.Reader, idx, numSets uint32) error {
	interPrediction := false
	var err error
	if idx != 0 {
		if interPrediction, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	if interPrediction {
		return &UnsupportedSyntaxError{Field: "inter_ref_pic_set_prediction_flag"}
	}
	numNegative, err := r.ReadUE()
	if err != nil {
		return err
	}
	numPositive, err := r.ReadUE()
	if err != nil {
		return err
	}
	for i := uint32(0); i < numNegative; i++ {
		if _, err = r.ReadUE(); err != nil { // delta_poc_s0_minus1[i]
			return err
		}
		if _, err = r.ReadFlag(); err != nil { // used_by_curr_pic_s0_flag[i]
			return err
		}
	}
	for i := uint32(0); i < numPositive; i++ {
		if _, err = r.ReadUE(); err != nil { // delta_poc_s1_minus1[i]
			return err
		}
		if _, err = r.ReadFlag(); err != nil { // used_by_curr_pic_s1_flag[i]
			return err
		}
	}
	return nil
}

// skipScalingListData consumes a scaling_list_data structure without
// retaining the coefficients.
func skipScalingListData(r *rbsp.Reader) error {
	for sizeID := 0; sizeID < 4; sizeID++ {
		step := 1
		if sizeID == 3 {
			step = 3
		}
		for matrixID := 0; matrixID < 6; matrixID += step {
			predMode, err := r.ReadFlag()
			if err != nil {
				return err
			}
			if !predMode {
				if _, err = r.ReadUE(); err != nil { // scaling_list_pred_matrix_id_delta
					return err
				}
				continue
			}
			coefNum := 64
			if n := 1 << (4 + (sizeID << 1)); n < coefNum {
				coefNum = n
			}
			if sizeID > 1 {
				if _, err = r.ReadSE(); err != nil { // scaling_list_dc_coef_minus8
					return err
				}
			}
			for i := 0; i < coefNum; i++ {
				if _, err = r.ReadSE(); err != nil { // scaling_list_delta_coef
					return err
				}
			}
		}
	}
	return nil
}
