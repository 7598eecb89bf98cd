package nal

import (
	"fmt"
	"math/bits"

	"github.com/zsiec/hevc/rbsp"
)

// SliceType is the slice_type syntax element.
type SliceType uint8

const (
	SliceB SliceType = 0
	SliceP SliceType = 1
	SliceI SliceType = 2
)

func (t SliceType) String() string {
	switch t {
	case SliceB:
		return "B"
	case SliceP:
		return "P"
	case SliceI:
		return "I"
	}
	return fmt.Sprintf("SliceType(%d)", uint8(t))
}

// SliceHeader is a lazily decoded slice_segment_header. The first
// field group is context-free; the second resolves the PPS (and
// through it the SPS) in the Context at decode time, so it fails with
// an UnresolvedParameterSetError until both are registered. That
// failure does not latch: registering the missing set and calling the
// accessor again resumes the decode at the same bit position.
//
// Fields past the loop filter controls (entry point offsets onward)
// are not modeled and no accessor reaches them.
type SliceHeader struct {
	dec decoder
	hdr Header
	ctx *Context

	firstSlice          bool
	noOutputOfPriorPics bool
	ppsID               uint8

	pps *PPS
	sps *SPS

	dependent      bool
	segmentAddress uint32

	sliceType              SliceType
	picOutput              bool
	colourPlaneID          uint8
	pocLsb                 uint32
	shortTermRPSIdx        uint32
	shortTermRPSFromSPS    bool
	temporalMVP            bool
	saoLuma                bool
	saoChroma              bool
	numRefIdxActiveMinus1  [2]uint32
	mvdL1Zero              bool
	cabacInit              bool
	collocatedFromL0       bool
	collocatedRefIdx       uint32
	maxNumMergeCand        uint32
	qpDelta                int32
	cbQPOffset             int32
	crQPOffset             int32
	deblockingOverride     bool
	deblockingDisabled     bool
	betaOffsetDiv2         int32
	tcOffsetDiv2           int32
	loopFilterAcrossSlices bool
}

// NewSliceHeader wraps a VCL unit's payload. ctx supplies the PPS and
// SPS the header references; they are looked up at decode time, not
// now.
func NewSliceHeader(u Unit, ctx *Context) *SliceHeader {
	return &SliceHeader{
		dec: decoder{r: rbsp.NewReader(u.Payload())},
		hdr: u.Header,
		ctx: ctx,
	}
}

func (s *SliceHeader) decodeTo(k int) error {
	return s.dec.run(k, []func(*rbsp.Reader) error{
		s.decodeIdentity,
		s.decodeBody,
	})
}

func (s *SliceHeader) decodeIdentity(r *rbsp.Reader) error {
	var err error
	if s.firstSlice, err = r.ReadFlag(); err != nil {
		return err
	}
	if s.hdr.Type.IsIRAP() {
		if s.noOutputOfPriorPics, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	id, err := r.ReadUE()
	if err != nil {
		return err
	}
	if id > 63 {
		return &ValueError{Field: "slice_pic_parameter_set_id", Value: id}
	}
	s.ppsID = uint8(id)
	return nil
}

// decodeBody resolves the parameter sets before reading any bits, so
// an unresolved reference leaves the reader untouched and retryable.
func (s *SliceHeader) decodeBody(r *rbsp.Reader) error {
	pps, err := s.ctx.PPS(s.ppsID)
	if err != nil {
		return err
	}
	spsID, err := pps.SPSID()
	if err != nil {
		return err
	}
	sps, err := s.ctx.SPS(spsID)
	if err != nil {
		return err
	}
	s.pps, s.sps = pps, sps

	if !s.firstSlice {
		dependentEnabled, err := pps.DependentSliceSegmentsEnabled()
		if err != nil {
			return err
		}
		if dependentEnabled {
			if s.dependent, err = r.ReadFlag(); err != nil {
				return err
			}
		}
		addrBits, err := sps.sliceAddressBits()
		if err != nil {
			return err
		}
		if addrBits > 0 {
			v, err := r.ReadBits(addrBits)
			if err != nil {
				return err
			}
			s.segmentAddress = uint32(v)
		}
	}
	if s.dependent {
		// remaining fields are inherited from the previous
		// independent segment
		return nil
	}
	return s.decodeIndependent(r)
}

func (s *SliceHeader) decodeIndependent(r *rbsp.Reader) error {
	extraBits, err := s.pps.NumExtraSliceHeaderBits()
	if err != nil {
		return err
	}
	if err = r.SkipBits(int(extraBits)); err != nil { // slice_reserved_flag
		return err
	}
	st, err := r.ReadUE()
	if err != nil {
		return err
	}
	if st > 2 {
		return &ValueError{Field: "slice_type", Value: st}
	}
	s.sliceType = SliceType(st)
	s.picOutput = true
	outputFlagPresent, err := s.pps.OutputFlagPresent()
	if err != nil {
		return err
	}
	if outputFlagPresent {
		if s.picOutput, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	separatePlanes, err := s.sps.SeparateColourPlane()
	if err != nil {
		return err
	}
	if separatePlanes {
		v, err := r.ReadBits(2)
		if err != nil {
			return err
		}
		s.colourPlaneID = uint8(v)
	}
	if !s.hdr.Type.IsIDR() {
		if err = s.decodeRefPicInfo(r); err != nil {
			return err
		}
	}
	if err = s.decodeSAO(r); err != nil {
		return err
	}
	if s.sliceType != SliceI {
		if err = s.decodeInterParams(r); err != nil {
			return err
		}
	}
	if s.qpDelta, err = r.ReadSE(); err != nil {
		return err
	}
	chromaOffsets, err := s.pps.SliceChromaQPOffsetsPresent()
	if err != nil {
		return err
	}
	if chromaOffsets {
		if s.cbQPOffset, err = r.ReadSE(); err != nil {
			return err
		}
		if s.crQPOffset, err = r.ReadSE(); err != nil {
			return err
		}
	}
	return s.decodeLoopFilter(r)
}

func (s *SliceHeader) decodeRefPicInfo(r *rbsp.Reader) error {
	pocBits, err := s.sps.Log2MaxPicOrderCntLsb()
	if err != nil {
		return err
	}
	v, err := r.ReadBits(int(pocBits))
	if err != nil {
		return err
	}
	s.pocLsb = uint32(v)

	numRPS, err := s.sps.NumShortTermRefPicSets()
	if err != nil {
		return err
	}
	fromSPS, err := r.ReadFlag()
	if err != nil {
		return err
	}
	s.shortTermRPSFromSPS = fromSPS
	if !fromSPS {
		if err = parseShortTermRPS(r, numRPS, numRPS); err != nil {
			return err
		}
	} else if numRPS > 1 {
		idxBits := bits.Len32(numRPS - 1)
		if v, err = r.ReadBits(idxBits); err != nil {
			return err
		}
		s.shortTermRPSIdx = uint32(v)
	}

	longTerm, err := s.sps.LongTermRefPicsPresent()
	if err != nil {
		return err
	}
	if longTerm {
		// entry widths depend on the SPS long-term set contents,
		// which are not retained
		return &UnsupportedSyntaxError{Field: "lt_idx_sps"}
	}
	mvpEnabled, err := s.sps.TemporalMVPEnabled()
	if err != nil {
		return err
	}
	if mvpEnabled {
		if s.temporalMVP, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	return nil
}

func (s *SliceHeader) decodeSAO(r *rbsp.Reader) error {
	saoEnabled, err := s.sps.SampleAdaptiveOffsetEnabled()
	if err != nil {
		return err
	}
	if !saoEnabled {
		return nil
	}
	if s.saoLuma, err = r.ReadFlag(); err != nil {
		return err
	}
	cf, err := s.sps.ChromaFormat()
	if err != nil {
		return err
	}
	separatePlanes, err := s.sps.SeparateColourPlane()
	if err != nil {
		return err
	}
	if cf != ChromaMonochrome && !separatePlanes {
		if s.saoChroma, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	return nil
}

func (s *SliceHeader) decodeInterParams(r *rbsp.Reader) error {
	l0Default, l1Default, err := s.pps.DefaultRefIdxActive()
	if err != nil {
		return err
	}
	s.numRefIdxActiveMinus1[0] = l0Default - 1
	s.numRefIdxActiveMinus1[1] = l1Default - 1
	override, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if override {
		if s.numRefIdxActiveMinus1[0], err = r.ReadUE(); err != nil {
			return err
		}
		if s.sliceType == SliceB {
			if s.numRefIdxActiveMinus1[1], err = r.ReadUE(); err != nil {
				return err
			}
		}
	}
	listsModification, err := s.pps.ListsModificationPresent()
	if err != nil {
		return err
	}
	if listsModification {
		// presence of ref_pic_lists_modification depends on
		// NumPicTotalCurr, derived from RPS contents that are not
		// retained
		return &UnsupportedSyntaxError{Field: "ref_pic_lists_modification"}
	}
	if s.sliceType == SliceB {
		if s.mvdL1Zero, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	cabacInitPresent, err := s.pps.CabacInitPresent()
	if err != nil {
		return err
	}
	if cabacInitPresent {
		if s.cabacInit, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	s.collocatedFromL0 = true
	if s.temporalMVP {
		if s.sliceType == SliceB {
			if s.collocatedFromL0, err = r.ReadFlag(); err != nil {
				return err
			}
		}
		if (s.collocatedFromL0 && s.numRefIdxActiveMinus1[0] > 0) ||
			(!s.collocatedFromL0 && s.numRefIdxActiveMinus1[1] > 0) {
			if s.collocatedRefIdx, err = r.ReadUE(); err != nil {
				return err
			}
		}
	}
	weightedPred, weightedBipred, err := s.pps.WeightedPrediction()
	if err != nil {
		return err
	}
	if (weightedPred && s.sliceType == SliceP) || (weightedBipred && s.sliceType == SliceB) {
		return &UnsupportedSyntaxError{Field: "pred_weight_table"}
	}
	fiveMinusMax, err := r.ReadUE()
	if err != nil {
		return err
	}
	if fiveMinusMax > 4 {
		return &ValueError{Field: "five_minus_max_num_merge_cand", Value: fiveMinusMax}
	}
	s.maxNumMergeCand = 5 - fiveMinusMax
	return nil
}

func (s *SliceHeader) decodeLoopFilter(r *rbsp.Reader) error {
	db, err := s.pps.Deblocking()
	if err != nil {
		return err
	}
	if db != nil {
		s.deblockingDisabled = db.Disabled
		s.betaOffsetDiv2 = db.BetaOffsetDiv2
		s.tcOffsetDiv2 = db.TcOffsetDiv2
		if db.OverrideEnabled {
			if s.deblockingOverride, err = r.ReadFlag(); err != nil {
				return err
			}
		}
		if s.deblockingOverride {
			if s.deblockingDisabled, err = r.ReadFlag(); err != nil {
				return err
			}
			if !s.deblockingDisabled {
				if s.betaOffsetDiv2, err = r.ReadSE(); err != nil {
					return err
				}
				if s.tcOffsetDiv2, err = r.ReadSE(); err != nil {
					return err
				}
			}
		}
	}
	acrossSlices, err := s.pps.LoopFilterAcrossSlicesEnabled()
	if err != nil {
		return err
	}
	s.loopFilterAcrossSlices = acrossSlices
	if acrossSlices && (s.saoLuma || s.saoChroma || !s.deblockingDisabled) {
		if s.loopFilterAcrossSlices, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	return nil
}

// FirstSliceInPic reports first_slice_segment_in_pic_flag, decoding
// only the context-free group.
func (s *SliceHeader) FirstSliceInPic() (bool, error) {
	if err := s.decodeTo(0); err != nil {
		return false, err
	}
	return s.firstSlice, nil
}

// NoOutputOfPriorPics reports no_output_of_prior_pics_flag. Always
// false for non-IRAP units, which do not carry the flag.
func (s *SliceHeader) NoOutputOfPriorPics() (bool, error) {
	if err := s.decodeTo(0); err != nil {
		return false, err
	}
	return s.noOutputOfPriorPics, nil
}

// PPSID returns slice_pic_parameter_set_id without consulting the
// Context.
func (s *SliceHeader) PPSID() (uint8, error) {
	if err := s.decodeTo(0); err != nil {
		return 0, err
	}
	return s.ppsID, nil
}

// Dependent reports dependent_slice_segment_flag.
func (s *SliceHeader) Dependent() (bool, error) {
	if err := s.decodeTo(1); err != nil {
		return false, err
	}
	return s.dependent, nil
}

// SegmentAddress returns slice_segment_address in CTB raster order;
// zero for the first slice of a picture.
func (s *SliceHeader) SegmentAddress() (uint32, error) {
	if err := s.decodeTo(1); err != nil {
		return 0, err
	}
	return s.segmentAddress, nil
}

// independentField is the shared guard for accessors whose field a
// dependent segment inherits rather than carries.
func (s *SliceHeader) independentField() error {
	if err := s.decodeTo(1); err != nil {
		return err
	}
	if s.dependent {
		return ErrDependentSlice
	}
	return nil
}

func (s *SliceHeader) Type() (SliceType, error) {
	if err := s.independentField(); err != nil {
		return 0, err
	}
	return s.sliceType, nil
}

func (s *SliceHeader) PicOutput() (bool, error) {
	if err := s.independentField(); err != nil {
		return false, err
	}
	return s.picOutput, nil
}

func (s *SliceHeader) ColourPlaneID() (uint8, error) {
	if err := s.independentField(); err != nil {
		return 0, err
	}
	return s.colourPlaneID, nil
}

// PicOrderCntLsb returns slice_pic_order_cnt_lsb; zero for IDR units,
// which do not carry it.
func (s *SliceHeader) PicOrderCntLsb() (uint32, error) {
	if err := s.independentField(); err != nil {
		return 0, err
	}
	return s.pocLsb, nil
}

// ShortTermRPSIndex returns the index into the SPS short-term
// reference picture sets, and whether the slice selected one (as
// opposed to carrying its own set inline).
func (s *SliceHeader) ShortTermRPSIndex() (idx uint32, fromSPS bool, err error) {
	if err := s.independentField(); err != nil {
		return 0, false, err
	}
	return s.shortTermRPSIdx, s.shortTermRPSFromSPS, nil
}

func (s *SliceHeader) TemporalMVPEnabled() (bool, error) {
	if err := s.independentField(); err != nil {
		return false, err
	}
	return s.temporalMVP, nil
}

// SAO reports the per-slice sample adaptive offset flags.
func (s *SliceHeader) SAO() (luma, chroma bool, err error) {
	if err := s.independentField(); err != nil {
		return false, false, err
	}
	return s.saoLuma, s.saoChroma, nil
}

// NumRefIdxActive returns the active reference count for lists L0 and
// L1, after any per-slice override of the PPS defaults.
func (s *SliceHeader) NumRefIdxActive() (l0, l1 uint32, err error) {
	if err := s.independentField(); err != nil {
		return 0, 0, err
	}
	return s.numRefIdxActiveMinus1[0] + 1, s.numRefIdxActiveMinus1[1] + 1, nil
}

func (s *SliceHeader) MvdL1Zero() (bool, error) {
	if err := s.independentField(); err != nil {
		return false, err
	}
	return s.mvdL1Zero, nil
}

func (s *SliceHeader) CabacInit() (bool, error) {
	if err := s.independentField(); err != nil {
		return false, err
	}
	return s.cabacInit, nil
}

// CollocatedRef returns the list and index of the collocated picture
// used for temporal motion vector prediction.
func (s *SliceHeader) CollocatedRef() (fromL0 bool, refIdx uint32, err error) {
	if err := s.independentField(); err != nil {
		return false, 0, err
	}
	return s.collocatedFromL0, s.collocatedRefIdx, nil
}

func (s *SliceHeader) MaxNumMergeCand() (uint32, error) {
	if err := s.independentField(); err != nil {
		return 0, err
	}
	return s.maxNumMergeCand, nil
}

func (s *SliceHeader) QPDelta() (int32, error) {
	if err := s.independentField(); err != nil {
		return 0, err
	}
	return s.qpDelta, nil
}

// ChromaQPOffsets returns the per-slice Cb and Cr QP offsets.
func (s *SliceHeader) ChromaQPOffsets() (cb, cr int32, err error) {
	if err := s.independentField(); err != nil {
		return 0, 0, err
	}
	return s.cbQPOffset, s.crQPOffset, nil
}

// Deblocking returns the effective deblocking controls after any
// per-slice override.
func (s *SliceHeader) Deblocking() (disabled bool, betaOffsetDiv2, tcOffsetDiv2 int32, err error) {
	if err := s.independentField(); err != nil {
		return false, 0, 0, err
	}
	return s.deblockingDisabled, s.betaOffsetDiv2, s.tcOffsetDiv2, nil
}

func (s *SliceHeader) LoopFilterAcrossSlices() (bool, error) {
	if err := s.independentField(); err != nil {
		return false, err
	}
	return s.loopFilterAcrossSlices, nil
}
