package nal

import "github.com/zsiec/hevc/rbsp"

// SubLayerOrdering is one temporal sub-layer's DPB sizing triple,
// carried by both the VPS and the SPS.
type SubLayerOrdering struct {
	MaxDecPicBufferingMinus1 uint32
	MaxNumReorderPics        uint32
	MaxLatencyIncreasePlus1  uint32
}

// TimingInfo is the timing block shared by the VPS and the SPS VUI.
type TimingInfo struct {
	NumUnitsInTick           uint32
	TimeScale                uint32
	POCProportionalToTiming  bool
	NumTicksPOCDiffOneMinus1 uint32
}

// FPS derives the frame rate declared by the timing block. Zero when
// the stream declares no tick duration.
func (t *TimingInfo) FPS() float64 {
	if t == nil || t.NumUnitsInTick == 0 {
		return 0
	}
	return float64(t.TimeScale) / float64(t.NumUnitsInTick)
}

// VPS is a lazily decoded video_parameter_set_rbsp. Field groups are
// decoded in bitstream order on first access and cached; the payload
// view must stay valid for the life of the structure.
//
// Extension syntax past the timing block is not modeled and no
// accessor reaches it.
type VPS struct {
	dec decoder

	id                 uint8
	baseLayerInternal  bool
	baseLayerAvailable bool
	maxLayersMinus1    uint8
	maxSubLayersMinus1 uint8
	temporalIDNesting  bool
	ptl                ProfileTierLevel

	subLayerOrdering   []SubLayerOrdering
	maxLayerID         uint8
	numLayerSetsMinus1 uint32
	layerIDIncluded    [][]bool

	timing *TimingInfo
}

// NewVPS wraps an escaped VPS payload (the bytes after the two-byte
// unit header). Nothing is decoded until an accessor is called.
func NewVPS(payload []byte) *VPS {
	return &VPS{dec: decoder{r: rbsp.NewReader(payload)}}
}

func (v *VPS) decodeTo(k int) error {
	return v.dec.run(k, []func(*rbsp.Reader) error{
		v.decodeIDAndProfile,
		v.decodeLayerSets,
		v.decodeTiming,
	})
}

func (v *VPS) decodeIDAndProfile(r *rbsp.Reader) error {
	bits, err := r.ReadBits(4)
	if err != nil {
		return err
	}
	v.id = uint8(bits)
	if v.baseLayerInternal, err = r.ReadFlag(); err != nil {
		return err
	}
	if v.baseLayerAvailable, err = r.ReadFlag(); err != nil {
		return err
	}
	if bits, err = r.ReadBits(6); err != nil {
		return err
	}
	v.maxLayersMinus1 = uint8(bits)
	if bits, err = r.ReadBits(3); err != nil {
		return err
	}
	v.maxSubLayersMinus1 = uint8(bits)
	if v.temporalIDNesting, err = r.ReadFlag(); err != nil {
		return err
	}
	if err = r.SkipBits(16); err != nil { // vps_reserved_0xffff_16bits
		return err
	}
	v.ptl, err = parseProfileTierLevel(r, true, v.maxSubLayersMinus1)
	return err
}

func (v *VPS) decodeLayerSets(r *rbsp.Reader) error {
	ordering, err := parseSubLayerOrdering(r, v.maxSubLayersMinus1)
	if err != nil {
		return err
	}
	v.subLayerOrdering = ordering
	bits, err := r.ReadBits(6)
	if err != nil {
		return err
	}
	v.maxLayerID = uint8(bits)
	if v.numLayerSetsMinus1, err = r.ReadUE(); err != nil {
		return err
	}
	if v.numLayerSetsMinus1 > 1023 {
		return &ValueError{Field: "vps_num_layer_sets_minus1", Value: v.numLayerSetsMinus1}
	}
	v.layerIDIncluded = make([][]bool, v.numLayerSetsMinus1)
	for i := range v.layerIDIncluded {
		included := make([]bool, int(v.maxLayerID)+1)
		for j := range included {
			if included[j], err = r.ReadFlag(); err != nil {
				return err
			}
		}
		v.layerIDIncluded[i] = included
	}
	return nil
}

func (v *VPS) decodeTiming(r *rbsp.Reader) error {
	present, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if !present {
		return nil
	}
	ti, err := parseTimingInfo(r)
	if err != nil {
		return err
	}
	numHrd, err := r.ReadUE()
	if err != nil {
		return err
	}
	if numHrd > 1024 {
		return &ValueError{Field: "vps_num_hrd_parameters", Value: numHrd}
	}
	for i := uint32(0); i < numHrd; i++ {
		if _, err = r.ReadUE(); err != nil { // hrd_layer_set_idx[i]
			return err
		}
		commonInfPresent := true
		if i > 0 {
			if commonInfPresent, err = r.ReadFlag(); err != nil {
				return err
			}
		}
		if err = skipHrdParameters(r, commonInfPresent, v.maxSubLayersMinus1); err != nil {
			return err
		}
	}
	v.timing = ti
	return nil
}

// ID returns vps_video_parameter_set_id, triggering the first field
// group if needed.
func (v *VPS) ID() (uint8, error) {
	if err := v.decodeTo(0); err != nil {
		return 0, err
	}
	return v.id, nil
}

func (v *VPS) BaseLayerInternal() (bool, error) {
	if err := v.decodeTo(0); err != nil {
		return false, err
	}
	return v.baseLayerInternal, nil
}

func (v *VPS) BaseLayerAvailable() (bool, error) {
	if err := v.decodeTo(0); err != nil {
		return false, err
	}
	return v.baseLayerAvailable, nil
}

func (v *VPS) MaxLayers() (uint8, error) {
	if err := v.decodeTo(0); err != nil {
		return 0, err
	}
	return v.maxLayersMinus1 + 1, nil
}

func (v *VPS) MaxSubLayers() (uint8, error) {
	if err := v.decodeTo(0); err != nil {
		return 0, err
	}
	return v.maxSubLayersMinus1 + 1, nil
}

func (v *VPS) TemporalIDNesting() (bool, error) {
	if err := v.decodeTo(0); err != nil {
		return false, err
	}
	return v.temporalIDNesting, nil
}

func (v *VPS) ProfileTierLevel() (ProfileTierLevel, error) {
	if err := v.decodeTo(0); err != nil {
		return ProfileTierLevel{}, err
	}
	return v.ptl, nil
}

// SubLayerOrdering returns one entry per temporal sub-layer. When the
// stream signals a single set for all layers it is replicated.
func (v *VPS) SubLayerOrdering() ([]SubLayerOrdering, error) {
	if err := v.decodeTo(1); err != nil {
		return nil, err
	}
	return v.subLayerOrdering, nil
}

func (v *VPS) MaxLayerID() (uint8, error) {
	if err := v.decodeTo(1); err != nil {
		return 0, err
	}
	return v.maxLayerID, nil
}

func (v *VPS) LayerSets() (uint32, error) {
	if err := v.decodeTo(1); err != nil {
		return 0, err
	}
	return v.numLayerSetsMinus1 + 1, nil
}

// TimingInfo returns the VPS timing block, or nil when the stream does
// not declare one.
func (v *VPS) TimingInfo() (*TimingInfo, error) {
	if err := v.decodeTo(2); err != nil {
		return nil, err
	}
	return v.timing, nil
}

func parseSubLayerOrdering(r *rbsp.Reader, maxSubLayersMinus1 uint8) ([]SubLayerOrdering, error) {
	present, err := r.ReadFlag()
	if err != nil {
		return nil, err
	}
	ordering := make([]SubLayerOrdering, int(maxSubLayersMinus1)+1)
	if !present {
		single, err := parseOneSubLayerOrdering(r)
		if err != nil {
			return nil, err
		}
		for i := range ordering {
			ordering[i] = single
		}
		return ordering, nil
	}
	for i := range ordering {
		if ordering[i], err = parseOneSubLayerOrdering(r); err != nil {
			return nil, err
		}
	}
	return ordering, nil
}

func parseOneSubLayerOrdering(r *rbsp.Reader) (SubLayerOrdering, error) {
	var o SubLayerOrdering
	var err error
	if o.MaxDecPicBufferingMinus1, err = r.ReadUE(); err != nil {
		return o, err
	}
	if o.MaxNumReorderPics, err = r.ReadUE(); err != nil {
		return o, err
	}
	o.MaxLatencyIncreasePlus1, err = r.ReadUE()
	return o, err
}

func parseTimingInfo(r *rbsp.Reader) (*TimingInfo, error) {
	var ti TimingInfo
	bits, err := r.ReadBits(32)
	if err != nil {
		return nil, err
	}
	ti.NumUnitsInTick = uint32(bits)
	if bits, err = r.ReadBits(32); err != nil {
		return nil, err
	}
	ti.TimeScale = uint32(bits)
	if ti.POCProportionalToTiming, err = r.ReadFlag(); err != nil {
		return nil, err
	}
	if ti.POCProportionalToTiming {
		if ti.NumTicksPOCDiffOneMinus1, err = r.ReadUE(); err != nil {
			return nil, err
		}
	}
	return &ti, nil
}
