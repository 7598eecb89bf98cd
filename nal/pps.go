package nal

import "github.com/zsiec/hevc/rbsp"

// Deblocking carries the PPS deblocking filter controls.
type Deblocking struct {
	OverrideEnabled bool
	Disabled        bool
	BetaOffsetDiv2  int32
	TcOffsetDiv2    int32
}

// Tiles carries the PPS tile grid. Column and row width lists are nil
// when spacing is uniform.
type Tiles struct {
	NumColumnsMinus1      uint32
	NumRowsMinus1         uint32
	UniformSpacing        bool
	ColumnWidthsMinus1    []uint32
	RowHeightsMinus1      []uint32
	LoopFilterAcrossTiles bool
}

// PPS is a lazily decoded pic_parameter_set_rbsp. The first group
// carries only the two IDs, so registration and cross-referencing
// never depend on the rest of the structure decoding cleanly.
type PPS struct {
	dec decoder

	id    uint8
	spsID uint8

	dependentSliceSegmentsEnabled  bool
	outputFlagPresent              bool
	numExtraSliceHeaderBits        uint8
	signDataHiding                 bool
	cabacInitPresent               bool
	numRefIdxL0DefaultActiveMinus1 uint32
	numRefIdxL1DefaultActiveMinus1 uint32
	initQPMinus26                  int32
	constrainedIntraPred           bool
	transformSkipEnabled           bool
	cuQPDeltaEnabled               bool
	diffCuQPDeltaDepth             uint32
	cbQPOffset                     int32
	crQPOffset                     int32
	sliceChromaQPOffsetsPresent    bool
	weightedPred                   bool
	weightedBipred                 bool
	transquantBypassEnabled        bool
	tiles                          *Tiles
	entropyCodingSyncEnabled       bool
	loopFilterAcrossSlices         bool
	deblocking                     *Deblocking
	listsModificationPresent       bool
	log2ParallelMergeLevelMinus2   uint32
	sliceHeaderExtensionPresent    bool
}

// NewPPS wraps an escaped PPS payload (the bytes after the two-byte
// unit header). Nothing is decoded until an accessor is called.
func NewPPS(payload []byte) *PPS {
	return &PPS{dec: decoder{r: rbsp.NewReader(payload)}}
}

func (p *PPS) decodeTo(k int) error {
	return p.dec.run(k, []func(*rbsp.Reader) error{
		p.decodeIDs,
		p.decodeBody,
	})
}

func (p *PPS) decodeIDs(r *rbsp.Reader) error {
	id, err := r.ReadUE()
	if err != nil {
		return err
	}
	if id > 63 {
		return &ValueError{Field: "pps_pic_parameter_set_id", Value: id}
	}
	p.id = uint8(id)
	if id, err = r.ReadUE(); err != nil {
		return err
	}
	if id > 15 {
		return &ValueError{Field: "pps_seq_parameter_set_id", Value: id}
	}
	p.spsID = uint8(id)
	return nil
}

func (p *PPS) decodeBody(r *rbsp.Reader) error {
	var err error
	if p.dependentSliceSegmentsEnabled, err = r.ReadFlag(); err != nil {
		return err
	}
	if p.outputFlagPresent, err = r.ReadFlag(); err != nil {
		return err
	}
	v, err := r.ReadBits(3)
	if err != nil {
		return err
	}
	p.numExtraSliceHeaderBits = uint8(v)
	if p.signDataHiding, err = r.ReadFlag(); err != nil {
		return err
	}
	if p.cabacInitPresent, err = r.ReadFlag(); err != nil {
		return err
	}
	if p.numRefIdxL0DefaultActiveMinus1, err = r.ReadUE(); err != nil {
		return err
	}
	if p.numRefIdxL1DefaultActiveMinus1, err = r.ReadUE(); err != nil {
		return err
	}
	if p.initQPMinus26, err = r.ReadSE(); err != nil {
		return err
	}
	if p.constrainedIntraPred, err = r.ReadFlag(); err != nil {
		return err
	}
	if p.transformSkipEnabled, err = r.ReadFlag(); err != nil {
		return err
	}
	if p.cuQPDeltaEnabled, err = r.ReadFlag(); err != nil {
		return err
	}
	if p.cuQPDeltaEnabled {
		if p.diffCuQPDeltaDepth, err = r.ReadUE(); err != nil {
			return err
		}
	}
	if p.cbQPOffset, err = r.ReadSE(); err != nil {
		return err
	}
	if p.crQPOffset, err = r.ReadSE(); err != nil {
		return err
	}
	if p.sliceChromaQPOffsetsPresent, err = r.ReadFlag(); err != nil {
		return err
	}
	if p.weightedPred, err = r.ReadFlag(); err != nil {
		return err
	}
	if p.weightedBipred, err = r.ReadFlag(); err != nil {
		return err
	}
	if p.transquantBypassEnabled, err = r.ReadFlag(); err != nil {
		return err
	}
	tilesEnabled, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if tilesEnabled {
		if p.tiles, err = parseTiles(r); err != nil {
			return err
		}
	}
	if p.entropyCodingSyncEnabled, err = r.ReadFlag(); err != nil {
		return err
	}
	if p.loopFilterAcrossSlices, err = r.ReadFlag(); err != nil {
		return err
	}
	deblockingControl, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if deblockingControl {
		var db Deblocking
		if db.OverrideEnabled, err = r.ReadFlag(); err != nil {
			return err
		}
		if db.Disabled, err = r.ReadFlag(); err != nil {
			return err
		}
		if !db.Disabled {
			if db.BetaOffsetDiv2, err = r.ReadSE(); err != nil {
				return err
			}
			if db.TcOffsetDiv2, err = r.ReadSE(); err != nil {
				return err
			}
		}
		p.deblocking = &db
	}
	scalingListPresent, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if scalingListPresent {
		if err = skipScalingListData(r); err != nil {
			return err
		}
	}
	if p.listsModificationPresent, err = r.ReadFlag(); err != nil {
		return err
	}
	if p.log2ParallelMergeLevelMinus2, err = r.ReadUE(); err != nil {
		return err
	}
	p.sliceHeaderExtensionPresent, err = r.ReadFlag()
	return err
}

func parseTiles(r *rbsp.Reader) (*Tiles, error) {
	var t Tiles
	var err error
	if t.NumColumnsMinus1, err = r.ReadUE(); err != nil {
		return nil, err
	}
	if t.NumRowsMinus1, err = r.ReadUE(); err != nil {
		return nil, err
	}
	if t.NumColumnsMinus1 > 1<<10 || t.NumRowsMinus1 > 1<<10 {
		return nil, &ValueError{Field: "num_tile_columns_minus1", Value: t.NumColumnsMinus1}
	}
	if t.UniformSpacing, err = r.ReadFlag(); err != nil {
		return nil, err
	}
	if !t.UniformSpacing {
		t.ColumnWidthsMinus1 = make([]uint32, t.NumColumnsMinus1)
		for i := range t.ColumnWidthsMinus1 {
			if t.ColumnWidthsMinus1[i], err = r.ReadUE(); err != nil {
				return nil, err
			}
		}
		t.RowHeightsMinus1 = make([]uint32, t.NumRowsMinus1)
		for i := range t.RowHeightsMinus1 {
			if t.RowHeightsMinus1[i], err = r.ReadUE(); err != nil {
				return nil, err
			}
		}
	}
	if t.LoopFilterAcrossTiles, err = r.ReadFlag(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ID returns pps_pic_parameter_set_id, triggering the first field
// group if needed.
func (p *PPS) ID() (uint8, error) {
	if err := p.decodeTo(0); err != nil {
		return 0, err
	}
	return p.id, nil
}

// SPSID returns pps_seq_parameter_set_id.
func (p *PPS) SPSID() (uint8, error) {
	if err := p.decodeTo(0); err != nil {
		return 0, err
	}
	return p.spsID, nil
}

func (p *PPS) DependentSliceSegmentsEnabled() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.dependentSliceSegmentsEnabled, nil
}

func (p *PPS) OutputFlagPresent() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.outputFlagPresent, nil
}

func (p *PPS) NumExtraSliceHeaderBits() (uint8, error) {
	if err := p.decodeTo(1); err != nil {
		return 0, err
	}
	return p.numExtraSliceHeaderBits, nil
}

func (p *PPS) SignDataHidingEnabled() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.signDataHiding, nil
}

func (p *PPS) CabacInitPresent() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.cabacInitPresent, nil
}

// DefaultRefIdxActive returns the default active reference counts for
// lists L0 and L1.
func (p *PPS) DefaultRefIdxActive() (l0, l1 uint32, err error) {
	if err := p.decodeTo(1); err != nil {
		return 0, 0, err
	}
	return p.numRefIdxL0DefaultActiveMinus1 + 1, p.numRefIdxL1DefaultActiveMinus1 + 1, nil
}

// InitQP returns the initial slice QP (init_qp_minus26 + 26).
func (p *PPS) InitQP() (int32, error) {
	if err := p.decodeTo(1); err != nil {
		return 0, err
	}
	return p.initQPMinus26 + 26, nil
}

func (p *PPS) ConstrainedIntraPred() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.constrainedIntraPred, nil
}

func (p *PPS) TransformSkipEnabled() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.transformSkipEnabled, nil
}

// CuQPDelta returns whether CU-level QP deltas are enabled and, when
// they are, the granularity depth.
func (p *PPS) CuQPDelta() (enabled bool, depth uint32, err error) {
	if err := p.decodeTo(1); err != nil {
		return false, 0, err
	}
	return p.cuQPDeltaEnabled, p.diffCuQPDeltaDepth, nil
}

// ChromaQPOffsets returns the PPS-level Cb and Cr QP offsets.
func (p *PPS) ChromaQPOffsets() (cb, cr int32, err error) {
	if err := p.decodeTo(1); err != nil {
		return 0, 0, err
	}
	return p.cbQPOffset, p.crQPOffset, nil
}

func (p *PPS) SliceChromaQPOffsetsPresent() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.sliceChromaQPOffsetsPresent, nil
}

// WeightedPrediction reports the P-slice and B-slice weighting flags.
func (p *PPS) WeightedPrediction() (pred, bipred bool, err error) {
	if err := p.decodeTo(1); err != nil {
		return false, false, err
	}
	return p.weightedPred, p.weightedBipred, nil
}

func (p *PPS) TransquantBypassEnabled() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.transquantBypassEnabled, nil
}

// Tiles returns the tile grid, or nil when tiles are disabled.
func (p *PPS) Tiles() (*Tiles, error) {
	if err := p.decodeTo(1); err != nil {
		return nil, err
	}
	return p.tiles, nil
}

func (p *PPS) EntropyCodingSyncEnabled() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.entropyCodingSyncEnabled, nil
}

func (p *PPS) LoopFilterAcrossSlicesEnabled() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.loopFilterAcrossSlices, nil
}

// Deblocking returns the deblocking filter controls, or nil when the
// PPS carries none.
func (p *PPS) Deblocking() (*Deblocking, error) {
	if err := p.decodeTo(1); err != nil {
		return nil, err
	}
	return p.deblocking, nil
}

func (p *PPS) ListsModificationPresent() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.listsModificationPresent, nil
}

func (p *PPS) Log2ParallelMergeLevel() (uint32, error) {
	if err := p.decodeTo(1); err != nil {
		return 0, err
	}
	return p.log2ParallelMergeLevelMinus2 + 2, nil
}

func (p *PPS) SliceHeaderExtensionPresent() (bool, error) {
	if err := p.decodeTo(1); err != nil {
		return false, err
	}
	return p.sliceHeaderExtensionPresent, nil
}
