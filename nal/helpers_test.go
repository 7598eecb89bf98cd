package nal

import (
	"github.com/zsiec/hevc/internal/bitstring"
)

// testUnit assembles a complete NAL unit: two-byte header followed by
// the already-escaped payload.
func testUnit(typ UnitType, payload []byte) []byte {
	u := make([]byte, 0, headerSize+len(payload))
	u = append(u, byte(typ)<<1, 0x01)
	return append(u, payload...)
}

// annexB joins units with four-byte start codes.
func annexB(units ...[]byte) []byte {
	var out []byte
	for _, u := range units {
		out = append(out, 0x00, 0x00, 0x00, 0x01)
		out = append(out, u...)
	}
	return out
}

// writePTL emits a profile_tier_level with no sub-layers: Main-family
// profile idc, compatibility flag for the same idc, and the given
// level idc.
func writePTL(w *bitstring.Writer, profileIDC uint8, levelIDC uint8) {
	w.Bits(0, 2)                  // general_profile_space
	w.Flag(false)                 // general_tier_flag
	w.Bits(uint64(profileIDC), 5) // general_profile_idc
	for i := 0; i < 32; i++ {
		w.Flag(i == int(profileIDC)) // general_profile_compatibility_flag
	}
	w.Flag(true)  // general_progressive_source_flag
	w.Flag(false) // general_interlaced_source_flag
	w.Flag(false) // general_non_packed_constraint_flag
	w.Flag(true)  // general_frame_only_constraint_flag
	w.Bits(0, 43) // reserved
	w.Flag(false) // inbld / reserved bit
	w.Bits(uint64(levelIDC), 8)
}

type vpsParams struct {
	id       uint8
	levelIDC uint8
	timing   bool
}

func buildVPS(p vpsParams) []byte {
	if p.levelIDC == 0 {
		p.levelIDC = uint8(Level4)
	}
	w := bitstring.NewWriter()
	w.Bits(uint64(p.id), 4) // vps_video_parameter_set_id
	w.Flag(true)            // vps_base_layer_internal_flag
	w.Flag(true)            // vps_base_layer_available_flag
	w.Bits(0, 6)            // vps_max_layers_minus1
	w.Bits(0, 3)            // vps_max_sub_layers_minus1
	w.Flag(true)            // vps_temporal_id_nesting_flag
	w.Bits(0xFFFF, 16)      // vps_reserved_0xffff_16bits
	writePTL(w, 1, p.levelIDC)
	w.Flag(true) // vps_sub_layer_ordering_info_present_flag
	w.UE(4)      // vps_max_dec_pic_buffering_minus1
	w.UE(2)      // vps_max_num_reorder_pics
	w.UE(0)      // vps_max_latency_increase_plus1
	w.Bits(0, 6) // vps_max_layer_id
	w.UE(0)      // vps_num_layer_sets_minus1
	w.Flag(p.timing)
	if p.timing {
		w.Bits(1000, 32)  // vps_num_units_in_tick
		w.Bits(50000, 32) // vps_time_scale
		w.Flag(false)     // vps_poc_proportional_to_timing_flag
		w.UE(0)           // vps_num_hrd_parameters
	}
	w.StopAndAlign()
	return bitstring.Escape(w.Bytes())
}

type spsParams struct {
	id            uint8
	vpsID         uint8
	width, height uint32
	confWindow    *Window
	vuiTiming     bool
	interRPS      bool
	zeroRPS       bool
}

func buildSPS(p spsParams) []byte {
	if p.width == 0 {
		p.width, p.height = 1920, 1080
	}
	w := bitstring.NewWriter()
	w.Bits(uint64(p.vpsID), 4) // sps_video_parameter_set_id
	w.Bits(0, 3)               // sps_max_sub_layers_minus1
	w.Flag(true)               // sps_temporal_id_nesting_flag
	writePTL(w, 1, uint8(Level4))
	w.UE(uint32(p.id))  // sps_seq_parameter_set_id
	w.UE(1)             // chroma_format_idc (4:2:0)
	w.UE(p.width)       // pic_width_in_luma_samples
	w.UE(p.height)      // pic_height_in_luma_samples
	w.Flag(p.confWindow != nil)
	if p.confWindow != nil {
		w.UE(p.confWindow.Left)
		w.UE(p.confWindow.Right)
		w.UE(p.confWindow.Top)
		w.UE(p.confWindow.Bottom)
	}
	w.UE(0)       // bit_depth_luma_minus8
	w.UE(0)       // bit_depth_chroma_minus8
	w.UE(4)       // log2_max_pic_order_cnt_lsb_minus4
	w.Flag(true)  // sps_sub_layer_ordering_info_present_flag
	w.UE(4)       // sps_max_dec_pic_buffering_minus1
	w.UE(2)       // sps_max_num_reorder_pics
	w.UE(0)       // sps_max_latency_increase_plus1
	w.UE(0)       // log2_min_luma_coding_block_size_minus3
	w.UE(3)       // log2_diff_max_min_luma_coding_block_size (64x64 CTBs)
	w.UE(0)       // log2_min_luma_transform_block_size_minus2
	w.UE(3)       // log2_diff_max_min_luma_transform_block_size
	w.UE(0)       // max_transform_hierarchy_depth_inter
	w.UE(0)       // max_transform_hierarchy_depth_intra
	w.Flag(false) // scaling_list_enabled_flag
	w.Flag(true)  // amp_enabled_flag
	w.Flag(true)  // sample_adaptive_offset_enabled_flag
	w.Flag(false) // pcm_enabled_flag
	switch {
	case p.interRPS:
		w.UE(2)
		// set 0: one negative picture
		w.UE(1)      // num_negative_pics
		w.UE(0)      // num_positive_pics
		w.UE(0)      // delta_poc_s0_minus1
		w.Flag(true) // used_by_curr_pic_s0_flag
		// set 1: predicted from set 0
		w.Flag(true) // inter_ref_pic_set_prediction_flag
	case p.zeroRPS:
		w.UE(0) // num_short_term_ref_pic_sets
	default:
		w.UE(1)
		w.UE(1)      // num_negative_pics
		w.UE(0)      // num_positive_pics
		w.UE(0)      // delta_poc_s0_minus1
		w.Flag(true) // used_by_curr_pic_s0_flag
	}
	w.Flag(false) // long_term_ref_pics_present_flag
	w.Flag(true)  // sps_temporal_mvp_enabled_flag
	w.Flag(true)  // strong_intra_smoothing_enabled_flag
	w.Flag(p.vuiTiming)
	if p.vuiTiming {
		w.Flag(true)  // aspect_ratio_info_present_flag
		w.Bits(1, 8)  // aspect_ratio_idc (1:1)
		w.Flag(false) // overscan_info_present_flag
		w.Flag(false) // video_signal_type_present_flag
		w.Flag(false) // chroma_loc_info_present_flag
		w.Flag(false) // neutral_chroma_indication_flag
		w.Flag(false) // field_seq_flag
		w.Flag(false) // frame_field_info_present_flag
		w.Flag(false) // default_display_window_flag
		w.Flag(true)  // vui_timing_info_present_flag
		w.Bits(1000, 32)
		w.Bits(60000, 32)
		w.Flag(false) // vui_poc_proportional_to_timing_flag
		w.Flag(false) // vui_hrd_parameters_present_flag
		w.Flag(false) // bitstream_restriction_flag
	}
	w.StopAndAlign()
	return bitstring.Escape(w.Bytes())
}

type ppsParams struct {
	id           uint8
	spsID        uint8
	cabacInit    bool
	weightedPred bool
	listsMod     bool
}

func buildPPS(p ppsParams) []byte {
	w := bitstring.NewWriter()
	w.UE(uint32(p.id))
	w.UE(uint32(p.spsID))
	w.Flag(false)          // dependent_slice_segments_enabled_flag
	w.Flag(false)          // output_flag_present_flag
	w.Bits(0, 3)           // num_extra_slice_header_bits
	w.Flag(true)           // sign_data_hiding_enabled_flag
	w.Flag(p.cabacInit)    // cabac_init_present_flag
	w.UE(0)                // num_ref_idx_l0_default_active_minus1
	w.UE(0)                // num_ref_idx_l1_default_active_minus1
	w.SE(0)                // init_qp_minus26
	w.Flag(false)          // constrained_intra_pred_flag
	w.Flag(false)          // transform_skip_enabled_flag
	w.Flag(true)           // cu_qp_delta_enabled_flag
	w.UE(1)                // diff_cu_qp_delta_depth
	w.SE(0)                // pps_cb_qp_offset
	w.SE(0)                // pps_cr_qp_offset
	w.Flag(true)           // pps_slice_chroma_qp_offsets_present_flag
	w.Flag(p.weightedPred) // weighted_pred_flag
	w.Flag(false)          // weighted_bipred_flag
	w.Flag(false)          // transquant_bypass_enabled_flag
	w.Flag(false)          // tiles_enabled_flag
	w.Flag(false)          // entropy_coding_sync_enabled_flag
	w.Flag(true)           // pps_loop_filter_across_slices_enabled_flag
	w.Flag(true)           // deblocking_filter_control_present_flag
	w.Flag(true)           // deblocking_filter_override_enabled_flag
	w.Flag(false)          // pps_deblocking_filter_disabled_flag
	w.SE(1)                // pps_beta_offset_div2
	w.SE(-1)               // pps_tc_offset_div2
	w.Flag(false)          // pps_scaling_list_data_present_flag
	w.Flag(p.listsMod)     // lists_modification_present_flag
	w.UE(0)                // log2_parallel_merge_level_minus2
	w.Flag(false)          // slice_segment_header_extension_present_flag
	w.StopAndAlign()
	return bitstring.Escape(w.Bytes())
}

// buildIDRSlice writes an I-slice header for an IDR unit against
// buildSPS/buildPPS defaults (SAO enabled, chroma offsets present,
// deblocking override enabled).
func buildIDRSlice(ppsID uint8) []byte {
	w := bitstring.NewWriter()
	w.Flag(true) // first_slice_segment_in_pic_flag
	w.Flag(true) // no_output_of_prior_pics_flag
	w.UE(uint32(ppsID))
	w.UE(2)       // slice_type I
	w.Flag(true)  // slice_sao_luma_flag
	w.Flag(true)  // slice_sao_chroma_flag
	w.SE(2)       // slice_qp_delta
	w.SE(0)       // slice_cb_qp_offset
	w.SE(1)       // slice_cr_qp_offset
	w.Flag(false) // deblocking_filter_override_flag
	w.Flag(true)  // slice_loop_filter_across_slices_enabled_flag
	w.StopAndAlign()
	return bitstring.Escape(w.Bytes())
}

// buildTrailSliceInlineRPS writes a P-slice header that carries its
// short-term reference picture set inline, for an SPS built with
// zeroRPS set.
func buildTrailSliceInlineRPS(ppsID uint8) []byte {
	w := bitstring.NewWriter()
	w.Flag(true) // first_slice_segment_in_pic_flag
	w.UE(uint32(ppsID))
	w.UE(1)       // slice_type P
	w.Bits(42, 8) // slice_pic_order_cnt_lsb
	w.Flag(false) // short_term_ref_pic_set_sps_flag
	w.UE(1)       // num_negative_pics
	w.UE(0)       // num_positive_pics
	w.UE(0)       // delta_poc_s0_minus1
	w.Flag(true)  // used_by_curr_pic_s0_flag
	w.Flag(true)  // slice_temporal_mvp_enabled_flag
	w.Flag(true)  // slice_sao_luma_flag
	w.Flag(false) // slice_sao_chroma_flag
	w.Flag(false) // num_ref_idx_active_override_flag
	w.Flag(false) // cabac_init_flag
	w.UE(2)       // five_minus_max_num_merge_cand
	w.SE(0)       // slice_qp_delta
	w.SE(0)       // slice_cb_qp_offset
	w.SE(0)       // slice_cr_qp_offset
	w.Flag(false) // deblocking_filter_override_flag
	w.Flag(true)  // slice_loop_filter_across_slices_enabled_flag
	w.StopAndAlign()
	return bitstring.Escape(w.Bytes())
}

// buildTrailSlice writes a P-slice header for a TRAIL_R unit against
// buildSPS/buildPPS defaults with cabacInit set.
func buildTrailSlice(ppsID uint8) []byte {
	w := bitstring.NewWriter()
	w.Flag(true) // first_slice_segment_in_pic_flag
	w.UE(uint32(ppsID))
	w.UE(1)       // slice_type P
	w.Bits(42, 8) // slice_pic_order_cnt_lsb
	w.Flag(true)  // short_term_ref_pic_set_sps_flag
	w.Flag(true)  // slice_temporal_mvp_enabled_flag
	w.Flag(true)  // slice_sao_luma_flag
	w.Flag(false) // slice_sao_chroma_flag
	w.Flag(true)  // num_ref_idx_active_override_flag
	w.UE(1)       // num_ref_idx_l0_active_minus1
	w.Flag(false) // cabac_init_flag
	w.UE(0)       // collocated_ref_idx
	w.UE(2)       // five_minus_max_num_merge_cand
	w.SE(0)       // slice_qp_delta
	w.SE(0)       // slice_cb_qp_offset
	w.SE(0)       // slice_cr_qp_offset
	w.Flag(true)  // deblocking_filter_override_flag
	w.Flag(false) // slice_deblocking_filter_disabled_flag
	w.SE(0)       // slice_beta_offset_div2
	w.SE(0)       // slice_tc_offset_div2
	w.Flag(true)  // slice_loop_filter_across_slices_enabled_flag
	w.StopAndAlign()
	return bitstring.Escape(w.Bytes())
}
