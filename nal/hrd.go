package nal

import "github.com/zsiec/hevc/rbsp"

// skipHrdParameters consumes an hrd_parameters() structure without
// retaining it. Every element has a width fixed by the flags decoded
// inside the structure itself, so the skip is exact and leaves the
// reader at the first bit after the structure.
func skipHrdParameters(r *rbsp.Reader, commonInfPresent bool, maxNumSubLayersMinus1 uint8) error {
	var nalHrdPresent, vclHrdPresent, subPicHrdPresent bool
	var err error
	if commonInfPresent {
		if nalHrdPresent, err = r.ReadFlag(); err != nil {
			return err
		}
		if vclHrdPresent, err = r.ReadFlag(); err != nil {
			return err
		}
		if nalHrdPresent || vclHrdPresent {
			if subPicHrdPresent, err = r.ReadFlag(); err != nil {
				return err
			}
			if subPicHrdPresent {
				// tick_divisor_minus2 u(8),
				// du_cpb_removal_delay_increment_length_minus1 u(5),
				// sub_pic_cpb_params_in_pic_timing_sei_flag u(1),
				// dpb_output_delay_du_length_minus1 u(5)
				if err = r.SkipBits(19); err != nil {
					return err
				}
			}
			// bit_rate_scale u(4), cpb_size_scale u(4)
			if err = r.SkipBits(8); err != nil {
				return err
			}
			if subPicHrdPresent {
				// cpb_size_du_scale u(4)
				if err = r.SkipBits(4); err != nil {
					return err
				}
			}
			// initial_cpb_removal_delay_length_minus1 u(5),
			// au_cpb_removal_delay_length_minus1 u(5),
			// dpb_output_delay_length_minus1 u(5)
			if err = r.SkipBits(15); err != nil {
				return err
			}
		}
	}
	for i := 0; i <= int(maxNumSubLayersMinus1); i++ {
		fixedPicRateGeneral, err := r.ReadFlag()
		if err != nil {
			return err
		}
		fixedPicRateWithinCvs := false
		if !fixedPicRateGeneral {
			if fixedPicRateWithinCvs, err = r.ReadFlag(); err != nil {
				return err
			}
		}
		lowDelayHrd := false
		if fixedPicRateWithinCvs {
			if _, err = r.ReadUE(); err != nil { // elemental_duration_in_tc_minus1
				return err
			}
		} else if lowDelayHrd, err = r.ReadFlag(); err != nil {
			return err
		}
		cpbCnt := uint32(1)
		if !lowDelayHrd {
			cpbCntMinus1, err := r.ReadUE()
			if err != nil {
				return err
			}
			if cpbCntMinus1 > 31 {
				return &ValueError{Field: "cpb_cnt_minus1", Value: cpbCntMinus1}
			}
			cpbCnt = cpbCntMinus1 + 1
		}
		if nalHrdPresent {
			if err = skipSubLayerHrdParameters(r, cpbCnt, subPicHrdPresent); err != nil {
				return err
			}
		}
		if vclHrdPresent {
			if err = skipSubLayerHrdParameters(r, cpbCnt, subPicHrdPresent); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipSubLayerHrdParameters(r *rbsp.Reader, cpbCnt uint32, subPicHrdPresent bool) error {
	for i := uint32(0); i < cpbCnt; i++ {
		if _, err := r.ReadUE(); err != nil { // bit_rate_value_minus1
			return err
		}
		if _, err := r.ReadUE(); err != nil { // cpb_size_value_minus1
			return err
		}
		if subPicHrdPresent {
			if _, err := r.ReadUE(); err != nil { // cpb_size_du_value_minus1
				return err
			}
			if _, err := r.ReadUE(); err != nil { // bit_rate_du_value_minus1
				return err
			}
		}
		if _, err := r.ReadFlag(); err != nil { // cbr_flag
			return err
		}
	}
	return nil
}
