// Package rbsp implements bit-level reading of HEVC Raw Byte Sequence
// Payloads. A [Reader] decodes fixed-width fields, flags, and Exp-Golomb
// codes directly over the escaped NAL payload bytes: the emulation
// prevention pattern (two zero bytes followed by 0x03) is removed one
// byte at a time as the cursor advances, so no unescaped copy of the
// payload is ever materialized.
package rbsp

import "errors"

// emulationPreventionByte is inserted by encoders after two consecutive
// zero bytes to keep start-code patterns out of NAL payloads.
const emulationPreventionByte = 0x03

// ErrExhausted is returned when a read runs past the end of the payload.
// The reader's position is left at the end; callers must not interpret
// further reads as meaningful field values.
var ErrExhausted = errors.New("rbsp: bitstream exhausted")

// ErrExpGolombTooLong is returned when an Exp-Golomb prefix exceeds 32
// zero bits, which no valid syntax element produces.
var ErrExpGolombTooLong = errors.New("rbsp: exp-golomb code exceeds 32 bits")

// Reader is a single-pass bit cursor over an escaped RBSP byte range.
// It never copies or owns the underlying bytes; the caller's buffer must
// outlive the reader. The zero value is not usable; call [NewReader].
type Reader struct {
	data  []byte
	pos   int  // index of the next unconsumed byte
	cur   byte // byte currently being consumed bit by bit
	bit   int  // bits of cur already consumed; 8 means cur is spent
	zeros int  // consecutive zero bytes delivered to the bit level
}

// NewReader returns a Reader positioned at the first bit of p.
func NewReader(p []byte) *Reader {
	return &Reader{data: p, bit: 8}
}

// loadByte advances the byte cursor, dropping an emulation prevention
// byte when one follows two delivered zero bytes. A trailing partial
// pattern (payload ending in 00 00) passes through as ordinary bytes.
func (r *Reader) loadByte() error {
	if r.zeros >= 2 && r.pos < len(r.data) && r.data[r.pos] == emulationPreventionByte {
		r.pos++
		r.zeros = 0
	}
	if r.pos >= len(r.data) {
		return ErrExhausted
	}
	r.cur = r.data[r.pos]
	r.pos++
	r.bit = 0
	if r.cur == 0 {
		r.zeros++
	} else {
		r.zeros = 0
	}
	return nil
}

func (r *Reader) readBit() (uint64, error) {
	if r.bit == 8 {
		if err := r.loadByte(); err != nil {
			return 0, err
		}
	}
	v := uint64(r.cur>>(7-r.bit)) & 1
	r.bit++
	return v, nil
}

// ReadBits reads n bits (n <= 64) MSB-first and returns them as an
// unsigned integer. On exhaustion the position is left at the end of the
// payload and ErrExhausted is returned.
func (r *Reader) ReadBits(n int) (uint64, error) {
	var v uint64
	for i := 0; i < n; i++ {
		b, err := r.readBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | b
	}
	return v, nil
}

// ReadFlag reads a single bit as a boolean.
func (r *Reader) ReadFlag() (bool, error) {
	b, err := r.readBit()
	return b == 1, err
}

// ReadUE reads an unsigned Exp-Golomb code (ue(v)): k leading zero bits,
// a one bit, then k suffix bits; the value is 2^k - 1 + suffix.
func (r *Reader) ReadUE() (uint32, error) {
	zeros := 0
	for {
		b, err := r.readBit()
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		zeros++
		if zeros > 31 {
			return 0, ErrExpGolombTooLong
		}
	}
	if zeros == 0 {
		return 0, nil
	}
	suffix, err := r.ReadBits(zeros)
	if err != nil {
		return 0, err
	}
	return uint32(1<<zeros - 1 + suffix), nil
}

// ReadSE reads a signed Exp-Golomb code (se(v)). codeNum 0 maps to 0,
// then 1, -1, 2, -2, and so on.
func (r *Reader) ReadSE() (int32, error) {
	code, err := r.ReadUE()
	if err != nil {
		return 0, err
	}
	if code%2 == 0 {
		return -int32(code / 2), nil
	}
	return int32((code + 1) / 2), nil
}

// SkipBits consumes n bits, honoring emulation prevention removal.
func (r *Reader) SkipBits(n int) error {
	for i := 0; i < n; i++ {
		if _, err := r.readBit(); err != nil {
			return err
		}
	}
	return nil
}

// BitsRemaining reports how many logical payload bits are left, not
// counting emulation prevention bytes that will be dropped.
func (r *Reader) BitsRemaining() int {
	n := 0
	if r.bit < 8 {
		n = 8 - r.bit
	}
	zeros := r.zeros
	for i := r.pos; i < len(r.data); i++ {
		b := r.data[i]
		if zeros >= 2 && b == emulationPreventionByte {
			zeros = 0
			continue
		}
		n += 8
		if b == 0 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return n
}

// IsByteAligned reports whether the cursor sits on a logical byte
// boundary.
func (r *Reader) IsByteAligned() bool {
	return r.bit == 8
}

// Offset returns the raw byte index (counting escape bytes) and the bit
// offset within the current byte, for diagnostics.
func (r *Reader) Offset() (byteIdx, bitIdx int) {
	if r.bit == 8 {
		return r.pos, 0
	}
	return r.pos - 1, r.bit
}
