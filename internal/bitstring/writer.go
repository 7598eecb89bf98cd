// Package bitstring builds reference bitstreams for tests: MSB-first bit
// sequences, Exp-Golomb codes, and emulation-prevention escaping, written
// independently of the decoding path under test.
package bitstring

import (
	"bytes"
	"math/bits"

	"github.com/asticode/go-astikit"
)

// Writer accumulates an MSB-first bit sequence.
type Writer struct {
	buf  bytes.Buffer
	bw   *astikit.BitsWriter
	nbit int
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	w := &Writer{}
	w.bw = astikit.NewBitsWriter(astikit.BitsWriterOptions{Writer: &w.buf})
	return w
}

// Bits appends the low n bits of v, MSB first.
func (w *Writer) Bits(v uint64, n int) {
	if err := w.bw.WriteN(v, n); err != nil {
		panic(err)
	}
	w.nbit += n
}

// Flag appends a single bit.
func (w *Writer) Flag(b bool) {
	if b {
		w.Bits(1, 1)
	} else {
		w.Bits(0, 1)
	}
}

// UE appends an unsigned Exp-Golomb code for v.
func (w *Writer) UE(v uint32) {
	code := uint64(v) + 1
	n := bits.Len64(code)
	w.Bits(code, 2*n-1)
}

// SE appends a signed Exp-Golomb code for v.
func (w *Writer) SE(v int32) {
	var code uint32
	if v > 0 {
		code = uint32(2*v - 1)
	} else {
		code = uint32(-2 * v)
	}
	w.UE(code)
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	return w.nbit
}

// StopAndAlign appends the RBSP stop bit followed by zero alignment bits.
func (w *Writer) StopAndAlign() {
	w.Bits(1, 1)
	for w.nbit%8 != 0 {
		w.Bits(0, 1)
	}
}

// Bytes pads the final partial byte with zero bits and returns the
// accumulated bytes.
func (w *Writer) Bytes() []byte {
	if pad := (8 - w.nbit%8) % 8; pad > 0 {
		w.Bits(0, pad)
	}
	return w.buf.Bytes()
}

// Escape inserts emulation prevention bytes the way an encoder does:
// after two consecutive zero bytes, a byte of value 0x00..0x03 is
// preceded by 0x03.
func Escape(p []byte) []byte {
	out := make([]byte, 0, len(p)+4)
	zeros := 0
	for _, b := range p {
		if zeros >= 2 && b <= 0x03 {
			out = append(out, 0x03)
			zeros = 0
		}
		out = append(out, b)
		if b == 0 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}
