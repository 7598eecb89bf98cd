package nal

// Scanner splits an Annex B byte stream into NAL units across repeated
// Feed calls. It is a persistent object: feeding may resume after any
// number of calls, and Flush terminates the current stream and resets
// the scanner for a new one.
//
// A unit is emitted only once its end is known, either because the next
// start code appeared or because Flush declared end of stream. Units
// wholly contained in one Feed buffer are returned as views into that
// buffer; only a unit left unconfirmed at the end of a Feed call is
// retained (copied) across calls.
type Scanner struct {
	carry   []byte // bytes of the current unconfirmed unit from earlier feeds
	zeros   int    // consecutive zero bytes at the logical stream tail
	started bool   // a start code has been seen; a unit is in progress
}

// Feed scans p and returns the units it completes. Bytes before the
// first start code of the stream are discarded. Zero-length units
// (adjacent start codes) are skipped silently.
func (s *Scanner) Feed(p []byte) []Unit {
	var units []Unit
	unitStart := 0 // start of the in-progress unit's bytes within p
	for i := 0; i < len(p); i++ {
		switch {
		case p[i] == 0x00:
			s.zeros++
		case p[i] == 0x01 && s.zeros >= 2:
			prefix := s.zeros
			if prefix > 3 {
				prefix = 3
			}
			if s.started {
				if u, ok := s.take(p[unitStart:i], prefix); ok {
					units = append(units, u)
				}
			}
			s.carry = nil
			s.started = true
			unitStart = i + 1
			s.zeros = 0
		default:
			s.zeros = 0
		}
	}
	if s.started && unitStart < len(p) {
		s.carry = append(s.carry, p[unitStart:]...)
	}
	return units
}

// take assembles the unit formed by the carry plus tail, dropping the
// prefix bytes that belong to the just-found start code. The carry must
// not be reused afterwards since the unit may reference it.
func (s *Scanner) take(tail []byte, prefix int) (Unit, bool) {
	total := len(s.carry) + len(tail) - prefix
	if total <= 0 {
		return Unit{}, false
	}
	var data []byte
	switch {
	case len(s.carry) == 0:
		data = tail[:len(tail)-prefix]
	case len(tail) >= prefix:
		data = make([]byte, 0, total)
		data = append(data, s.carry...)
		data = append(data, tail[:len(tail)-prefix]...)
	default:
		data = s.carry[:total]
	}
	return newUnit(data), true
}

// Flush declares end of stream: the unconfirmed trailing unit, if any,
// is emitted as complete. The scanner is then ready for a new stream.
func (s *Scanner) Flush() (Unit, bool) {
	data := s.carry
	started := s.started
	s.carry = nil
	s.zeros = 0
	s.started = false
	if !started || len(data) == 0 {
		return Unit{}, false
	}
	return newUnit(data), true
}

func newUnit(data []byte) Unit {
	h, err := ParseHeader(data)
	return Unit{Header: h, Data: data, Err: err}
}
