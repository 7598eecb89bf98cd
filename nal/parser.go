package nal

import "log/slog"

// Data is one parsed result from the Parser. Unit is always set. For
// recognized parameter set and slice types exactly one of VPS, SPS,
// PPS, or Slice is also set; every other unit type passes through with
// only Unit populated.
type Data struct {
	Unit  Unit
	VPS   *VPS
	SPS   *SPS
	PPS   *PPS
	Slice *SliceHeader
}

// Parser drives a Scanner over an Annex B stream and dispatches each
// unit by type: parameter sets are wrapped lazily and registered in
// the Context, slice segments become slice headers bound to that
// Context, everything else, reserved VCL codes included, passes
// through opaque. A Parser is single-threaded;
// the caller paces it by how it calls Feed.
type Parser struct {
	log     *slog.Logger
	scanner Scanner
	ctx     *Context
}

// NewParser creates a Parser with a fresh parameter set context unless
// WithContext supplies a shared one.
func NewParser(opts ...func(*Parser)) *Parser {
	p := &Parser{log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With("component", "nal-parser")
	if p.ctx == nil {
		p.ctx = NewContext()
	}
	return p
}

// WithLogger sets the parser's logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) func(*Parser) {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// WithContext makes the parser resolve and register parameter sets in
// a shared Context instead of a private one. The caller is responsible
// for synchronizing access if multiple parsers share it concurrently.
func WithContext(ctx *Context) func(*Parser) {
	return func(p *Parser) {
		p.ctx = ctx
	}
}

// Context returns the parameter set context the parser registers into.
func (p *Parser) Context() *Context {
	return p.ctx
}

// Feed scans the next byte range of the stream and returns one Data
// per completed unit. The returned units may alias p's buffer; they
// stay valid only as long as the buffer does.
func (p *Parser) Feed(buf []byte) []Data {
	units := p.scanner.Feed(buf)
	if len(units) == 0 {
		return nil
	}
	out := make([]Data, 0, len(units))
	for _, u := range units {
		out = append(out, p.dispatch(u))
	}
	return out
}

// Flush terminates the stream, emitting the unconfirmed trailing unit
// if one is pending. The scanner is then ready for a new stream; the
// parameter set context is kept.
func (p *Parser) Flush() []Data {
	u, ok := p.scanner.Flush()
	if !ok {
		return nil
	}
	return []Data{p.dispatch(u)}
}

func (p *Parser) dispatch(u Unit) Data {
	d := Data{Unit: u}
	if u.Err != nil {
		p.log.Warn("invalid NAL unit header", "err", u.Err)
		return d
	}
	switch u.Header.Type {
	case TypeVPS:
		d.VPS = NewVPS(u.Payload())
		if err := p.ctx.PutVPS(d.VPS); err != nil {
			p.log.Debug("VPS not registered", "err", err)
		}
	case TypeSPS:
		d.SPS = NewSPS(u.Payload())
		if err := p.ctx.PutSPS(d.SPS); err != nil {
			p.log.Debug("SPS not registered", "err", err)
		}
	case TypePPS:
		d.PPS = NewPPS(u.Payload())
		if err := p.ctx.PutPPS(d.PPS); err != nil {
			p.log.Debug("PPS not registered", "err", err)
		}
	default:
		if u.Header.Type.hasSliceSegmentHeader() {
			d.Slice = NewSliceHeader(u, p.ctx)
		}
	}
	return d
}
