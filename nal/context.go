package nal

// Context holds the active parameter sets of a stream. Slice headers
// resolve their PPS (and through it the SPS) against a Context; a
// parameter set republished under an existing ID replaces the previous
// one, as later activations refer to the new content.
//
// A Context is not safe for concurrent use.
type Context struct {
	vps map[uint8]*VPS
	sps map[uint8]*SPS
	pps map[uint8]*PPS
}

func NewContext() *Context {
	return &Context{
		vps: make(map[uint8]*VPS),
		sps: make(map[uint8]*SPS),
		pps: make(map[uint8]*PPS),
	}
}

// PutVPS registers v under its own ID. Registration forces the ID group
// to decode; the error, if any, is the decode error.
func (c *Context) PutVPS(v *VPS) error {
	id, err := v.ID()
	if err != nil {
		return err
	}
	c.vps[id] = v
	return nil
}

func (c *Context) PutSPS(s *SPS) error {
	id, err := s.ID()
	if err != nil {
		return err
	}
	c.sps[id] = s
	return nil
}

func (c *Context) PutPPS(p *PPS) error {
	id, err := p.ID()
	if err != nil {
		return err
	}
	c.pps[id] = p
	return nil
}

// VPS returns the registered VPS with the given ID, or an
// UnresolvedParameterSetError.
func (c *Context) VPS(id uint8) (*VPS, error) {
	v, ok := c.vps[id]
	if !ok {
		return nil, &UnresolvedParameterSetError{Kind: KindVPS, ID: id}
	}
	return v, nil
}

func (c *Context) SPS(id uint8) (*SPS, error) {
	s, ok := c.sps[id]
	if !ok {
		return nil, &UnresolvedParameterSetError{Kind: KindSPS, ID: id}
	}
	return s, nil
}

func (c *Context) PPS(id uint8) (*PPS, error) {
	p, ok := c.pps[id]
	if !ok {
		return nil, &UnresolvedParameterSetError{Kind: KindPPS, ID: id}
	}
	return p, nil
}
