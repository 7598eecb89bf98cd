package nal

import (
	"errors"

	"github.com/zsiec/hevc/rbsp"
)

// decoder drives the staged, memoized decode shared by the parameter
// set and slice header types. Each structure splits its syntax into
// ordered stages over one rbsp.Reader; an accessor asks for the stage
// its field belongs to, and stages already run are never re-run.
//
// A decode error is final: every later request for the failed stage or
// beyond reports the same error without touching the reader again,
// while stages that completed earlier stay readable. The one exception is an
// unresolved parameter set reference, which happens before the failing
// stage reads any bits, so the stage can be retried once the reference
// is registered.
type decoder struct {
	r     *rbsp.Reader
	stage int
	err   error
	runs  int
}

// run executes stages [d.stage, k] in order. stages is the structure's
// full ordered stage list and must be identical on every call.
func (d *decoder) run(k int, stages []func(*rbsp.Reader) error) error {
	if d.stage > k {
		return nil
	}
	if d.err != nil {
		return d.err
	}
	for d.stage <= k {
		if err := stages[d.stage](d.r); err != nil {
			var unresolved *UnresolvedParameterSetError
			if !errors.As(err, &unresolved) {
				d.err = err
			}
			return err
		}
		d.stage++
		d.runs++
	}
	return nil
}
