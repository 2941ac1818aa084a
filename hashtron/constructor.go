package hashtron

import "errors"
import "math/rand/v2"

var ErrBits = errors.New("hashtron: at most 16 output bits")

// New creates a hashtron running program and returning bits bits. A nil program
// gets a single random command, a zero bits means one bit.
func New(program [][2]uint32, bits byte) (h *Hashtron, err error) {
	if bits > 16 {
		return nil, ErrBits
	}
	if bits == 0 {
		bits = 1
	}
	h = new(Hashtron)
	if program == nil {
		h.program = [][2]uint32{{rand.Uint32() >> 1, 2}}
	} else {
		h.program = program
	}
	h.bits = bits
	return
}
