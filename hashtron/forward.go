package hashtron

import "github.com/neurlang/mnist3d/hash"

// Forward evaluates the hashtron on command, one program run per output bit
func (h Hashtron) Forward(command uint32) (out uint16) {
	if h.Len() == 0 {
		return
	}
	for j := byte(0); j < h.Bits(); j++ {
		var input = command | (uint32(j) << 16)
		if hash.Chain(input, h.program)&1 != 0 {
			out |= 1 << j
		}
	}
	return
}
