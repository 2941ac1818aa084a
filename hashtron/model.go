// Package hashtron implements a hashtron (classifier)
package hashtron

// Hashtron represents individual hashtron (classifier) in memory
type Hashtron struct {
	program [][2]uint32
	bits    byte
}

// Get gets the hashing command at position n
func (h Hashtron) Get(n int) (s uint32, max uint32) {
	return h.program[n][0], h.program[n][1]
}

// Len gets the number of hashing commands (size of hashtron program)
func (h Hashtron) Len() int {
	return len(h.program)
}

// Bits determines the number of output bits returned by hashtron using Forward
func (h Hashtron) Bits() byte {
	return h.bits
}
