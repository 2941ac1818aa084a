// Package hash implements the fast modular hash evaluated by hashtron programs
package hash

// Hash mixes n with salt s and reduces the result into the range 0 to max-1.
// A max of 0 always yields 0.
func Hash(n uint32, s uint32, max uint32) uint32 {
	// mix input with salt using subtraction
	var m = n - s

	// xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	// mix input with salt using addition
	m += s

	// multiply shift reduction instead of modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// Chain runs n through a hashtron program. The first command sets the range,
// every following command narrows it by its own max.
func Chain(n uint32, program [][2]uint32) uint32 {
	if len(program) == 0 {
		return n
	}
	var maxx = program[0][1]
	n = Hash(n, program[0][0], maxx)
	for _, cmd := range program[1:] {
		maxx -= cmd[1]
		n = Hash(n, cmd[0], maxx)
	}
	return n
}
