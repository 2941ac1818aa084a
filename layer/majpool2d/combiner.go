package majpool2d

// Put sets the n-th bool, n indexes the grid row-major.
func (s *MajPool2D) Put(n int, v bool) {
	s.vec[n] = v
}

// Feature returns the block majorities, bit b is set when more than half
// of block b is true. Blocks are numbered row-major. All n share the feature.
func (s *MajPool2D) Feature(n int) (o uint32) {
	var stride = s.width * s.subwidth
	for by := 0; by < s.height; by++ {
		for bx := 0; bx < s.width; bx++ {
			var w int
			for y := 0; y < s.subheight; y++ {
				var row = (by*s.subheight + y) * stride
				for x := 0; x < s.subwidth; x++ {
					if s.vec[row+bx*s.subwidth+x] {
						w++
					} else {
						w--
					}
				}
			}
			if w > 0 {
				o |= 1 << (by*s.width + bx)
			}
		}
	}
	return
}
