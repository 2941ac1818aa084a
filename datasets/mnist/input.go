package mnist

import "fmt"

// original
const ImgSize = 28

// downscaled
const SmallImgSize = 13

type Input [ImgSize * ImgSize]byte

// Feature packs the 2x2 pixel window at n into one feature
func (i *Input) Feature(n int) uint32 {
	n %= ((ImgSize - 1) * (ImgSize - 1))
	return uint32(i[n]) | uint32(i[n+1])<<8 | uint32(i[n+ImgSize])<<16 | uint32(i[n+1+ImgSize])<<24
}

type SmallInput [SmallImgSize * SmallImgSize]byte

// Feature packs the 2x2 pixel window at n into one feature
func (i *SmallInput) Feature(n int) uint32 {
	n %= ((SmallImgSize - 1) * (SmallImgSize - 1))
	return uint32(i[n]) | uint32(i[n+1])<<8 | uint32(i[n+SmallImgSize])<<16 | uint32(i[n+1+SmallImgSize])<<24
}

// NewInput copies a flat 28x28 image into an Input
func NewInput(pixels []byte) (in Input, err error) {
	if len(pixels) != ImgSize*ImgSize {
		return in, fmt.Errorf("mnist: image has %d pixels, want %d", len(pixels), ImgSize*ImgSize)
	}
	copy(in[:], pixels)
	return in, nil
}

// Downscale max pools the image 2x2 into 13x13, dropping the one pixel border
func (i *Input) Downscale() (small SmallInput) {
	for y := 0; y < SmallImgSize; y++ {
		for x := 0; x < SmallImgSize; x++ {
			var base = 1 + ImgSize + (2 * x) + (2 * y * ImgSize)
			small[y*SmallImgSize+x] = max4(
				i[base],
				i[base+1],
				i[base+ImgSize],
				i[base+ImgSize+1],
			)
		}
	}
	return
}

// Shift moves the image by dx columns and dy rows, filling with zeros
func (i *Input) Shift(dx, dy int) (o Input) {
	for y := 0; y < ImgSize; y++ {
		sy := y - dy
		if sy < 0 || sy >= ImgSize {
			continue
		}
		for x := 0; x < ImgSize; x++ {
			sx := x - dx
			if sx < 0 || sx >= ImgSize {
				continue
			}
			o[y*ImgSize+x] = i[sy*ImgSize+sx]
		}
	}
	return
}

func max4(a, b, c, d byte) (o byte) {
	o = a
	if b > o {
		o = b
	}
	if c > o {
		o = c
	}
	if d > o {
		o = d
	}
	return o
}
