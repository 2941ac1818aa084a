// Package majpool2d implements a 2D majority pooling layer and combiner
package majpool2d

import "errors"

import "github.com/neurlang/mnist3d/layer"

// MajPool2DLayer pools a grid of width*subwidth by height*subheight booleans
// into width*height blocks of subwidth by subheight.
type MajPool2DLayer struct {
	width, height, subwidth, subheight int
}

type MajPool2D struct {
	vec                                []bool
	width, height, subwidth, subheight int
}

// New creates a new MajPool2D layer with size and subsize
func New(width, height, subwidth, subheight int) (o *MajPool2DLayer, err error) {
	if width <= 0 || height <= 0 || subwidth <= 0 || subheight <= 0 {
		return nil, errors.New("majpool2d: dimensions must be positive")
	}
	if width*height > 32 {
		return nil, errors.New("majpool2d: more than 32 blocks do not fit a feature")
	}
	o = new(MajPool2DLayer)
	o.width = width
	o.height = height
	o.subwidth = subwidth
	o.subheight = subheight
	return
}

// MustNew creates a new MajPool2D layer with size and subsize
func MustNew(width, height, subwidth, subheight int) *MajPool2DLayer {
	o, err := New(width, height, subwidth, subheight)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// Inputs reports the number of booleans the combiner expects
func (i *MajPool2DLayer) Inputs() int {
	return i.width * i.height * i.subwidth * i.subheight
}

// Lay turns MajPool2D layer into a combiner
func (i *MajPool2DLayer) Lay() layer.Combiner {
	var o MajPool2D
	o.vec = make([]bool, i.Inputs())
	o.width = i.width
	o.height = i.height
	o.subwidth = i.subwidth
	o.subheight = i.subheight
	return &o
}
