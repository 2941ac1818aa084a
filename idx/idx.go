// Package idx implements the decoder of the IDX unsigned byte format used by the MNIST dataset
package idx

import "encoding/binary"
import "errors"
import "fmt"

// ImagesMagic is the magic number of an unsigned byte IDX file with 3 dimensions (images)
const ImagesMagic = 0x00000803

// LabelsMagic is the magic number of an unsigned byte IDX file with 1 dimension (labels)
const LabelsMagic = 0x00000801

const imagesHeader = 16
const labelsHeader = 8

// MaxLabel is the largest digit label
const MaxLabel = 9

var ErrMagic = errors.New("idx: bad magic number")
var ErrTruncated = errors.New("idx: truncated buffer")
var ErrCount = errors.New("idx: count exceeds item count")
var ErrLabel = errors.New("idx: label out of range")
var ErrDims = errors.New("idx: zero sized images")

// Header is the fixed header of an IDX file. Rows and Cols are zero for label files.
type Header struct {
	Magic uint32
	Count uint32
	Rows  uint32
	Cols  uint32
}

// Dims reports the number of dimensions encoded in the magic number
func (h Header) Dims() int {
	return int(h.Magic & 0xff)
}

// Size reports the header length in bytes
func (h Header) Size() int {
	return 4 + 4*h.Dims()
}

// Images holds decoded images, each a flat row-major sequence of Rows*Cols pixels.
// The pixel at row y and column x is at Pixels[i][y*Cols+x].
type Images struct {
	Pixels [][]byte
	Rows   int
	Cols   int
}

// Len returns the number of images
func (i Images) Len() int {
	return len(i.Pixels)
}

// ReadHeader decodes the header of an unsigned byte IDX file of either variant
func ReadHeader(buf []byte) (h Header, err error) {
	if len(buf) < labelsHeader {
		return h, fmt.Errorf("%w: %d bytes, need %d for header", ErrTruncated, len(buf), labelsHeader)
	}
	h.Magic = binary.BigEndian.Uint32(buf[0:])
	h.Count = binary.BigEndian.Uint32(buf[4:])
	switch h.Magic {
	case LabelsMagic:
		return h, nil
	case ImagesMagic:
		if len(buf) < imagesHeader {
			return h, fmt.Errorf("%w: %d bytes, need %d for header", ErrTruncated, len(buf), imagesHeader)
		}
		h.Rows = binary.BigEndian.Uint32(buf[8:])
		h.Cols = binary.BigEndian.Uint32(buf[12:])
		return h, nil
	}
	return h, fmt.Errorf("%w: 0x%08x", ErrMagic, h.Magic)
}

// bodyFits reports whether count items of size bytes each fit in body bytes
func bodyFits(body int, count int, size uint64) bool {
	if count == 0 || size == 0 {
		return true
	}
	return size <= uint64(body)/uint64(count)
}
