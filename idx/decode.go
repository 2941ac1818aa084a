package idx

import "fmt"

// DecodeImages decodes the first count images of an IDX image buffer.
// The returned pixels are copied and never alias buf.
func DecodeImages(buf []byte, count int) (Images, error) {
	h, err := ReadHeader(buf)
	if err != nil {
		return Images{}, err
	}
	if h.Magic != ImagesMagic {
		return Images{}, fmt.Errorf("%w: 0x%08x, want 0x%08x", ErrMagic, h.Magic, ImagesMagic)
	}
	if count < 0 || uint64(count) > uint64(h.Count) {
		return Images{}, fmt.Errorf("%w: requested %d of %d", ErrCount, count, h.Count)
	}
	var size = uint64(h.Rows) * uint64(h.Cols)
	if size == 0 && count > 0 {
		return Images{}, fmt.Errorf("%w: %dx%d", ErrDims, h.Rows, h.Cols)
	}
	if !bodyFits(len(buf)-imagesHeader, count, size) {
		return Images{}, fmt.Errorf("%w: %d images of %dx%d need more than %d bytes",
			ErrTruncated, count, h.Rows, h.Cols, len(buf))
	}

	var n = int(size)
	var body = make([]byte, count*n)
	copy(body, buf[imagesHeader:])

	var out = Images{
		Pixels: make([][]byte, count),
		Rows:   int(h.Rows),
		Cols:   int(h.Cols),
	}
	for i := range out.Pixels {
		out.Pixels[i] = body[i*n : (i+1)*n : (i+1)*n]
	}
	return out, nil
}

// DecodeLabels decodes the first count labels of an IDX label buffer.
func DecodeLabels(buf []byte, count int) ([]byte, error) {
	h, err := ReadHeader(buf)
	if err != nil {
		return nil, err
	}
	if h.Magic != LabelsMagic {
		return nil, fmt.Errorf("%w: 0x%08x, want 0x%08x", ErrMagic, h.Magic, LabelsMagic)
	}
	if count < 0 || uint64(count) > uint64(h.Count) {
		return nil, fmt.Errorf("%w: requested %d of %d", ErrCount, count, h.Count)
	}
	if !bodyFits(len(buf)-labelsHeader, count, 1) {
		return nil, fmt.Errorf("%w: %d labels need more than %d bytes", ErrTruncated, count, len(buf))
	}
	var labels = make([]byte, count)
	copy(labels, buf[labelsHeader:])
	for i, v := range labels {
		if v > MaxLabel {
			return nil, fmt.Errorf("%w: label %d at index %d", ErrLabel, v, i)
		}
	}
	return labels, nil
}
