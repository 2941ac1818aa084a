// Package manifest renders decoded samples to PNG files and indexes them in meta.json
package manifest

import "errors"
import "fmt"
import "image"
import "image/color"
import "image/png"
import "os"
import "path/filepath"
import "strconv"

import "github.com/goccy/go-json"
import "github.com/neurlang/mnist3d/idx"

// FileName is the name of the manifest inside the sample directory
const FileName = "meta.json"

var ErrLabels = errors.New("manifest: fewer labels than images")

// Entry is one manifest row. Index i pairs image i with label i.
type Entry struct {
	Index int    `json:"index"`
	Label int    `json:"label"`
	File  string `json:"file"`
}

// ImageName returns the deterministic file name of image i
func ImageName(i int) string {
	return strconv.Itoa(i) + ".png"
}

// Build lists the manifest entries of the decoded images in decode order
func Build(images idx.Images, labels []byte) ([]Entry, error) {
	if len(labels) < images.Len() {
		return nil, fmt.Errorf("%w: %d labels, %d images", ErrLabels, len(labels), images.Len())
	}
	var entries = make([]Entry, images.Len())
	for i := range entries {
		entries[i] = Entry{Index: i, Label: int(labels[i]), File: ImageName(i)}
	}
	return entries, nil
}

// Render draws a flat row-major intensity image into a cols x rows RGBA raster,
// copying each intensity into R, G and B with full opacity.
func Render(pixels []byte, rows, cols int) (*image.RGBA, error) {
	if rows < 0 || cols < 0 || len(pixels) != rows*cols {
		return nil, fmt.Errorf("manifest: %d pixels do not make a %dx%d image", len(pixels), cols, rows)
	}
	var img = image.NewRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var val = pixels[y*cols+x]
			var pos = img.PixOffset(x, y)
			img.Pix[pos] = val
			img.Pix[pos+1] = val
			img.Pix[pos+2] = val
			img.Pix[pos+3] = 255
		}
	}
	return img, nil
}

// Pixels flattens an image back into row-major gray intensities
func Pixels(img image.Image) (pixels []byte, rows, cols int) {
	var b = img.Bounds()
	rows, cols = b.Dy(), b.Dx()
	pixels = make([]byte, 0, rows*cols)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pixels = append(pixels, color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
		}
	}
	return
}

// Emit writes one PNG per image into dir followed by the manifest.
// The first failed write aborts the batch.
func Emit(dir string, images idx.Images, labels []byte) ([]Entry, error) {
	entries, err := Build(images, labels)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	for i, e := range entries {
		img, err := Render(images.Pixels[i], images.Rows, images.Cols)
		if err != nil {
			return nil, err
		}
		if err := WritePNG(filepath.Join(dir, e.File), img); err != nil {
			return nil, err
		}
	}
	if err := Write(filepath.Join(dir, FileName), entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// WritePNG encodes img losslessly into the file name
func WritePNG(name string, img image.Image) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = png.Encode(file, img)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadPNG decodes the PNG file name
func ReadPNG(name string) (image.Image, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return png.Decode(file)
}

// Write stores the entries as an indented JSON array
func Write(name string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644)
}

// Read loads a manifest written by Write
func Read(name string) ([]Entry, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("manifest: parse '%s': %w", name, err)
	}
	return entries, nil
}
