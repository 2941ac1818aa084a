// Package layout places samples in a 3D display space by projecting their pixels
// on the three principal axes of the sample.
package layout

import "errors"
import "fmt"
import "math"
import "math/rand/v2"
import "os"

import "github.com/goccy/go-json"
import "github.com/neurlang/mnist3d/idx"
import "github.com/neurlang/mnist3d/parallel"

// FileName is the name of the coordinates file inside the sample directory
const FileName = "coords.json"

// Dims is the number of display dimensions
const Dims = 3

var ErrEmpty = errors.New("layout: no images")

// Coord is a display position
type Coord [Dims]float64

// Options tune Compute
type Options struct {
	// Spread is the largest absolute coordinate of the result
	Spread float64

	// Iterations of the power method per axis
	Iterations int

	// Seed of the initial axis guesses
	Seed uint64

	// Workers bounds the goroutines, zero means parallel.Workers()
	Workers int
}

// DefaultOptions fit the front end grid, which spans -10 to 10
func DefaultOptions() Options {
	return Options{
		Spread:     10,
		Iterations: 100,
		Seed:       42,
	}
}

// Compute returns one coordinate per image, in image order
func Compute(images idx.Images, opts Options) ([]Coord, error) {
	var n, d = images.Len(), images.Rows * images.Cols
	if n == 0 || d == 0 {
		return nil, ErrEmpty
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultOptions().Iterations
	}
	if opts.Workers <= 0 {
		opts.Workers = parallel.Workers()
	}

	// normalized, centered rows
	var mean = make([]float64, d)
	for _, img := range images.Pixels {
		if len(img) != d {
			return nil, fmt.Errorf("layout: image has %d pixels, want %d", len(img), d)
		}
		for j, v := range img {
			mean[j] += float64(v) / 255
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}
	var rows = make([][]float64, n)
	parallel.ForEach(n, opts.Workers, func(i int) {
		var row = make([]float64, d)
		for j, v := range images.Pixels[i] {
			row[j] = float64(v)/255 - mean[j]
		}
		rows[i] = row
	})

	var rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	var axes [Dims][]float64
	var proj = make([]float64, n)
	for a := range axes {
		var v = make([]float64, d)
		for j := range v {
			v[j] = rng.Float64() - 0.5
		}
		orthogonalize(v, axes[:a])
		if normalize(v) == 0 {
			axes[a] = v
			continue
		}
		for it := 0; it < opts.Iterations; it++ {
			// v = X^T X v
			project(rows, v, proj, opts.Workers)
			var next = make([]float64, d)
			for i, p := range proj {
				for j, x := range rows[i] {
					next[j] += p * x
				}
			}
			orthogonalize(next, axes[:a])
			if normalize(next) == 0 {
				break
			}
			v = next
		}
		canonicalSign(v)
		axes[a] = v
	}

	var coords = make([]Coord, n)
	var extent float64
	for a := range axes {
		project(rows, axes[a], proj, opts.Workers)
		for i, p := range proj {
			coords[i][a] = p
			extent = math.Max(extent, math.Abs(p))
		}
	}
	if extent > 1e-9 && opts.Spread > 0 {
		var scale = opts.Spread / extent
		for i := range coords {
			for a := range coords[i] {
				coords[i][a] *= scale
			}
		}
	}
	return coords, nil
}

// project stores the dot product of every row with v into out
func project(rows [][]float64, v []float64, out []float64, workers int) {
	parallel.ForEach(len(rows), workers, func(i int) {
		var s float64
		for j, x := range rows[i] {
			s += x * v[j]
		}
		out[i] = s
	})
}

func orthogonalize(v []float64, axes [][]float64) {
	for _, a := range axes {
		var dot float64
		for j := range v {
			dot += v[j] * a[j]
		}
		for j := range v {
			v[j] -= dot * a[j]
		}
	}
}

func normalize(v []float64) float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm < 1e-12 {
		for j := range v {
			v[j] = 0
		}
		return 0
	}
	for j := range v {
		v[j] /= norm
	}
	return norm
}

// canonicalSign flips v so that its largest component is positive
func canonicalSign(v []float64) {
	var big float64
	for _, x := range v {
		if math.Abs(x) > math.Abs(big) {
			big = x
		}
	}
	if big < 0 {
		for j := range v {
			v[j] = -v[j]
		}
	}
}

// Write stores the coordinates as a json array of [x,y,z]
func Write(name string, coords []Coord) error {
	if coords == nil {
		coords = []Coord{}
	}
	data, err := json.Marshal(coords)
	if err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644)
}

// Read loads coordinates written by Write
func Read(name string) ([]Coord, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var coords []Coord
	if err := json.Unmarshal(data, &coords); err != nil {
		return nil, fmt.Errorf("layout: parse '%s': %w", name, err)
	}
	return coords, nil
}
