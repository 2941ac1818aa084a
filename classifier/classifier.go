// Package classifier recognizes handwritten digits in 28x28 gray images
package classifier

import "errors"
import "fmt"
import "io"
import "sync"

import "github.com/neurlang/mnist3d/datasets/mnist"
import "github.com/neurlang/mnist3d/layer/majpool2d"
import "github.com/neurlang/mnist3d/net/feedforward"
import "github.com/neurlang/mnist3d/parallel"

// Classes is the number of digits
const Classes = 10

var ErrInputSize = errors.New("classifier: image must be 28x28")
var ErrWeights = errors.New("classifier: bad weights")

// Probabilities holds one probability per digit, summing to 1
type Probabilities [Classes]float64

// Argmax returns the most probable digit and its probability, the lowest digit wins ties
func (p Probabilities) Argmax() (digit int, confidence float64) {
	for d, v := range p {
		if v > p[digit] {
			digit = d
		}
	}
	return digit, p[digit]
}

// Classifier is a digit classifier with fixed weights
type Classifier interface {

	// LoadWeights replaces the weights with the ones read from r
	LoadWeights(r io.Reader) error

	// Forward runs the classifier on a flat row-major 28x28 image
	Forward(pixels []byte) (Probabilities, error)
}

// shifts the network votes over, the image itself comes first
var shifts = [...][2]int{
	{0, 0},
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// Network is a Classifier backed by a hashtron feedforward network
// reading the 13x13 downscaled image.
type Network struct {
	mut sync.RWMutex
	net feedforward.FeedforwardNetwork
}

// New creates a network with random weights
func New() *Network {
	const dim = mnist.SmallImgSize - 1
	var n = new(Network)
	n.net.NewLayer(dim*dim, 0)
	n.net.NewCombiner(majpool2d.MustNew(3, 3, dim/3, dim/3))
	n.net.NewLayer(1, 4)
	return n
}

// LoadWeights reads json weights
func (n *Network) LoadWeights(r io.Reader) error {
	n.mut.Lock()
	defer n.mut.Unlock()
	if err := n.net.ReadWeights(r); err != nil {
		return fmt.Errorf("%w: %v", ErrWeights, err)
	}
	return nil
}

// LoadWeightsFile reads json weights, lzw compressed when the name ends in .lzw
func (n *Network) LoadWeightsFile(name string) error {
	n.mut.Lock()
	defer n.mut.Unlock()
	if err := n.net.ReadWeightsFromFile(name); err != nil {
		return fmt.Errorf("%w: %v", ErrWeights, err)
	}
	return nil
}

// SaveWeightsFile writes the weights in the format LoadWeightsFile reads
func (n *Network) SaveWeightsFile(name string) error {
	n.mut.RLock()
	defer n.mut.RUnlock()
	return n.net.WriteWeightsToFile(name)
}

// Forward votes the network over the image and its one pixel shifts
func (n *Network) Forward(pixels []byte) (p Probabilities, err error) {
	in, err := mnist.NewInput(pixels)
	if err != nil {
		return p, fmt.Errorf("%w: %d pixels", ErrInputSize, len(pixels))
	}
	n.mut.RLock()
	defer n.mut.RUnlock()

	var votes [len(shifts)]int
	parallel.ForEach(len(shifts), parallel.Workers(), func(i int) {
		var shifted = in.Shift(shifts[i][0], shifts[i][1])
		var small = shifted.Downscale()
		votes[i] = int(n.net.Infer(&small)) % Classes
	})
	for _, v := range votes {
		p[v] += 1 / float64(len(votes))
	}
	return p, nil
}
