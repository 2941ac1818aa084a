// Package feedforward implements a feedforward network type
package feedforward

import "github.com/neurlang/mnist3d/hashtron"
import "github.com/neurlang/mnist3d/layer"
import "github.com/neurlang/mnist3d/parallel"

// FeedforwardNetworkInput is anything a hashtron layer can read features from
type FeedforwardNetworkInput interface {
	Feature(n int) uint32
}

// SingleValue is the output of a layer without combiner
type SingleValue uint32

// Feature returns the value for every n
func (v SingleValue) Feature(n int) uint32 {
	return uint32(v)
}

// FeedforwardNetwork is the feedforward network. Hashtron layers and combiners
// alternate, a hashtron layer followed by a combiner puts its output bits into it.
type FeedforwardNetwork struct {
	layers    [][]hashtron.Hashtron
	combiners []layer.Layer
}

// Len counts the hashtrons of all layers
func (f FeedforwardNetwork) Len() (o int) {
	for _, hashtrons := range f.layers {
		o += len(hashtrons)
	}
	return
}

// LenLayers counts hashtron layers and combiners
func (f FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// GetHashtron returns the n-th hashtron counting across layers, or nil
func (f FeedforwardNetwork) GetHashtron(n int) *hashtron.Hashtron {
	for _, hashtrons := range f.layers {
		if n < len(hashtrons) {
			return &hashtrons[n]
		}
		n -= len(hashtrons)
	}
	return nil
}

// NewLayer appends n random hashtrons of bits output bits
func (f *FeedforwardNetwork) NewLayer(n int, bits byte) {
	var hashtrons = make([]hashtron.Hashtron, n)
	for i := range hashtrons {
		h, _ := hashtron.New(nil, bits)
		hashtrons[i] = *h
	}
	f.layers = append(f.layers, hashtrons)
	f.combiners = append(f.combiners, nil)
}

// NewCombiner appends a combiner, it must follow a hashtron layer
func (f *FeedforwardNetwork) NewCombiner(c layer.Layer) {
	f.layers = append(f.layers, nil)
	f.combiners = append(f.combiners, c)
}

// Infer runs every hashtron layer in order and returns the final value
func (f FeedforwardNetwork) Infer(in FeedforwardNetworkInput) uint16 {
	for l := 0; l < f.LenLayers(); l += 2 {
		in = f.Forward(in, l)
	}
	return uint16(in.Feature(0))
}

// Forward runs hashtron layer l on in. When a combiner follows the layer, every
// hashtron puts its lowest output bit into a fresh combiner which is returned.
// Otherwise the first hashtron's output is the result.
func (f FeedforwardNetwork) Forward(in FeedforwardNetworkInput, l int) FeedforwardNetworkInput {
	var hashtrons = f.layers[l]
	if l+1 >= len(f.combiners) || f.combiners[l+1] == nil {
		return SingleValue(hashtrons[0].Forward(in.Feature(0)))
	}
	var combiner = f.combiners[l+1].Lay()
	parallel.ForEach(len(hashtrons), parallel.Workers(), func(i int) {
		combiner.Put(i, hashtrons[i].Forward(in.Feature(i))&1 != 0)
	})
	return combiner
}
