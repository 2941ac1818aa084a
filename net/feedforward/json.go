package feedforward

import "compress/lzw"
import "fmt"
import "io"
import "os"
import "strings"

import "github.com/goccy/go-json"
import "github.com/neurlang/mnist3d/hashtron"

// WriteWeights writes model weights as a json array of hashtrons
func (f FeedforwardNetwork) WriteWeights(w io.Writer) error {
	var all = make([]hashtron.Hashtron, 0, f.Len())
	for _, v := range f.layers {
		all = append(all, v...)
	}
	return json.NewEncoder(w).Encode(all)
}

// ReadWeights reads model weights written by WriteWeights. The number of
// hashtrons must match the network.
func (f *FeedforwardNetwork) ReadWeights(r io.Reader) error {
	var all []hashtron.Hashtron
	if err := json.NewDecoder(r).Decode(&all); err != nil {
		return err
	}
	if len(all) != f.Len() {
		return fmt.Errorf("weights hold %d hashtrons, network has %d", len(all), f.Len())
	}
	for i := range all {
		*f.GetHashtron(i) = all[i]
	}
	return nil
}

// WriteCompressedWeights writes model weights to a lzw compressed writer
func (f FeedforwardNetwork) WriteCompressedWeights(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	if err := f.WriteWeights(lw); err != nil {
		lw.Close()
		return err
	}
	return lw.Close()
}

// ReadCompressedWeights reads model weights from a lzw compressed reader
func (f *FeedforwardNetwork) ReadCompressedWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	err := f.ReadWeights(lr)
	lr.Close()
	return err
}

// WriteWeightsToFile writes model weights to a .json or .json.lzw file
func (f FeedforwardNetwork) WriteWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	if strings.HasSuffix(name, ".lzw") {
		err = f.WriteCompressedWeights(file)
	} else {
		err = f.WriteWeights(file)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadWeightsFromFile reads model weights from a .json or .json.lzw file
func (f *FeedforwardNetwork) ReadWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	if strings.HasSuffix(name, ".lzw") {
		return f.ReadCompressedWeights(file)
	}
	return f.ReadWeights(file)
}
