package classifier

import "fmt"
import "sync/atomic"

import "github.com/neurlang/mnist3d/idx"
import "github.com/neurlang/mnist3d/parallel"

// Report is the outcome of classifying a labeled sample
type Report struct {
	Total   int
	Correct int

	// Errors sums the distance between predicted and labeled digits
	Errors int

	// Confusion counts predictions by label, then by predicted digit
	Confusion [Classes][Classes]int
}

// Accuracy returns the share of correct predictions
func (r *Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// Evaluate classifies every image and compares the most probable digit with its label
func Evaluate(c Classifier, images idx.Images, labels []byte) (*Report, error) {
	if len(labels) < images.Len() {
		return nil, fmt.Errorf("classifier: %d labels for %d images", len(labels), images.Len())
	}
	var predicted = make([]int, images.Len())
	var failed atomic.Pointer[error]
	parallel.ForEach(images.Len(), parallel.Workers(), func(i int) {
		if failed.Load() != nil {
			return
		}
		p, err := c.Forward(images.Pixels[i])
		if err != nil {
			err = fmt.Errorf("image %d: %w", i, err)
			failed.CompareAndSwap(nil, &err)
			return
		}
		predicted[i], _ = p.Argmax()
	})
	if err := failed.Load(); err != nil {
		return nil, *err
	}

	var r = &Report{Total: images.Len()}
	for i, digit := range predicted {
		var label = int(labels[i])
		if label >= Classes {
			return nil, fmt.Errorf("classifier: image %d has label %d", i, label)
		}
		if digit == label {
			r.Correct++
		}
		r.Errors += distance(digit, label)
		r.Confusion[label][digit]++
	}
	return r, nil
}
