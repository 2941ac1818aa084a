// Package scene holds the state of the 3D digit visualization: the plotted points,
// the selected point and the classifier lifecycle. All methods are safe for
// concurrent use.
package scene

import "errors"
import "fmt"
import "strings"
import "sync"

import "github.com/neurlang/mnist3d/classifier"
import "github.com/neurlang/mnist3d/layout"
import "github.com/neurlang/mnist3d/manifest"

var ErrIndex = errors.New("scene: no such point")
var ErrNoSelection = errors.New("scene: nothing selected")
var ErrModelUnavailable = errors.New("scene: model unavailable")
var ErrMismatch = errors.New("scene: manifest and coordinates differ in length")

// Status is the classifier lifecycle
type Status int

const (
	Loading Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Point is one plotted sample
type Point struct {
	Index        int          `json:"index"`
	Position     layout.Coord `json:"position"`
	Digit        int          `json:"digit"`
	Confidence   float64      `json:"confidence"`
	LatentVector []float64    `json:"latentVector"`
	ImageURL     string       `json:"imageUrl"`
	Color        string       `json:"color"`
}

func (p Point) clone() Point {
	p.LatentVector = append([]float64(nil), p.LatentVector...)
	return p
}

// State is the visualization state. The zero value is not usable, use New.
type State struct {
	mu       sync.RWMutex
	points   []Point
	selected int
	model    classifier.Classifier
	status   Status
	err      error
}

// New returns an empty state waiting for its model
func New() *State {
	return &State{selected: -1, status: Loading}
}

// Join pairs manifest entries with their coordinates. Image URLs are the
// entry files under baseURL.
func Join(entries []manifest.Entry, coords []layout.Coord, baseURL string) ([]Point, error) {
	if len(entries) != len(coords) {
		return nil, fmt.Errorf("%w: %d entries, %d coordinates", ErrMismatch, len(entries), len(coords))
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	var points = make([]Point, len(entries))
	for i, e := range entries {
		points[i] = Point{
			Index:        i,
			Position:     coords[i],
			Digit:        e.Label,
			Confidence:   1,
			LatentVector: append([]float64(nil), coords[i][:]...),
			ImageURL:     baseURL + "/" + e.File,
			Color:        DigitColor(e.Label),
		}
	}
	return points, nil
}

// SetPoints replaces the plotted points and clears the selection
func (s *State) SetPoints(points []Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = points
	s.selected = -1
}

// Points returns a deep copy of the plotted points
func (s *State) Points() []Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var points = make([]Point, len(s.points))
	for i, p := range s.points {
		points[i] = p.clone()
	}
	return points
}

// Len returns the number of plotted points
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// Point returns point i
func (s *State) Point(i int) (Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.points) {
		return Point{}, fmt.Errorf("%w: %d", ErrIndex, i)
	}
	return s.points[i].clone(), nil
}

// Select marks point i as selected
func (s *State) Select(i int) (Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.points) {
		return Point{}, fmt.Errorf("%w: %d", ErrIndex, i)
	}
	s.selected = i
	return s.points[i].clone(), nil
}

// ClearSelection deselects any point
func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = -1
}

// Selected returns the selected point
func (s *State) Selected() (Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected < 0 {
		return Point{}, ErrNoSelection
	}
	return s.points[s.selected].clone(), nil
}

// Annotate replaces point confidences, scores[i] belongs to point i
func (s *State) Annotate(scores []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(scores) != len(s.points) {
		return fmt.Errorf("%w: %d scores, %d points", ErrMismatch, len(scores), len(s.points))
	}
	for i := range s.points {
		s.points[i].Confidence = scores[i]
	}
	return nil
}

// BeginLoading drops the current model and waits for a new one
func (s *State) BeginLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = nil
	s.status = Loading
	s.err = nil
}

// ModelReady installs a loaded model
func (s *State) ModelReady(model classifier.Classifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
	s.status = Ready
	s.err = nil
}

// ModelFailed records why the model could not be loaded
func (s *State) ModelFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = nil
	s.status = Failed
	s.err = err
}

// Status returns the model status and the load error of a failed model
func (s *State) Status() (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.err
}

// Model returns the ready model
func (s *State) Model() (classifier.Classifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status != Ready {
		if s.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, s.err)
		}
		return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, s.status)
	}
	return s.model, nil
}

var palette = [...]string{
	"#FF6B6B",
	"#4ECDC4",
	"#45B7D1",
	"#96CEB4",
	"#FFEEAD",
	"#D4A5A5",
	"#9B59B6",
	"#3498DB",
	"#E67E22",
	"#2ECC71",
}

// DigitColor returns the display color of digit d, gray for non digits
func DigitColor(d int) string {
	if d < 0 || d >= len(palette) {
		return "#888888"
	}
	return palette[d]
}
