package scene

import "errors"
import "io"
import "sync"
import "testing"

import "github.com/neurlang/mnist3d/classifier"
import "github.com/neurlang/mnist3d/layout"
import "github.com/neurlang/mnist3d/manifest"

type fixed struct {
	digit int
}

func (fixed) LoadWeights(io.Reader) error {
	return nil
}

func (f fixed) Forward([]byte) (p classifier.Probabilities, err error) {
	p[f.digit] = 1
	return p, nil
}

func points(t *testing.T) []Point {
	t.Helper()
	entries := []manifest.Entry{
		{Index: 0, Label: 5, File: "0.png"},
		{Index: 1, Label: 0, File: "1.png"},
		{Index: 2, Label: 4, File: "2.png"},
	}
	coords := []layout.Coord{{1, 2, 3}, {-1, 0, 0}, {0, 0, 10}}
	p, err := Join(entries, coords, "/mnist-sample/")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	return p
}

func TestJoin(t *testing.T) {
	p := points(t)
	if len(p) != 3 {
		t.Fatalf("got %d points, want 3", len(p))
	}
	want := Point{
		Index:        0,
		Position:     layout.Coord{1, 2, 3},
		Digit:        5,
		Confidence:   1,
		LatentVector: []float64{1, 2, 3},
		ImageURL:     "/mnist-sample/0.png",
		Color:        "#D4A5A5",
	}
	got := p[0]
	if got.Index != want.Index || got.Position != want.Position || got.Digit != want.Digit ||
		got.Confidence != want.Confidence || got.ImageURL != want.ImageURL || got.Color != want.Color {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.LatentVector) != 3 || got.LatentVector[2] != 3 {
		t.Errorf("latent vector: got %v", got.LatentVector)
	}

	coords := []layout.Coord{{1, 2, 3}}
	joined, _ := Join([]manifest.Entry{{Label: 1, File: "0.png"}}, coords, "")
	coords[0][0] = 42
	if joined[0].LatentVector[0] != 1 {
		t.Errorf("latent vector aliases the coordinates")
	}

	if _, err := Join(make([]manifest.Entry, 2), make([]layout.Coord, 3), ""); !errors.Is(err, ErrMismatch) {
		t.Errorf("got %v, want %v", err, ErrMismatch)
	}
}

func TestSelection(t *testing.T) {
	s := New()
	if _, err := s.Selected(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("fresh state: got %v, want %v", err, ErrNoSelection)
	}
	s.SetPoints(points(t))

	tests := []struct {
		name  string
		index int
		err   error
	}{
		{"first", 0, nil},
		{"last", 2, nil},
		{"negative", -1, ErrIndex},
		{"past end", 3, ErrIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.Select(tt.index)
			if !errors.Is(err, tt.err) {
				t.Fatalf("got %v, want %v", err, tt.err)
			}
			if err != nil {
				return
			}
			if p.Index != tt.index {
				t.Errorf("selected %d, want %d", p.Index, tt.index)
			}
			sel, err := s.Selected()
			if err != nil || sel.Index != tt.index {
				t.Errorf("Selected: got %d %v", sel.Index, err)
			}
		})
	}

	// a failed select keeps the previous selection
	if sel, _ := s.Selected(); sel.Index != 2 {
		t.Errorf("got %d, want 2", sel.Index)
	}
	s.ClearSelection()
	if _, err := s.Selected(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("after clear: got %v", err)
	}
	s.Select(1)
	s.SetPoints(points(t))
	if _, err := s.Selected(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("after SetPoints: got %v", err)
	}
}

func TestPointsCopy(t *testing.T) {
	s := New()
	s.SetPoints(points(t))
	p := s.Points()
	p[0].Digit = 9
	if got, _ := s.Point(0); got.Digit != 5 {
		t.Errorf("Points exposed internal state")
	}
	p[1].LatentVector[0] = 42
	if got, _ := s.Point(1); got.LatentVector[0] != -1 {
		t.Errorf("Points shares latent vectors with the state")
	}
	sel, _ := s.Select(2)
	sel.LatentVector[2] = 42
	if got, _ := s.Selected(); got.LatentVector[2] != 10 {
		t.Errorf("Select shares latent vectors with the state")
	}
	if _, err := s.Point(7); !errors.Is(err, ErrIndex) {
		t.Errorf("got %v, want %v", err, ErrIndex)
	}
	if s.Len() != 3 {
		t.Errorf("len: got %d", s.Len())
	}
}

func TestModelLifecycle(t *testing.T) {
	s := New()
	if st, _ := s.Status(); st != Loading {
		t.Fatalf("fresh state: got %s", st)
	}
	if _, err := s.Model(); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("loading: got %v", err)
	}

	s.ModelReady(fixed{digit: 3})
	m, err := s.Model()
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	if p, _ := m.Forward(nil); p[3] != 1 {
		t.Errorf("wrong model installed")
	}

	cause := errors.New("weights missing")
	s.ModelFailed(cause)
	st, serr := s.Status()
	if st != Failed || serr != cause {
		t.Errorf("failed: got %s %v", st, serr)
	}
	if _, err := s.Model(); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("failed: got %v", err)
	}

	s.BeginLoading()
	if st, serr := s.Status(); st != Loading || serr != nil {
		t.Errorf("reload: got %s %v", st, serr)
	}
}

func TestAnnotate(t *testing.T) {
	s := New()
	s.SetPoints(points(t))
	if err := s.Annotate([]float64{0.5, 0.25, 1}); err != nil {
		t.Fatal(err)
	}
	if p, _ := s.Point(1); p.Confidence != 0.25 {
		t.Errorf("got %f, want 0.25", p.Confidence)
	}
	if err := s.Annotate([]float64{1}); !errors.Is(err, ErrMismatch) {
		t.Errorf("got %v, want %v", err, ErrMismatch)
	}
}

func TestDigitColor(t *testing.T) {
	tests := map[int]string{
		0:  "#FF6B6B",
		7:  "#3498DB",
		9:  "#2ECC71",
		-1: "#888888",
		10: "#888888",
	}
	for d, want := range tests {
		if got := DigitColor(d); got != want {
			t.Errorf("digit %d: got %s, want %s", d, got, want)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	s.SetPoints(points(t))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Select(i % 3)
			s.Points()
			s.Selected()
			if i%4 == 0 {
				s.ModelReady(fixed{})
			}
			s.Model()
		}(i)
	}
	wg.Wait()
}
