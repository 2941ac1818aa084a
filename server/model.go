package server

import "context"
import "path"
import "path/filepath"

import "github.com/neurlang/mnist3d/classifier"
import "github.com/neurlang/mnist3d/manifest"

// LoadModel reads the weights file into a new network and installs it in the
// state. Point confidences are replaced by the network's probability of each
// point's label. A failed load leaves the state Failed.
func (s *Server) LoadModel(ctx context.Context, weights string) error {
	s.state.BeginLoading()
	s.log.Info("loading model", "weights", weights)

	var net = classifier.New()
	if err := net.LoadWeightsFile(weights); err != nil {
		s.state.ModelFailed(err)
		return err
	}
	scores, err := s.score(ctx, net)
	if err == nil {
		err = s.state.Annotate(scores)
	}
	if err != nil {
		if ctx.Err() != nil {
			s.state.ModelFailed(err)
			return err
		}
		s.log.Warn("points keep their default confidence", "error", err)
	}
	s.state.ModelReady(net)
	s.log.Info("model ready", "weights", weights)
	return nil
}

// score runs model over the sample image of every point
func (s *Server) score(ctx context.Context, model classifier.Classifier) ([]float64, error) {
	var points = s.state.Points()
	var scores = make([]float64, len(points))
	for i, pt := range points {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := manifest.ReadPNG(filepath.Join(s.sampleDir, path.Base(pt.ImageURL)))
		if err != nil {
			return nil, err
		}
		pixels, _, _ := manifest.Pixels(img)
		p, err := model.Forward(pixels)
		if err != nil {
			return nil, err
		}
		if pt.Digit >= 0 && pt.Digit < classifier.Classes {
			scores[i] = p[pt.Digit]
		}
	}
	return scores, nil
}
