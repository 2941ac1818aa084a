package server

import "errors"
import "fmt"
import "image/png"
import "io"
import "mime"
import "net/http"

import "github.com/labstack/echo/v5"

import "github.com/neurlang/mnist3d/classifier"
import "github.com/neurlang/mnist3d/datasets/mnist"
import "github.com/neurlang/mnist3d/manifest"

// maxBody bounds classify request bodies
const maxBody = 1 << 20

// ClassifyRequest is the json body of POST /api/classify
type ClassifyRequest struct {
	Pixels []int `json:"pixels"`
}

// ClassifyResponse is a single prediction
type ClassifyResponse struct {
	ID            string    `json:"id"`
	Digit         int       `json:"digit"`
	Confidence    float64   `json:"confidence"`
	Probabilities []float64 `json:"probabilities"`
}

func (s *Server) handleClassify(c *echo.Context) error {
	model, err := s.state.Model()
	if err != nil {
		return writeUnavailable(c, err.Error())
	}
	pixels, err := readPixels(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	p, err := model.Forward(pixels)
	if errors.Is(err, classifier.ErrInputSize) {
		return writeBadRequest(c, err.Error())
	}
	if err != nil {
		return err
	}
	digit, confidence := p.Argmax()
	resp := ClassifyResponse{
		ID:            s.newID(),
		Digit:         digit,
		Confidence:    confidence,
		Probabilities: p[:],
	}
	s.log.Debug("classified", "id", resp.ID, "digit", digit, "confidence", confidence)
	return c.JSON(http.StatusOK, resp)
}

// readPixels reads a png image or a json pixel array from the request body
func readPixels(c *echo.Context) ([]byte, error) {
	var body = io.LimitReader(c.Request().Body, maxBody)
	mediaType, _, _ := mime.ParseMediaType(c.Request().Header.Get(echo.HeaderContentType))
	if mediaType == "image/png" {
		img, err := png.Decode(body)
		if err != nil {
			return nil, fmt.Errorf("decode png: %w", err)
		}
		pixels, rows, cols := manifest.Pixels(img)
		if rows != mnist.ImgSize || cols != mnist.ImgSize {
			return nil, fmt.Errorf("image is %dx%d, want %dx%d", cols, rows, mnist.ImgSize, mnist.ImgSize)
		}
		return pixels, nil
	}
	req, err := decodeJSON[ClassifyRequest](body)
	if err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	var pixels = make([]byte, len(req.Pixels))
	for i, v := range req.Pixels {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("pixel %d out of range: %d", i, v)
		}
		pixels[i] = byte(v)
	}
	return pixels, nil
}
