// Package server exposes the visualization state, the digit classifier and the
// generated sample directory over HTTP.
package server

import "errors"
import "io"
import "log/slog"
import "net/http"
import "strconv"

import "github.com/goccy/go-json"
import "github.com/google/uuid"
import "github.com/labstack/echo/v5"

import "github.com/neurlang/mnist3d/scene"

// SamplePrefix is the url path the sample directory is served under
const SamplePrefix = "/mnist-sample"

type Server struct {
	state     *scene.State
	sampleDir string
	log       *slog.Logger
	newID     func() string
}

func New(state *scene.State, sampleDir string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		state:     state,
		sampleDir: sampleDir,
		log:       log,
		newID:     uuid.NewString,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/api/state", s.handleState)
	e.GET("/api/points", s.handlePoints)
	e.GET("/api/points/:index", s.handlePoint)

	e.GET("/api/selection", s.handleSelected)
	e.PUT("/api/selection/:index", s.handleSelect)
	e.DELETE("/api/selection", s.handleClearSelection)

	e.POST("/api/classify", s.handleClassify)

	e.GET(SamplePrefix+"/*", s.handleSample)
}

// StateResponse is the body of GET /api/state
type StateResponse struct {
	Status   string `json:"status"`
	Points   int    `json:"points"`
	Selected *int   `json:"selected"`
	Error    string `json:"error,omitempty"`
}

// ErrorBody is the error object of failed requests
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (s *Server) handleState(c *echo.Context) error {
	status, err := s.state.Status()
	resp := StateResponse{
		Status: status.String(),
		Points: s.state.Len(),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	if p, err := s.state.Selected(); err == nil {
		resp.Selected = &p.Index
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePoints(c *echo.Context) error {
	return c.JSON(http.StatusOK, s.state.Points())
}

func (s *Server) handlePoint(c *echo.Context) error {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return writeBadRequest(c, "index must be an integer")
	}
	p, err := s.state.Point(i)
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleSelected(c *echo.Context) error {
	p, err := s.state.Selected()
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleSelect(c *echo.Context) error {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return writeBadRequest(c, "index must be an integer")
	}
	p, err := s.state.Select(i)
	if errors.Is(err, scene.ErrIndex) {
		return writeNotFound(c, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleClearSelection(c *echo.Context) error {
	s.state.ClearSelection()
	return c.NoContent(http.StatusNoContent)
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeUnavailable(c *echo.Context, msg string) error {
	return writeError(c, http.StatusServiceUnavailable, "unavailable_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{
			Message: msg,
			Type:    errType,
		},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
