package server

import "errors"
import "fmt"
import "io/fs"
import "net/http"
import "os"

import "github.com/labstack/echo/v5"

// handleSample serves a file of the sample directory. The etag follows the
// file's modification time and size.
func (s *Server) handleSample(c *echo.Context) error {
	name := c.Param("*")
	if name == "" || !fs.ValidPath(name) {
		return writeNotFound(c, "no such file")
	}
	root, err := os.OpenRoot(s.sampleDir)
	if err != nil {
		return err
	}
	defer root.Close()
	file, err := root.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return writeNotFound(c, "no such file: "+name)
	}
	if err != nil {
		return err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return writeNotFound(c, "no such file: "+name)
	}
	c.Response().Header().Set("ETag", etag(info))
	http.ServeContent(c.Response(), c.Request(), name, info.ModTime(), file)
	return nil
}

func etag(info fs.FileInfo) string {
	return fmt.Sprintf(`"%x-%x"`, info.ModTime().UnixNano(), info.Size())
}
