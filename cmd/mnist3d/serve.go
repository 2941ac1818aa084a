package main

import "context"
import "errors"
import "fmt"
import "io/fs"
import "net/http"
import "path/filepath"
import "time"

import "github.com/labstack/echo/v5"
import "github.com/labstack/echo/v5/middleware"
import "github.com/urfave/cli/v3"

import "github.com/neurlang/mnist3d/layout"
import "github.com/neurlang/mnist3d/manifest"
import "github.com/neurlang/mnist3d/scene"
import "github.com/neurlang/mnist3d/server"

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the sample, the scene state and the classifier over HTTP",
		Flags: []cli.Flag{
			sampleDirFlag(),
			weightsFlag(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applySampleDirConfig(cmd, cfg)
			applyWeightsConfig(cmd, cfg)
			if cfg.ServerAddress != "" && !cmd.IsSet("addr") {
				addr = cfg.ServerAddress
			}
			log := loggerFrom(ctx)

			state, err := loadScene(sampleDir)
			if err != nil {
				return err
			}
			log.Info("scene loaded", "dir", sampleDir, "points", state.Len())

			srv := server.New(state, sampleDir, log)
			go func() {
				if err := srv.LoadModel(ctx, weightsPath); err != nil {
					log.Error("model unavailable", "weights", weightsPath, "error", err)
				}
			}()

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			srv.Register(e)
			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(hs *http.Server) error {
					hs.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

// loadScene joins the manifest and the layout of a sample directory
func loadScene(dir string) (*scene.State, error) {
	entries, err := manifest.Read(filepath.Join(dir, manifest.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no sample in '%s', run the sample command first: %w", dir, err)
	}
	if err != nil {
		return nil, err
	}
	coords, err := layout.Read(filepath.Join(dir, layout.FileName))
	if err != nil {
		return nil, err
	}
	points, err := scene.Join(entries, coords, server.SamplePrefix)
	if err != nil {
		return nil, err
	}
	state := scene.New()
	state.SetPoints(points)
	return state, nil
}
