package main

import "context"
import "errors"
import "log/slog"
import "path/filepath"

import "github.com/urfave/cli/v3"

import "github.com/neurlang/mnist3d/datasets/mnist"
import "github.com/neurlang/mnist3d/layout"
import "github.com/neurlang/mnist3d/manifest"

func sampleCmd() *cli.Command {
	var (
		count     int64
		cacheDir  string
		imagesURL string
		labelsURL string
		verify    bool
		spread    float64
	)

	return &cli.Command{
		Name:  "sample",
		Usage: "Download MNIST and write the sample images, meta.json and coords.json",
		Flags: []cli.Flag{
			sampleDirFlag(),
			&cli.Int64Flag{
				Name:        "count",
				Aliases:     []string{"n"},
				Usage:       "number of samples to decode",
				Value:       1000,
				Destination: &count,
			},
			&cli.StringFlag{
				Name:        "cache",
				Usage:       "directory keeping the downloaded archives, empty disables the cache",
				Value:       mnist.TmpDirectory,
				Destination: &cacheDir,
			},
			&cli.StringFlag{
				Name:        "images-url",
				Usage:       "gzipped IDX image file",
				Value:       mnist.DefaultImagesURL,
				Destination: &imagesURL,
			},
			&cli.StringFlag{
				Name:        "labels-url",
				Usage:       "gzipped IDX label file",
				Value:       mnist.DefaultLabelsURL,
				Destination: &labelsURL,
			},
			&cli.BoolFlag{
				Name:        "verify",
				Usage:       "check the archives against their known sha256 digests",
				Value:       true,
				Destination: &verify,
			},
			&cli.Float64Flag{
				Name:        "spread",
				Usage:       "largest absolute display coordinate",
				Value:       10,
				Destination: &spread,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applySampleDirConfig(cmd, cfg)
			if !cmd.IsSet("count") {
				count = int64(cfg.SampleSize)
			}
			if !cmd.IsSet("cache") {
				cacheDir = cfg.CacheDir
			}
			if cfg.ImagesURL != "" && !cmd.IsSet("images-url") {
				imagesURL = cfg.ImagesURL
			}
			if cfg.LabelsURL != "" && !cmd.IsSet("labels-url") {
				labelsURL = cfg.LabelsURL
			}
			if !cmd.IsSet("verify") {
				verify = cfg.Verify
			}
			if !cmd.IsSet("spread") {
				spread = cfg.Spread
			}

			src := mnist.Source{
				ImagesURL: imagesURL,
				LabelsURL: labelsURL,
				CacheDir:  cacheDir,
				Verify:    verify,
			}
			opts := layout.DefaultOptions()
			opts.Spread = spread
			return runSample(ctx, loggerFrom(ctx), src, sampleDir, int(count), opts)
		},
	}
}

// runSample decodes the first count samples of src into dir
func runSample(ctx context.Context, log *slog.Logger, src mnist.Source, dir string, count int, opts layout.Options) error {
	log.Info("loading dataset", "images", src.ImagesURL, "labels", src.LabelsURL, "count", count)
	sample, err := mnist.Load(ctx, src, count)
	if err != nil {
		return err
	}

	entries, err := manifest.Emit(dir, sample.Images, sample.Labels)
	if err != nil {
		return err
	}
	log.Info("wrote sample", "dir", dir, "images", len(entries), "manifest", manifest.FileName)

	coords, err := layout.Compute(sample.Images, opts)
	if err != nil && !errors.Is(err, layout.ErrEmpty) {
		return err
	}
	if err := layout.Write(filepath.Join(dir, layout.FileName), coords); err != nil {
		return err
	}
	log.Info("wrote layout", "file", layout.FileName, "points", len(coords))
	return nil
}
