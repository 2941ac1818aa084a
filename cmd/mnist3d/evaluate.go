package main

import "context"
import "fmt"
import "io"
import "log/slog"
import "os"

import "github.com/urfave/cli/v3"

import "github.com/neurlang/mnist3d/classifier"
import "github.com/neurlang/mnist3d/datasets/mnist"

func evaluateCmd() *cli.Command {
	var (
		count     int64
		imagesURL string
		labelsURL string
	)

	return &cli.Command{
		Name:  "evaluate",
		Usage: "Measure the classifier accuracy on the MNIST test set",
		Flags: []cli.Flag{
			weightsFlag(),
			&cli.Int64Flag{
				Name:        "count",
				Aliases:     []string{"n"},
				Usage:       "number of test samples",
				Value:       10000,
				Destination: &count,
			},
			&cli.StringFlag{
				Name:        "images-url",
				Usage:       "gzipped IDX image file",
				Value:       mnist.TestImagesURL,
				Destination: &imagesURL,
			},
			&cli.StringFlag{
				Name:        "labels-url",
				Usage:       "gzipped IDX label file",
				Value:       mnist.TestLabelsURL,
				Destination: &labelsURL,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyWeightsConfig(cmd, cfg)
			src := mnist.Source{
				ImagesURL: imagesURL,
				LabelsURL: labelsURL,
				CacheDir:  cfg.CacheDir,
				Verify:    cfg.Verify,
			}
			return runEvaluate(ctx, os.Stdout, loggerFrom(ctx), src, int(count), weightsPath)
		},
	}
}

func runEvaluate(ctx context.Context, w io.Writer, log *slog.Logger, src mnist.Source, count int, weights string) error {
	var net = classifier.New()
	if err := net.LoadWeightsFile(weights); err != nil {
		return err
	}
	sample, err := mnist.Load(ctx, src, count)
	if err != nil {
		return err
	}
	log.Info("evaluating", "weights", weights, "samples", sample.Len())
	r, err := classifier.Evaluate(net, sample.Images, sample.Labels)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "success rate %.2f%% (%d of %d) with %d errors\n", 100*r.Accuracy(), r.Correct, r.Total, r.Errors)
	for label, row := range r.Confusion {
		fmt.Fprintf(w, "%d:", label)
		for _, n := range row {
			fmt.Fprintf(w, " %5d", n)
		}
		fmt.Fprintln(w)
	}
	return nil
}
