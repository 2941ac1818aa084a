package main

import "context"
import "fmt"
import "io"
import "os"

import "github.com/urfave/cli/v3"

import "github.com/neurlang/mnist3d/classifier"
import "github.com/neurlang/mnist3d/manifest"

func classifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Classify 28x28 gray png images",
		ArgsUsage: "<png>...",
		Flags:     []cli.Flag{weightsFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyWeightsConfig(cmd, cfg)
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("classify needs at least one png")
			}
			return runClassify(os.Stdout, weightsPath, cmd.Args().Slice())
		},
	}
}

func runClassify(w io.Writer, weights string, names []string) error {
	var net = classifier.New()
	if err := net.LoadWeightsFile(weights); err != nil {
		return err
	}
	for _, name := range names {
		img, err := manifest.ReadPNG(name)
		if err != nil {
			return err
		}
		pixels, _, _ := manifest.Pixels(img)
		p, err := net.Forward(pixels)
		if err != nil {
			return fmt.Errorf("'%s': %w", name, err)
		}
		digit, confidence := p.Argmax()
		fmt.Fprintf(w, "%s: %d (%.3f)", name, digit, confidence)
		for d, v := range p {
			fmt.Fprintf(w, " %d=%.3f", d, v)
		}
		fmt.Fprintln(w)
	}
	return nil
}
