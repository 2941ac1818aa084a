package main

import "bytes"
import "compress/gzip"
import "context"
import "fmt"
import "io"
import "os"
import "strings"

import "github.com/urfave/cli/v3"

import "github.com/neurlang/mnist3d/idx"

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the header of an IDX file, and the label histogram of label files",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("inspect takes exactly one file")
			}
			return runInspect(os.Stdout, cmd.Args().First())
		},
	}
}

func runInspect(w io.Writer, name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	if strings.HasSuffix(name, ".gz") {
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("gunzip '%s': %w", name, err)
		}
		if data, err = io.ReadAll(r); err != nil {
			return fmt.Errorf("gunzip '%s': %w", name, err)
		}
	}
	h, err := idx.ReadHeader(data)
	if err != nil {
		return fmt.Errorf("'%s': %w", name, err)
	}

	switch h.Magic {
	case idx.ImagesMagic:
		fmt.Fprintf(w, "images: magic 0x%08x, %d images of %dx%d\n", h.Magic, h.Count, h.Rows, h.Cols)
	case idx.LabelsMagic:
		fmt.Fprintf(w, "labels: magic 0x%08x, %d labels\n", h.Magic, h.Count)
		labels, err := idx.DecodeLabels(data, int(h.Count))
		if err != nil {
			return fmt.Errorf("'%s': %w", name, err)
		}
		var histogram [idx.MaxLabel + 1]int
		for _, l := range labels {
			histogram[l]++
		}
		for d, n := range histogram {
			fmt.Fprintf(w, "%d: %d\n", d, n)
		}
	}
	return nil
}
