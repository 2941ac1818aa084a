package main

import "context"
import "fmt"
import "os"
import "os/signal"
import "syscall"

import "github.com/urfave/cli/v3"

import "github.com/neurlang/mnist3d/config"

// cfg is loaded before any command runs
var cfg = config.Default()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "mnist3d",
		Usage: "MNIST sample generator and 3D scatter backend",
		Flags: append(loggingFlags(), profileFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			var err error
			if cfg, err = config.Load(configPath); err != nil {
				return ctx, err
			}
			applyLoggingConfig(cmd, cfg)
			log, err := newLogger(logLevel, logFormat)
			if err != nil {
				return ctx, err
			}
			if err := startProfile(log); err != nil {
				return ctx, err
			}
			return withLogger(ctx, log), nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			stopProfile(loggerFrom(ctx))
			return nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			sampleCmd(),
			inspectCmd(),
			classifyCmd(),
			evaluateCmd(),
			serveCmd(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
