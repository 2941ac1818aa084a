package main

import "github.com/urfave/cli/v3"

import "github.com/neurlang/mnist3d/config"

var (
	configPath  = config.Path()
	logLevel    string
	logFormat   string
	debug       bool
	cpuProfile  string
	sampleDir   string
	weightsPath string
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to the yaml config file",
			Value:       configPath,
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func profileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "cpuprofile",
			Usage:       "write a cpu profile to this file, usable as default.pgo",
			Destination: &cpuProfile,
		},
	}
}

func sampleDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "dir",
		Aliases:     []string{"d"},
		Usage:       "sample directory holding the pngs, meta.json and coords.json",
		Destination: &sampleDir,
	}
}

func weightsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "weights",
		Aliases:     []string{"w"},
		Usage:       "classifier weights, lzw compressed when the name ends in .lzw",
		Destination: &weightsPath,
	}
}

// applyLoggingConfig applies config file values to the logging flags
// that were not set on the command line.
func applyLoggingConfig(c *cli.Command, cfg config.Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if debug {
		logLevel = "debug"
	}
}

func applySampleDirConfig(c *cli.Command, cfg config.Config) {
	if !c.IsSet("dir") {
		sampleDir = cfg.SampleDir
	}
}

func applyWeightsConfig(c *cli.Command, cfg config.Config) {
	if !c.IsSet("weights") {
		weightsPath = cfg.Weights
	}
}
