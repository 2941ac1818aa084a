// Package config loads the mnist3d settings from the yaml config file and the
// MNIST3D_* environment variables.
package config

import "errors"
import "fmt"
import "io/fs"
import "os"
import "path/filepath"

import "github.com/caarlos0/env/v11"
import "gopkg.in/yaml.v3"

import "github.com/neurlang/mnist3d/datasets/mnist"

// Config holds every setting the commands read. Command line flags override it.
type Config struct {
	// Sample pipeline
	SampleDir  string  `yaml:"sample_dir" env:"MNIST3D_SAMPLE_DIR"`
	CacheDir   string  `yaml:"cache_dir" env:"MNIST3D_CACHE_DIR"`
	ImagesURL  string  `yaml:"images_url" env:"MNIST3D_IMAGES_URL"`
	LabelsURL  string  `yaml:"labels_url" env:"MNIST3D_LABELS_URL"`
	SampleSize int     `yaml:"sample_size" env:"MNIST3D_SAMPLE_SIZE"`
	Verify     bool    `yaml:"verify" env:"MNIST3D_VERIFY"`
	Spread     float64 `yaml:"spread" env:"MNIST3D_SPREAD"`

	// Model
	Weights string `yaml:"weights" env:"MNIST3D_WEIGHTS"`

	// Server
	ServerAddress string `yaml:"server_address" env:"MNIST3D_SERVER_ADDRESS"`

	// Output
	LogLevel  string `yaml:"log_level" env:"MNIST3D_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"MNIST3D_LOG_FORMAT"`
}

// Default returns the settings used when nothing overrides them
func Default() Config {
	return Config{
		SampleDir:     "public/mnist-sample",
		CacheDir:      mnist.TmpDirectory,
		ImagesURL:     mnist.DefaultImagesURL,
		LabelsURL:     mnist.DefaultLabelsURL,
		SampleSize:    1000,
		Verify:        true,
		Spread:        10,
		Weights:       "mnist.json.lzw",
		ServerAddress: "127.0.0.1:8080",
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Path is the config file location, empty when the user has no config directory
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mnist3d", "config.yaml")
}

// Load returns the defaults overlaid with the yaml file at path and then the
// environment. A missing file is not an error.
func Load(path string) (Config, error) {
	var cfg = Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseEnv fills target from the environment variables named by its env tags
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
