// config.go -
// Copyright (C) 2026  The nobby authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config reads the settings of the converter from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"
)

var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrConfigParse     = errors.New("cannot parse config file")
	ErrInvalidScale    = errors.New("scale must be positive")
	ErrInvalidWorkers  = errors.New("number of workers must not be negative")
	ErrInvalidMaxSteps = errors.New("maximum number of steps must not be negative")
	ErrInvalidSize     = errors.New("invalid size")
	ErrInvalidPrefix   = errors.New("invalid placeholder prefix")
)

// Config holds all settings which can be given in a config file.
// Command line flags override the values from the file.
type Config struct {
	// Scale is applied to all rendered fragments.
	Scale float64 `yaml:"scale"`

	// RasterThreshold is the SVG size in bytes above which a PNG
	// image is tried instead.
	RasterThreshold int64  `yaml:"raster_threshold"`
	TextWidth       string `yaml:"text_width"`

	// Workers is the number of concurrent fragment renders; zero means
	// GOMAXPROCS.
	Workers  int `yaml:"workers"`
	MaxSteps int `yaml:"max_steps"`

	ArgWhitespace    bool     `yaml:"arg_whitespace"`
	KeepComments     bool     `yaml:"keep_comments"`
	KeepBuildDir     bool     `yaml:"keep_build_dir"`
	WarnEnvironments bool     `yaml:"warn_environments"`
	VerbatimEnvs     []string `yaml:"verbatim_envs"`
	HighlightStyle   string   `yaml:"highlight_style"`

	// CacheDir is the location of the fragment cache.  If empty, a
	// directory below the user cache directory is used.
	CacheDir string `yaml:"cache_dir"`

	// CacheLimit is the size the cache is pruned to, e.g. "256 MB".
	CacheLimit string `yaml:"cache_limit"`
	NoCache    bool   `yaml:"no_cache"`

	// PlaceholderPrefix is the first part of the image file names.
	PlaceholderPrefix string `yaml:"placeholder_prefix"`

	// ImageDir is the directory for image files, relative to the page.
	ImageDir string `yaml:"image_dir"`

	// ImagePrefix is prepended to image sources for publishing.
	ImagePrefix string `yaml:"image_prefix"`

	// Template names a file with page templates.
	Template string `yaml:"template"`
	TOC      bool   `yaml:"toc"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Scale:             1.3,
		RasterThreshold:   100000,
		MaxSteps:          1000000,
		WarnEnvironments:  true,
		HighlightStyle:    "github",
		CacheLimit:        "256 MB",
		PlaceholderPrefix: "nobby",
	}
}

// Load reads a config file.  Settings missing from the file keep their
// default values, unknown settings are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validPrefix = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks the settings for consistency.
func (cfg *Config) Validate() error {
	if cfg.Scale <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidScale, cfg.Scale)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Workers)
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSteps, cfg.MaxSteps)
	}
	if cfg.RasterThreshold < 0 {
		return fmt.Errorf("%w: raster threshold %d", ErrInvalidSize, cfg.RasterThreshold)
	}
	if _, err := cfg.CacheBytes(); err != nil {
		return err
	}
	if !validPrefix.MatchString(cfg.PlaceholderPrefix) {
		return fmt.Errorf("%w: %q", ErrInvalidPrefix, cfg.PlaceholderPrefix)
	}
	return nil
}

// CacheBytes returns the cache size limit in bytes.
func (cfg *Config) CacheBytes() (int64, error) {
	n, err := humanize.ParseBytes(cfg.CacheLimit)
	if err != nil {
		return 0, fmt.Errorf("%w: cache limit %q", ErrInvalidSize, cfg.CacheLimit)
	}
	return int64(n), nil
}
