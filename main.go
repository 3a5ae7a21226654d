// main.go -
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/olitheolix/nobby/config"
	"github.com/olitheolix/nobby/latex"
	"github.com/olitheolix/nobby/latex/cache"
	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/page"
)

func newLogger(c *cli.Context) (*zap.SugaredLogger, error) {
	var z *zap.Logger
	var err error
	switch {
	case c.Bool("vv"):
		z, err = zap.NewDevelopment()
	case c.Bool("verbose"):
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		z, err = cfg.Build()
	default:
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		z, err = cfg.Build()
	}
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}

// loadConfig reads the config file, if any, and applies the command
// line flags on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if name := c.String("config"); name != "" {
		var err error
		cfg, err = config.Load(name)
		if err != nil {
			return nil, err
		}
	}

	if c.IsSet("scale") {
		cfg.Scale = c.Float64("scale")
	}
	if c.IsSet("textwidth") {
		cfg.TextWidth = c.String("textwidth")
	}
	if c.IsSet("max-svg-size") {
		cfg.RasterThreshold = c.Int64("max-svg-size")
	}
	if c.IsSet("jobs") {
		cfg.Workers = c.Int("jobs")
	}
	if c.IsSet("max-steps") {
		cfg.MaxSteps = c.Int("max-steps")
	}
	if c.Bool("keep-build-dir") {
		cfg.KeepBuildDir = true
	}
	if c.Bool("keep-comments") {
		cfg.KeepComments = true
	}
	if c.Bool("arg-whitespace") {
		cfg.ArgWhitespace = true
	}
	if c.Bool("no-env-warning") {
		cfg.WarnEnvironments = false
	}
	if c.Bool("toc") {
		cfg.TOC = true
	}
	if c.IsSet("image-prefix") {
		cfg.ImagePrefix = c.String("image-prefix")
	}
	return cfg, cfg.Validate()
}

func convert(c *cli.Context) (err error) {
	if c.NArg() != 1 {
		return cli.Exit("usage: nobby [options] FILE.tex", 2)
	}
	inputName := c.Args().First()

	log, err := newLogger(c)
	if err != nil {
		return err
	}
	defer log.Sync()

	_, err = maxprocs.Set(maxprocs.Logger(log.Debugf))
	if err != nil {
		log.Warnw("cannot set GOMAXPROCS", "error", err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	outDir := c.String("output")
	if outDir == "" {
		base := strings.TrimSuffix(filepath.Base(inputName), filepath.Ext(inputName))
		outDir = "html-" + base
	}

	src, err := os.ReadFile(inputName)
	if err != nil {
		return err
	}

	if err := render.CheckTools(); err != nil {
		log.Warnw("fragments cannot be rendered", "error", err)
	}

	var renderer render.Renderer = &render.TeX{
		KeepFiles: cfg.KeepBuildDir,
		TextWidth: cfg.TextWidth,
		Log:       log,
	}
	var fragCache *cache.Cache
	if !cfg.NoCache && !c.Bool("rebuild") {
		dir := cfg.CacheDir
		if dir == "" {
			dir, err = cache.DefaultDir()
			if err != nil {
				return err
			}
		}
		fragCache, err = cache.New(dir, log)
		if err != nil {
			return err
		}
		limit, _ := cfg.CacheBytes()
		defer func() {
			e2 := fragCache.Close(limit)
			if err == nil {
				err = e2
			}
		}()
		renderer = &render.Cached{
			Renderer: renderer,
			Cache:    fragCache,
			Log:      log,
		}
	}

	opt := &latex.Options{
		Renderer: renderer,
		Render: render.Options{
			Scale:           cfg.Scale,
			RasterThreshold: cfg.RasterThreshold,
		},
		Workers:          cfg.Workers,
		MaxSteps:         cfg.MaxSteps,
		ArgWhitespace:    cfg.ArgWhitespace,
		Verbatim:         cfg.VerbatimEnvs,
		WarnEnvironments: cfg.WarnEnvironments,
		KeepComments:     cfg.KeepComments,
		HighlightStyle:   cfg.HighlightStyle,
		ImagePrefix:      cfg.PlaceholderPrefix,
		ImageDir:         cfg.ImageDir,
		Cache:            fragCache,
		Logger:           log,
	}
	if c.Bool("dump-tree") {
		opt.DumpTree = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := latex.Convert(ctx, inputName, src, opt)
	if err != nil {
		return err
	}

	var tmpl string
	if cfg.Template != "" {
		data, err := os.ReadFile(cfg.Template)
		if err != nil {
			return err
		}
		tmpl = string(data)
	}
	w := page.NewDirWriter(outDir, &page.Options{
		Template:      tmpl,
		TOC:           cfg.TOC,
		PublishPrefix: cfg.ImagePrefix,
		Logger:        log,
	})
	err = w.Write(out)
	if err != nil {
		return err
	}

	if fragCache != nil {
		hits, misses := fragCache.Stats()
		log.Infow("cache statistics", "hits", hits, "misses", misses)
	}
	fmt.Printf("%s: %d fragments rendered, output in %s\n",
		inputName, out.Fragments, outDir)
	return nil
}

func main() {
	app := &cli.App{
		Name:      "nobby",
		Usage:     "convert a LaTeX document into an HTML page",
		UsageText: "nobby [options] FILE.tex",
		Action:    convert,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the page into `DIR` (default html-<name>)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read settings from the YAML `FILE`",
			},
			&cli.Float64Flag{
				Name:    "scale",
				Aliases: []string{"s"},
				Usage:   "scale rendered fragments by `FACTOR`",
			},
			&cli.StringFlag{
				Name:  "textwidth",
				Usage: "LaTeX \\textwidth used for fragments",
			},
			&cli.Int64Flag{
				Name:  "max-svg-size",
				Usage: "try PNG for SVG images larger than `BYTES`",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "render `N` fragments concurrently",
			},
			&cli.IntFlag{
				Name:  "max-steps",
				Usage: "abort after expanding `N` constructs",
			},
			&cli.BoolFlag{
				Name:    "rebuild",
				Aliases: []string{"r"},
				Usage:   "render all fragments, ignoring the cache",
			},
			&cli.BoolFlag{
				Name:    "keep-build-dir",
				Aliases: []string{"k"},
				Usage:   "keep the pdflatex build directories",
			},
			&cli.BoolFlag{
				Name:  "keep-comments",
				Usage: "copy LaTeX comments into the page",
			},
			&cli.BoolFlag{
				Name:  "arg-whitespace",
				Usage: "allow white space between commands and their arguments",
			},
			&cli.BoolFlag{
				Name:  "no-env-warning",
				Usage: "do not warn about environments rendered as images",
			},
			&cli.BoolFlag{
				Name:  "toc",
				Usage: "add a table of contents",
			},
			&cli.StringFlag{
				Name:  "image-prefix",
				Usage: "prepend `URL` to image sources for publishing",
			},
			&cli.BoolFlag{
				Name:  "dump-tree",
				Usage: "print the document tree before expansion",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log progress",
			},
			&cli.BoolFlag{
				Name:  "vv",
				Usage: "log debugging information",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "nobby:", err)
		os.Exit(1)
	}
}
