// convert.go -
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

// Package latex converts LaTeX documents into HTML.  Constructs with a
// handler are converted directly; everything else is rendered into
// images by an external renderer.
package latex

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/olitheolix/nobby/latex/builtin"
	"github.com/olitheolix/nobby/latex/cache"
	"github.com/olitheolix/nobby/latex/expand"
	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/latex/scanner"
	"github.com/olitheolix/nobby/latex/tokenizer"
	"github.com/olitheolix/nobby/latex/tree"
	"github.com/olitheolix/nobby/latex/xref"
)

// Options control the conversion of a document.
type Options struct {
	// Renderer converts fragments without a handler into images.  It
	// may be nil for documents which need no images.
	Renderer render.Renderer

	// Render is passed to the renderer.
	Render render.Options

	// Workers is the number of fragments rendered concurrently.  If
	// zero, GOMAXPROCS is used.
	Workers int

	// MaxSteps limits the number of constructs expanded.  Zero means no
	// limit.
	MaxSteps int

	// ArgWhitespace allows white space between a command and its
	// arguments.
	ArgWhitespace bool

	// Verbatim lists the environments whose contents are not parsed.
	// If nil, tokenizer.DefaultVerbatim is used.
	Verbatim []string

	// WarnEnvironments logs a warning for every environment which is
	// rendered as an image because it has no handler.
	WarnEnvironments bool

	KeepComments   bool
	HighlightStyle string
	ImagePrefix    string
	ImageDir       string

	// Cache, if set, is used for d2 diagrams.  Rendered fragments are
	// cached by wrapping the Renderer in a render.Cached.
	Cache *cache.Cache

	// Handlers are installed in addition to the built-in handlers and
	// take precedence over them.
	Handlers map[string]expand.Handler

	// DumpTree, if set, receives a dump of the document tree before
	// expansion.
	DumpTree io.Writer

	Logger *zap.SugaredLogger
}

// Output is a converted document.
type Output struct {
	// Name identifies the source, typically the file name.
	Name string

	Title   string
	Authors []string

	// Body is the HTML body of the document.
	Body string

	// Anchors maps the link targets in Body to the numbered
	// constructs they belong to.
	Anchors map[string]xref.Entry

	// Images lists the rendered images in the order of their
	// appearance.  The Path field of each image is set.
	Images []*render.Image

	Headings []expand.Heading

	// Fragments is the number of fragments rendered by the Renderer.
	Fragments int
}

type converter struct {
	name   string
	opt    *Options
	log    *zap.SugaredLogger
	tokOpt *tokenizer.Options
}

func newConverter(name string, opt *Options) *converter {
	if opt == nil {
		opt = &Options{}
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &converter{
		name: name,
		opt:  opt,
		log:  log,
		tokOpt: &tokenizer.Options{
			ArgWhitespace: opt.ArgWhitespace,
			Verbatim:      opt.Verbatim,
		},
	}
}

// Convert converts the LaTeX document src into HTML.  The argument
// `name` is used in error messages.
func Convert(ctx context.Context, name string, src []byte, opt *Options) (*Output, error) {
	conv := newConverter(name, opt)
	log := conv.log

	doc := splitDocument(string(src))
	decl := conv.analysePreamble(doc.Preamble)

	log.Info("tokenizing")
	scan := scanner.NewStringAt(name, doc.Body, doc.BodyStart)
	t, err := tree.Build(tokenizer.New(scan, conv.tokOpt))
	if err != nil {
		return nil, err
	}
	decl.findTitle(t.Root().Body())
	if conv.opt.DumpTree != nil {
		err = tree.Dump(conv.opt.DumpTree, t.Root())
		if err != nil {
			return nil, err
		}
	}

	res, err := conv.resolver(decl)
	if err != nil {
		return nil, err
	}
	reg, err := conv.registry(decl)
	if err != nil {
		return nil, err
	}

	log.Info("expanding")
	eng := expand.New(reg, res, &expand.Options{
		MaxSteps:      conv.opt.MaxSteps,
		Renderer:      conv.opt.Renderer,
		Preamble:      decl.Preamble,
		Render:        &conv.opt.Render,
		Workers:       conv.opt.Workers,
		Tokenizer:     conv.tokOpt,
		WarnUnhandled: conv.opt.WarnEnvironments,
		Logger:        log,
	})
	result, err := eng.Run(ctx, t)
	if err != nil {
		return nil, err
	}

	log.Info("assembling")
	leaves, err := t.Flatten()
	if err != nil {
		return nil, err
	}
	body, err := Assemble(leaves, res, &AssembleOptions{
		KeepComments: conv.opt.KeepComments,
		ImagePrefix:  conv.opt.ImagePrefix,
		ImageDir:     conv.opt.ImageDir,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		Name:      name,
		Title:     decl.title(),
		Authors:   decl.authors(),
		Body:      body.Body,
		Anchors:   body.Anchors,
		Images:    body.Images,
		Headings:  result.Headings,
		Fragments: len(result.Images),
	}, nil
}

// resolver sets up the counters for the theorem environments declared
// in the preamble.
func (conv *converter) resolver(decl *declarations) (*xref.Resolver, error) {
	res := xref.NewResolver()
	for _, thm := range decl.Theorems {
		if thm.Unnumbered {
			continue
		}
		err := res.DefineTheorem(thm.Name, thm.Counter, thm.Prefix, thm.Within)
		if err != nil {
			return nil, fmt.Errorf("\\newtheorem{%s}: %w", thm.Name, err)
		}
	}
	for _, pair := range decl.NumberWithin {
		err := res.NumberWithin(pair[0], pair[1])
		if err != nil {
			conv.log.Warnw("\\numberwithin ignored",
				"counter", pair[0], "within", pair[1], "error", err)
		}
	}
	return res, nil
}

func (conv *converter) registry(decl *declarations) (*expand.Registry, error) {
	reg := expand.NewRegistry()
	for name, h := range conv.opt.Handlers {
		err := reg.Register(name, h)
		if err != nil {
			return nil, err
		}
	}
	err := builtin.Register(reg, &builtin.Options{
		HighlightStyle: conv.opt.HighlightStyle,
		Theorems:       decl.Theorems,
		Macros:         decl.Macros,
		Cache:          conv.opt.Cache,
		Logger:         conv.log,
	})
	if err != nil {
		return nil, err
	}
	reg.Freeze()
	return reg, nil
}
