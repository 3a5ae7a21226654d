// engine.go -
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

package expand

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/latex/tokenizer"
	"github.com/olitheolix/nobby/latex/tree"
	"github.com/olitheolix/nobby/latex/xref"
)

// DefaultMaxSteps is the default limit on the number of constructs
// processed during one expansion.
const DefaultMaxSteps = 1000000

// Options control the expansion of a document.
type Options struct {
	// MaxSteps limits the number of constructs the engine processes.
	// Zero means no limit.
	MaxSteps int

	// Renderer converts fragments without a handler into images.
	Renderer render.Renderer

	// Preamble is used for every rendered fragment.
	Preamble string

	// Render is passed to the renderer.
	Render *render.Options

	// Workers is the maximum number of concurrent renders.  If zero,
	// GOMAXPROCS is used.
	Workers int

	// Tokenizer is used for source text produced by handlers.
	Tokenizer *tokenizer.Options

	// WarnUnhandled logs a warning for every environment which has no
	// handler.
	WarnUnhandled bool

	Logger *zap.SugaredLogger
}

// Engine rewrites a document tree until only text, markup and images
// are left.
type Engine struct {
	reg *Registry
	res *xref.Resolver
	opt *Options
	log *zap.SugaredLogger

	ctx      context.Context
	tree     *tree.Tree
	steps    int
	expanded int
	images   []*tree.Node
	headings []Heading
	values   map[string]interface{}
}

// Result summarises an expansion.
type Result struct {
	// Images lists the leaves which were rendered by the renderer, in
	// document order.
	Images []*tree.Node

	// Headings lists the numbered and unnumbered section headings.
	Headings []Heading

	Steps    int
	Expanded int
}

// New creates an engine which uses the handlers from reg.  The
// resolver keeps track of counters and labels; it must be new for
// every document.
func New(reg *Registry, res *xref.Resolver, opt *Options) *Engine {
	if opt == nil {
		opt = &Options{}
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		reg:    reg,
		res:    res,
		opt:    opt,
		log:    log,
		values: make(map[string]interface{}),
	}
}

// Run expands all constructs in t and then renders the fragments which
// have no handler.  On success, every construct in the tree is either
// Expanded or Rendered and t.Flatten() gives the output leaves.
func (e *Engine) Run(ctx context.Context, t *tree.Tree) (*Result, error) {
	e.ctx = ctx
	e.tree = t
	root := t.Root()
	body, err := e.expandList(root.Body())
	if err != nil {
		return nil, err
	}
	t.SetBody(root, body)

	res := &Result{
		Images:   e.images,
		Headings: e.headings,
		Steps:    e.steps,
		Expanded: e.expanded,
	}
	e.log.Infow("expansion done",
		"steps", e.steps, "fragments", len(e.images))

	err = e.fillLabels()
	if err != nil {
		return nil, err
	}
	err = e.render(ctx)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// expandList expands a list of sibling nodes.  The output of a handler
// takes the place of the expanded node and is processed before the
// next sibling.  A nil entry in the work list marks the end of an
// environment's output; labels after it bind to the target which was
// current before the environment.
func (e *Engine) expandList(nodes []*tree.Node) ([]*tree.Node, error) {
	work := make([]*tree.Node, len(nodes))
	copy(work, nodes)

	var out []*tree.Node
	var scopes []*xref.Target
	for len(work) > 0 {
		n := work[0]
		work = work[1:]
		if n == nil {
			k := len(scopes) - 1
			e.res.Restore(scopes[k])
			scopes = scopes[:k]
			continue
		}

		switch n.Kind() {
		case tree.KindGroup:
			if isForced(n) {
				leaves, err := e.fallback(n)
				if err != nil {
					return nil, err
				}
				out = append(out, leaves...)
				continue
			}
			body, err := e.expandList(n.Body())
			if err != nil {
				return nil, err
			}
			e.tree.SetBody(n, body)
			out = append(out, n)

		case tree.KindCommand, tree.KindBlock:
			e.steps++
			if e.opt.MaxSteps > 0 && e.steps > e.opt.MaxSteps {
				return nil, &ExpansionDivergedError{
					Steps: e.opt.MaxSteps,
					Name:  n.Name(),
					Span:  n.Span(),
				}
			}

			h := e.reg.Lookup(n.Name())
			if h == nil {
				leaves, err := e.fallback(n)
				if err != nil {
					return nil, err
				}
				out = append(out, leaves...)
				continue
			}

			prev := e.res.Current()
			repl, err := e.expandNode(h, n)
			if err != nil {
				return nil, err
			}
			if n.Kind() == tree.KindBlock {
				scopes = append(scopes, prev)
				repl = append(repl, nil)
			}
			work = append(repl, work...)

		default:
			out = append(out, n)
		}
	}
	return out, nil
}

// isForced reports whether n is a doubled brace group {{...}}.  These
// are always rendered by LaTeX, even if they contain constructs which
// have a handler.
func isForced(n *tree.Node) bool {
	body := n.Body()
	return n.Name() == "{" && len(body) == 1 &&
		body[0].Kind() == tree.KindGroup && body[0].Name() == "{"
}

func (e *Engine) expandNode(h Handler, n *tree.Node) ([]*tree.Node, error) {
	if n.State() != tree.Unexpanded {
		return nil, &tree.InvalidTransitionError{Node: n, From: n.State(), To: tree.Expanded}
	}
	c := &Context{
		Resolver: e.res,
		Log:      e.log,
		Target:   e.res.Step(n.Name()),
		engine:   e,
		node:     n,
	}
	pieces, err := h.Expand(c, n.Children(), n)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", n.Span().Start, describe(n), err)
	}
	err = e.tree.Transition(n, tree.Expanded)
	if err != nil {
		return nil, err
	}
	e.expanded++
	repl, err := e.tree.Materialize(pieces, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", n.Span().Start, describe(n), err)
	}
	for _, m := range repl {
		if m == n {
			return nil, fmt.Errorf("%s: %s: %w", n.Span().Start, describe(n), ErrSelfExpansion)
		}
	}
	return repl, nil
}

// fallback replaces a construct without handler, or a forced group, by
// an image leaf.  Anchors for labels and numbered targets inside the
// fragment are placed in front of the image.
func (e *Engine) fallback(n *tree.Node) ([]*tree.Node, error) {
	if n.IsConstruct() && n.State() != tree.Unexpanded {
		return nil, &tree.InvalidTransitionError{Node: n, From: n.State(), To: tree.Rendered}
	}
	if e.opt.WarnUnhandled && n.Kind() == tree.KindBlock && !n.IsShort() {
		if e.res.Countable(n.Name()) == nil {
			e.log.Warnw("no handler for environment, rendering as image",
				"name", n.Name(), "pos", n.Span().Start.String())
		}
	}

	counters := e.res.Snapshot()
	scan, err := e.res.Scan(n)
	if err != nil {
		return nil, err
	}
	err = e.markRendered(n)
	if err != nil {
		return nil, err
	}

	var leaves []*tree.Node
	for _, t := range scan.Targets {
		leaves = append(leaves, e.tree.NewAnchor(t.Anchor, n))
	}
	for _, b := range scan.Bindings {
		leaves = append(leaves, e.tree.NewAnchor(b.Anchor, n))
	}

	frag := &render.Fragment{
		ID:       len(e.images) + 1,
		Source:   n.Source(),
		Inline:   n.Kind() != tree.KindBlock || n.Name() == "math",
		Span:     n.Span(),
		Counters: counters,
		Refs:     scan.Refs,
	}
	img := e.tree.NewImage(frag, nil, frag.Inline, n)
	e.images = append(e.images, img)
	return append(leaves, img), nil
}

// markRendered moves n and every construct nested inside it to the
// Rendered state, in document order.
func (e *Engine) markRendered(n *tree.Node) error {
	if n.IsConstruct() {
		err := e.tree.Transition(n, tree.Rendered)
		if err != nil {
			return err
		}
	}
	for _, list := range [][]*tree.Node{n.Args(), n.Body()} {
		for _, child := range list {
			if err := e.markRendered(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// fillLabels tells every fragment the numbers of the labels it refers
// to.  This can only be done once the whole document is expanded.
func (e *Engine) fillLabels() error {
	for _, img := range e.images {
		frag := img.Fragment()
		seen := make(map[string]bool)
		for _, label := range frag.Refs {
			if seen[label] {
				continue
			}
			seen[label] = true
			b, err := e.res.Resolve(label)
			if err != nil {
				var unresolved *xref.UnresolvedLabelError
				if errors.As(err, &unresolved) {
					unresolved.Span = frag.Span
				}
				return err
			}
			frag.Labels = append(frag.Labels, render.LabelDef{
				Label:  label,
				Number: b.Number(),
			})
		}
	}
	return nil
}

// render runs the renderer on all fragments, in parallel.  The first
// failure stops all renders.
func (e *Engine) render(ctx context.Context) error {
	if len(e.images) == 0 {
		return nil
	}
	if e.opt.Renderer == nil {
		return ErrNoRenderer
	}
	workers := e.opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	e.log.Infow("rendering fragments", "count", len(e.images), "workers", workers)

	q := render.NewQueue(ctx, e.opt.Renderer, e.opt.Preamble, e.opt.Render, workers, e.log)
	results := make([]<-chan *render.Result, len(e.images))
	for i, img := range e.images {
		results[i] = q.Submit(img.Fragment())
	}
	for i, c := range results {
		res := <-c
		if res.Err == nil {
			e.tree.SetImage(e.images[i], res.Image)
		}
	}

	err := q.Finish()
	var failure *render.Failure
	if errors.As(err, &failure) {
		return &RenderError{
			Span:   failure.Fragment.Span,
			Source: failure.Fragment.Source,
			Err:    failure.Err,
		}
	}
	return err
}

func describe(n *tree.Node) string {
	if n.Kind() == tree.KindCommand {
		return "\\" + n.Name()
	}
	return "environment " + n.Name()
}
