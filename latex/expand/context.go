// context.go -
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

	"go.uber.org/zap"

	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/latex/tokenizer"
	"github.com/olitheolix/nobby/latex/tree"
	"github.com/olitheolix/nobby/latex/xref"
)

// Heading is an entry of the table of contents.
type Heading struct {
	Level  int
	Number string
	Title  string
	Anchor string
}

// Context gives handlers access to the state of the conversion.  All
// nodes created through a Context originate from the construct which
// is being expanded.
type Context struct {
	Resolver *xref.Resolver
	Log      *zap.SugaredLogger

	// Target is the numbered target created for the construct, or nil
	// if the construct is not numbered.
	Target *xref.Target

	engine *Engine
	node   *tree.Node
}

// Node returns the construct which is being expanded.
func (c *Context) Node() *tree.Node {
	return c.node
}

// Ctx returns the context of the conversion.
func (c *Context) Ctx() context.Context {
	return c.engine.ctx
}

// Text creates a text node.  Text is escaped on output.
func (c *Context) Text(s string) *tree.Node {
	return c.engine.tree.NewText(s, c.node.Span(), c.node)
}

// Anchor creates a link target.
func (c *Context) Anchor(id string) *tree.Node {
	return c.engine.tree.NewAnchor(id, c.node)
}

// Ref creates a reference to a label.  References are resolved after
// the whole document has been expanded, so that forward references
// work.
func (c *Context) Ref(style, label string) *tree.Node {
	return c.engine.tree.NewRef(style, label, c.node)
}

// Image creates a leaf for an image which the handler has produced
// itself.
func (c *Context) Image(img *render.Image, inline bool) *tree.Node {
	frag := &render.Fragment{
		Source: c.node.Source(),
		Inline: inline,
		Span:   c.node.Span(),
	}
	return c.engine.tree.NewImage(frag, img, inline, c.node)
}

// Parse converts LaTeX source into nodes.  The result can be returned
// from a handler and is expanded like the rest of the document.
func (c *Context) Parse(src string) ([]*tree.Node, error) {
	tok := tokenizer.NewString(c.node.Span().Start.String(), src, c.engine.opt.Tokenizer)
	return c.engine.tree.Parse(tok, c.node)
}

// AddHeading adds an entry to the table of contents.
func (c *Context) AddHeading(h Heading) {
	c.engine.headings = append(c.engine.headings, h)
}

// Value returns state stored by a handler using SetValue.
func (c *Context) Value(key string) interface{} {
	return c.engine.values[key]
}

// SetValue stores state which is shared between handlers for the
// duration of one conversion.
func (c *Context) SetValue(key string, val interface{}) {
	c.engine.values[key] = val
}
