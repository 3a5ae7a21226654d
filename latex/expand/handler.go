// handler.go -
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
	"github.com/olitheolix/nobby/latex/tree"
)

// Handler rewrites one construct.  For a command, children are the
// argument groups; for an environment, children is the body.  The
// result replaces the construct in the document and is expanded in
// turn.
type Handler interface {
	Expand(c *Context, children []*tree.Node, parent *tree.Node) ([]tree.Piece, error)
}

// Func is a Handler implemented by a function.
type Func func(c *Context, children []*tree.Node, parent *tree.Node) ([]tree.Piece, error)

// Expand implements the Handler interface.
func (f Func) Expand(c *Context, children []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	return f(c, children, parent)
}

// Subst replaces a construct by fixed markup, ignoring all arguments.
type Subst string

// Expand implements the Handler interface.
func (m Subst) Expand(c *Context, children []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	return []tree.Piece{tree.Markup(m)}, nil
}

// Tag wraps the contents of a construct in an HTML element.
type Tag string

// Expand implements the Handler interface.
func (m Tag) Expand(c *Context, children []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	return []tree.Piece{
		tree.Markup("<" + string(m) + ">"),
		Content(children, parent),
		tree.Markup("</" + string(m) + ">"),
	}, nil
}

// Wrap surrounds the contents of a construct with fixed markup.
type Wrap struct {
	Before string
	After  string
}

// Expand implements the Handler interface.
func (m Wrap) Expand(c *Context, children []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	return []tree.Piece{
		tree.Markup(m.Before),
		Content(children, parent),
		tree.Markup(m.After),
	}, nil
}

// Ignore removes a construct from the output.  If KeepContents is set,
// the contents are kept, so that only the markup is dropped.
type Ignore struct {
	KeepContents bool
}

// Expand implements the Handler interface.
func (m Ignore) Expand(c *Context, children []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	if m.KeepContents {
		return []tree.Piece{Content(children, parent)}, nil
	}
	return nil, nil
}

// Drop removes a construct together with its arguments.
var Drop = Ignore{}

// Content returns the text a construct applies to: the contents of
// the mandatory arguments of a command, or the body of an environment.
func Content(children []*tree.Node, parent *tree.Node) tree.Nodes {
	if parent.Kind() != tree.KindCommand {
		return tree.Nodes(children)
	}
	var res tree.Nodes
	for _, arg := range children {
		if arg.Name() == "[" {
			continue
		}
		res = append(res, arg.Body()...)
	}
	return res
}
