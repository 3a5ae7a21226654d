// tree.go -
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

package tree

import (
	"fmt"

	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/latex/scanner"
)

// Tree owns all nodes of a document.  Nodes are kept in an arena and
// refer to their parents by ID.  Nodes which have been expanded stay in
// the arena, so that the origin of generated nodes can still be looked
// up, but they are no longer reachable from the root.
type Tree struct {
	nodes []*Node
	root  *Node
}

// New creates a tree which only contains an empty root node.
func New() *Tree {
	t := &Tree{}
	t.root = t.add(&Node{kind: KindRoot}, NoID)
	return t
}

// Root returns the root node of the tree.
func (t *Tree) Root() *Node {
	return t.root
}

// Node returns the node with the given ID.
func (t *Tree) Node(id ID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Len returns the number of nodes ever allocated in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) add(n *Node, parent ID) *Node {
	n.id = ID(len(t.nodes))
	n.parent = parent
	n.tree = t
	t.nodes = append(t.nodes, n)
	return n
}

func parentID(parent *Node) ID {
	if parent == nil {
		return NoID
	}
	return parent.id
}

// NewText allocates a Text node.
func (t *Tree) NewText(text string, span scanner.Span, parent *Node) *Node {
	return t.add(&Node{kind: KindText, text: text, span: span}, parentID(parent))
}

// NewComment allocates a Comment node.  The text includes the leading
// percent sign and the terminating line break, if any.
func (t *Tree) NewComment(text string, span scanner.Span, parent *Node) *Node {
	return t.add(&Node{kind: KindComment, text: text, span: span}, parentID(parent))
}

// NewCommand allocates a Command node.  The argument raw is the marker
// as it appears in the source, e.g. `\section*`.
func (t *Tree) NewCommand(name, raw string, span scanner.Span, parent *Node) *Node {
	n := &Node{kind: KindCommand, name: name, open: raw, span: span}
	return t.add(n, parentID(parent))
}

// NewBlock allocates a Block node.  The close delimiter is set when the
// block is completed.
func (t *Tree) NewBlock(name, open string, short bool, span scanner.Span, parent *Node) *Node {
	n := &Node{kind: KindBlock, name: name, open: open, short: short, span: span}
	return t.add(n, parentID(parent))
}

// NewGroup allocates a Group node.  The argument delim is the opening
// delimiter, raw is the source text of the opening, including any
// white space before the delimiter.
func (t *Tree) NewGroup(delim, raw string, span scanner.Span, parent *Node) *Node {
	n := &Node{kind: KindGroup, name: delim, open: raw, span: span}
	return t.add(n, parentID(parent))
}

// NewMarkup allocates a node which holds output text.  Markup is copied
// to the output without escaping.
func (t *Tree) NewMarkup(text string, parent *Node) *Node {
	return t.add(&Node{kind: KindMarkup, text: text}, parentID(parent))
}

// NewAnchor allocates a link target with the given anchor id.
func (t *Tree) NewAnchor(id string, parent *Node) *Node {
	return t.add(&Node{kind: KindAnchor, text: id}, parentID(parent))
}

// NewRef allocates a cross-reference to a label.  The style is one of
// "ref", "eqref" and "link"; see the writer for how these are shown.
func (t *Tree) NewRef(style, label string, parent *Node) *Node {
	return t.add(&Node{kind: KindRef, name: style, text: label}, parentID(parent))
}

// NewImage allocates a leaf which stands for a rendered fragment.
// Handlers may supply img directly; fallback renders fill it in later
// using SetImage.
func (t *Tree) NewImage(frag *render.Fragment, img *render.Image, inline bool, parent *Node) *Node {
	n := &Node{kind: KindImage, frag: frag, image: img, short: inline, state: Rendered}
	if frag != nil {
		n.span = frag.Span
	}
	return t.add(n, parentID(parent))
}

// SetImage stores the result of rendering an Image node.
func (t *Tree) SetImage(n *Node, img *render.Image) {
	if n.kind != KindImage {
		panic("SetImage on " + n.kind.String() + " node")
	}
	n.image = img
}

// AppendArg adds an argument group to a Command or Block.
func (t *Tree) AppendArg(n, arg *Node) {
	n.args = append(n.args, arg)
	n.extend(arg.span.End)
}

// AppendBody adds a node to the body of a Block, Group or the root.
func (t *Tree) AppendBody(n, child *Node) {
	n.body = append(n.body, child)
}

// SetBody replaces the contents of a Block, Group or the root.
func (t *Tree) SetBody(n *Node, body []*Node) {
	n.body = body
}

// Close records the closing delimiter of a Block or Group.
func (t *Tree) Close(n *Node, raw string, end scanner.Pos) {
	n.close = raw
	n.extend(end)
}

func (n *Node) extend(end scanner.Pos) {
	if end.Offset > n.span.End.Offset {
		n.span.End = end
	}
}

// InvalidTransitionError is returned when the resolution state of a
// node is changed more than once.
type InvalidTransitionError struct {
	Node *Node
	From State
	To   State
}

func (err *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: invalid transition %s -> %s", err.Node, err.From, err.To)
}

// Transition moves a Command or Block node from Unexpanded to the given
// final state.  Every node makes this transition exactly once.
func (t *Tree) Transition(n *Node, to State) error {
	if !n.IsConstruct() || n.state != Unexpanded || to == Unexpanded {
		return &InvalidTransitionError{Node: n, From: n.state, To: to}
	}
	n.state = to
	return nil
}

// Piece is one element of a handler result: a *Node, a list of Nodes or
// a Markup string.
type Piece interface {
	isPiece()
}

// Nodes is a list of nodes which is used as a single Piece.
type Nodes []*Node

// Markup is output text which is copied to the HTML without escaping.
type Markup string

func (*Node) isPiece()  {}
func (Nodes) isPiece()  {}
func (Markup) isPiece() {}

// Materialize converts handler results into a list of nodes.  Markup
// strings become Markup nodes with the given parent, existing nodes are
// kept unchanged.  Empty markup is dropped.
func (t *Tree) Materialize(pieces []Piece, parent *Node) ([]*Node, error) {
	var res []*Node
	add := func(n *Node) error {
		if n == nil {
			return nil
		}
		if n.tree != t {
			return fmt.Errorf("%s belongs to a different tree", n)
		}
		res = append(res, n)
		return nil
	}
	for _, p := range pieces {
		switch p := p.(type) {
		case *Node:
			if err := add(p); err != nil {
				return nil, err
			}
		case Nodes:
			for _, n := range p {
				if err := add(n); err != nil {
					return nil, err
				}
			}
		case Markup:
			if p != "" {
				res = append(res, t.NewMarkup(string(p), parent))
			}
		case nil:
			// skip
		default:
			return nil, fmt.Errorf("unexpected piece type %T", p)
		}
	}
	return res, nil
}
