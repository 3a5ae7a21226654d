// node.go -
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
	"strings"

	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/latex/scanner"
)

// ID identifies a node inside its tree.
type ID int32

// NoID is the parent ID of the root node and of unattached nodes.
const NoID ID = -1

// Kind enumerates the different kinds of node.
type Kind int

// These are the node kinds.  Markup, Image, Anchor and Ref nodes only
// occur as the result of expansion.
const (
	KindRoot Kind = iota
	KindText
	KindComment
	KindCommand
	KindBlock
	KindGroup
	KindMarkup
	KindImage
	KindAnchor
	KindRef
)

var kindNames = []string{
	"Root", "Text", "Comment", "Command", "Block", "Group",
	"Markup", "Image", "Anchor", "Ref",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// State is the resolution state of a Command or Block node.
type State int

// The resolution states.  A node moves from Unexpanded to either
// Expanded or Rendered exactly once.
const (
	Unexpanded State = iota
	Expanded
	Rendered
)

func (s State) String() string {
	switch s {
	case Unexpanded:
		return "Unexpanded"
	case Expanded:
		return "Expanded"
	case Rendered:
		return "Rendered"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Node is an element of the document tree.  Nodes are owned by a Tree
// and are read-only for everybody except the tree builder and the
// expansion engine.
type Node struct {
	id     ID
	parent ID
	tree   *Tree

	kind  Kind
	state State
	name  string
	text  string
	open  string
	close string
	short bool
	args  []*Node
	body  []*Node
	span  scanner.Span

	frag  *render.Fragment
	image *render.Image
}

// ID returns the identity of the node.
func (n *Node) ID() ID { return n.id }

// Kind returns the kind of the node.
func (n *Node) Kind() Kind { return n.kind }

// State returns the resolution state of a Command or Block node.
func (n *Node) State() State { return n.state }

// Span returns the source location of the node.  Nodes created during
// expansion have an empty span.
func (n *Node) Span() scanner.Span { return n.span }

// Name returns the name of a Command or Block, without the leading
// backslash.  For Ref nodes this is the reference style, for Group
// nodes the opening delimiter.
func (n *Node) Name() string { return n.name }

// Text returns the content of Text, Comment and Markup nodes, exactly
// as it appears in the source.  For Anchor and Ref nodes this is the
// label.
func (n *Node) Text() string { return n.text }

// IsShort reports whether a Block uses one of the single-marker
// delimiters like $...$.
func (n *Node) IsShort() bool { return n.short }

// IsConstruct reports whether n is a Command or a Block.
func (n *Node) IsConstruct() bool {
	return n.kind == KindCommand || n.kind == KindBlock
}

// Args returns the argument groups of a Command or Block.
func (n *Node) Args() []*Node { return n.args }

// Body returns the contents of a Block, Group or the Root node.
func (n *Node) Body() []*Node { return n.body }

// Children returns the nodes a handler operates on: the argument
// groups of a Command, or the body of any other node.
func (n *Node) Children() []*Node {
	if n.kind == KindCommand {
		return n.args
	}
	return n.body
}

// Arguments returns the contents of the argument groups, one node
// list per group.
func (n *Node) Arguments() [][]*Node {
	res := make([][]*Node, len(n.args))
	for i, arg := range n.args {
		res[i] = arg.body
	}
	return res
}

// Arg returns the i-th mandatory argument, i.e. the i-th argument
// delimited by braces, or nil if there is no such argument.
func (n *Node) Arg(i int) *Node {
	for _, arg := range n.args {
		if arg.name != "[" {
			if i == 0 {
				return arg
			}
			i--
		}
	}
	return nil
}

// OptArg returns the first optional argument, or nil.
func (n *Node) OptArg() *Node {
	for _, arg := range n.args {
		if arg.name == "[" {
			return arg
		}
	}
	return nil
}

// ArgText returns the source text inside the i-th mandatory argument,
// with surrounding white space removed.
func (n *Node) ArgText(i int) string {
	arg := n.Arg(i)
	if arg == nil {
		return ""
	}
	return strings.TrimSpace(arg.InnerSource())
}

// Parent returns the node this node originates from, or nil for the
// root.  For nodes produced by a handler, this is the construct the
// handler expanded.
func (n *Node) Parent() *Node {
	if n.tree == nil || n.parent == NoID {
		return nil
	}
	return n.tree.Node(n.parent)
}

// Ancestors returns the chain of parents, nearest first.
func (n *Node) Ancestors() []*Node {
	var res []*Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		res = append(res, p)
	}
	return res
}

// Enclosing returns the nearest ancestor Command or Block with one of
// the given names, or nil.
func (n *Node) Enclosing(names ...string) *Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if !p.IsConstruct() {
			continue
		}
		for _, name := range names {
			if p.name == name {
				return p
			}
		}
	}
	return nil
}

// Fragment returns the render job of an Image node.
func (n *Node) Fragment() *render.Fragment { return n.frag }

// Image returns the rendered image of an Image node.  For fallback
// renders this is nil until the render queue has finished.
func (n *Node) Image() *render.Image { return n.image }

// IsInline reports whether an Image node is part of the running text.
func (n *Node) IsInline() bool { return n.short }

func (n *Node) String() string {
	switch n.kind {
	case KindCommand:
		return fmt.Sprintf("Command(%s)#%d", n.name, n.id)
	case KindBlock:
		return fmt.Sprintf("Block(%s)#%d", n.name, n.id)
	case KindText, KindComment, KindMarkup:
		return fmt.Sprintf("%s(%q)#%d", n.kind, n.text, n.id)
	}
	return fmt.Sprintf("%s#%d", n.kind, n.id)
}
